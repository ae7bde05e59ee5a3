// Package repository mediates access to the two inputs an analysis needs:
// the screenshot and its layout XML document.
package repository

import (
	"context"
	"image"
)

// ScreenSnapshot bundles the fetched inputs for one analysis. Name is
// derived from the image URL and used when naming exported artifacts.
type ScreenSnapshot struct {
	Name      string
	Image     image.Image
	LayoutXML string
	ImageURL  string
	XMLURL    string
}

// ScreenRepository fetches screen snapshots for analysis.
type ScreenRepository interface {
	// FetchScreen retrieves and decodes the screenshot at imageURL and the
	// layout document at xmlURL.
	FetchScreen(ctx context.Context, imageURL, xmlURL string) (*ScreenSnapshot, error)
}
