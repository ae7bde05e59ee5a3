// Package storage fetches analysis inputs (screenshots and layout XML) and
// persists analysis artifacts (marked-up screenshots). Backends exist for
// HTTP(S), the local filesystem, and Azure Blob Storage.
package storage

import (
	"context"
	"image"
	"io"
)

// ContentFetcher retrieves the two inputs an analysis needs.
type ContentFetcher interface {
	// FetchImage downloads and decodes a screenshot.
	FetchImage(ctx context.Context, imageURL string) (image.Image, error)
	// FetchText downloads a layout XML document as a string.
	FetchText(ctx context.Context, textURL string) (string, error)
}

// ArtifactStore persists generated artifacts such as marked-up screenshots.
// SaveArtifact returns a location string the caller can report back, e.g. a
// file path or blob URL.
type ArtifactStore interface {
	SaveArtifact(ctx context.Context, name string, content io.Reader) (string, error)
}
