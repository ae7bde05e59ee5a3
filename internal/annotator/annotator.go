// Package annotator renders analysis results back onto the screenshot:
// each issue category gets its own copy of the image with the offending
// element bounds outlined in the category's color.
package annotator

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"github.com/sirupsen/logrus"

	"go-a11y-inspector/internal/logger"
	"go-a11y-inspector/internal/storage"
	"go-a11y-inspector/pkg/models"
)

// outlineThickness is the rectangle stroke width in pixels.
const outlineThickness = 4

// categoryColors assigns each issue category a marker color.
var categoryColors = map[models.IssueCategory]color.RGBA{
	models.CategoryContentDescription: {R: 0, G: 0, B: 255, A: 255},     // blue
	models.CategoryTouchTargetSize:    {R: 255, G: 0, B: 0, A: 255},     // red
	models.CategoryColorContrast:      {R: 238, G: 130, B: 238, A: 255}, // violet
	models.CategoryHeadingHierarchy:   {R: 255, G: 165, B: 0, A: 255},   // orange
}

// fallbackColor marks issues from categories without an assigned color.
var fallbackColor = color.RGBA{R: 0, G: 255, B: 0, A: 255} // green

// MarkIssues returns a copy of img with each issue's bounds outlined in the
// given color. Issues without valid bounds are skipped.
func MarkIssues(img image.Image, issues []models.Issue, outline color.RGBA) *image.RGBA {
	marked := image.NewRGBA(img.Bounds())
	draw.Draw(marked, marked.Bounds(), img, img.Bounds().Min, draw.Src)

	for _, issue := range issues {
		if !issue.Bounds.Valid() || issue.Bounds.Empty() {
			continue
		}
		drawOutline(marked, issue.Bounds, outline)
	}
	return marked
}

// drawOutline strokes the rectangle as four filled bands, clamped to the
// image so out-of-screen bounds degrade instead of panicking.
func drawOutline(dst *image.RGBA, b models.Bounds, c color.RGBA) {
	rect := image.Rect(b.Left(), b.Top(), b.Right(), b.Bottom())
	src := &image.Uniform{C: c}

	bands := []image.Rectangle{
		image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+outlineThickness), // top
		image.Rect(rect.Min.X, rect.Max.Y-outlineThickness, rect.Max.X, rect.Max.Y), // bottom
		image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+outlineThickness, rect.Max.Y), // left
		image.Rect(rect.Max.X-outlineThickness, rect.Min.Y, rect.Max.X, rect.Max.Y), // right
	}
	for _, band := range bands {
		draw.Draw(dst, band.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
	}
}

// Exporter writes per-category marked screenshots to an artifact store.
type Exporter struct {
	store storage.ArtifactStore
	log   *logrus.Entry
}

// NewExporter creates an exporter backed by the given artifact store.
func NewExporter(store storage.ArtifactStore) *Exporter {
	return &Exporter{
		store: store,
		log:   logger.ForComponent("annotator"),
	}
}

// Export renders and stores one marked image per category that has issues,
// named "<screenName>_<Category_With_Underscores>.png". It returns the
// stored artifact locations in category order.
func (e *Exporter) Export(ctx context.Context, screenName string, img image.Image, report *models.Report) ([]string, error) {
	var locations []string

	for _, category := range models.Categories {
		issues := report.IssuesByCategory[category]
		if len(issues) == 0 {
			continue
		}

		outline, ok := categoryColors[category]
		if !ok {
			outline = fallbackColor
		}
		marked := MarkIssues(img, issues, outline)

		var buf bytes.Buffer
		if err := png.Encode(&buf, marked); err != nil {
			return locations, fmt.Errorf("encoding marked image for %s: %w", category, err)
		}

		name := ArtifactName(screenName, category)
		location, err := e.store.SaveArtifact(ctx, name, &buf)
		if err != nil {
			return locations, fmt.Errorf("saving marked image %s: %w", name, err)
		}

		e.log.WithFields(logrus.Fields{
			"category": string(category),
			"location": location,
			"issues":   len(issues),
		}).Debug("exported marked screenshot")
		locations = append(locations, location)
	}

	return locations, nil
}

// ArtifactName builds the artifact file name for one category's marked
// screenshot.
func ArtifactName(screenName string, category models.IssueCategory) string {
	return fmt.Sprintf("%s_%s.png", screenName, strings.ReplaceAll(string(category), " ", "_"))
}
