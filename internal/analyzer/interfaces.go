package analyzer

import (
	"context"
	"image"

	"go-a11y-inspector/pkg/models"
)

// ScreenAnalyzer defines the main interface for static accessibility analysis
// of one screen (decoded screenshot + layout XML).
type ScreenAnalyzer interface {
	Analyze(ctx context.Context, img image.Image, layoutXML string, options AnalysisOptions) (*models.Report, error)

	// Lifecycle management
	Close() error
}

// Screen is the shared, read-only input of all category analyzers. The tree
// and image are immutable for the pipeline's duration.
type Screen struct {
	Tree  *ElementTree
	Image image.Image
}

// CategoryAnalyzer runs one detection algorithm over a screen. Implementations
// must be safe to run concurrently with each other against the same Screen.
type CategoryAnalyzer interface {
	Category() models.IssueCategory
	Analyze(ctx context.Context, screen *Screen, options AnalysisOptions) []models.Issue
}

// ColorExtractor derives the dominant foreground/background colors of an
// element's screenshot region.
type ColorExtractor interface {
	ExtractColors(img image.Image, bounds models.Bounds) (models.ColorSample, error)
}

// TextRecognizer recovers on-screen text for an element region when the
// layout XML does not already carry it. Implemented by internal/ocr.
type TextRecognizer interface {
	RecognizeRegion(img image.Image, bounds models.Bounds) (string, error)
}
