// Package ocr recovers on-screen text for elements whose layout XML carries
// none, and scores recovered text against declared labels. It is an optional
// collaborator: the analysis core never depends on recognition succeeding.
package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/otiai10/gosseract/v2"

	"go-a11y-inspector/pkg/models"
)

// Recognizer reads text out of screenshot regions with tesseract.
type Recognizer struct {
	language string
}

// NewRecognizer creates a recognizer for the given tesseract language.
func NewRecognizer(language string) *Recognizer {
	if language == "" {
		language = "eng"
	}
	return &Recognizer{language: language}
}

// RecognizeRegion crops the element bounds out of the screenshot and runs
// OCR over the crop. The returned text is trimmed of recognition noise; an
// empty string means no text was found.
func (r *Recognizer) RecognizeRegion(img image.Image, bounds models.Bounds) (string, error) {
	crop := image.Rect(bounds.Left(), bounds.Top(), bounds.Right(), bounds.Bottom()).
		Intersect(img.Bounds())
	if crop.Empty() {
		return "", fmt.Errorf("region %v is outside the image", bounds)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, crop.Dx(), crop.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, crop.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return "", fmt.Errorf("encoding region for OCR: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(r.language); err != nil {
		return "", fmt.Errorf("setting OCR language %q: %w", r.language, err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("loading region into OCR engine: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognizing region text: %w", err)
	}
	return NormalizeText(text), nil
}
