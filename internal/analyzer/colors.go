package analyzer

import (
	"errors"
	"image"
	"math"

	"gonum.org/v1/gonum/stat"

	"go-a11y-inspector/pkg/models"
)

// Extraction failures are recoverable: the element is skipped from contrast
// analysis and the rest of the pipeline is unaffected.
var (
	ErrDegenerateRegion = errors.New("element region is degenerate after clamping to image extents")
	ErrUniformRegion    = errors.New("element region has a single dominant color")
)

// dominantColorExtractor separates a crop's pixels into two luminance
// clusters. The minority cluster is taken as the foreground (glyph pixels),
// the majority as the background. Pixels inside an ambiguity band between the
// cluster centers are treated as anti-aliased edges and excluded so they do
// not skew either cluster's mean color.
type dominantColorExtractor struct {
	edgeBand float64
	maxIter  int
}

// NewColorExtractor creates a color extractor with the given anti-alias
// exclusion band (fraction of the inter-cluster luminance span).
func NewColorExtractor(edgeBand float64) ColorExtractor {
	if edgeBand <= 0 || edgeBand >= 0.5 {
		edgeBand = DefaultOptions().EdgeExclusionBand
	}
	return &dominantColorExtractor{
		edgeBand: edgeBand,
		maxIter:  16,
	}
}

type pixelSample struct {
	r, g, b float64
	luma    float64
}

func (e *dominantColorExtractor) ExtractColors(img image.Image, bounds models.Bounds) (models.ColorSample, error) {
	crop := clampToImage(img, bounds)
	if crop.Empty() {
		return models.ColorSample{}, ErrDegenerateRegion
	}

	pixels := collectPixels(img, crop)
	if len(pixels) < 2 {
		return models.ColorSample{}, ErrDegenerateRegion
	}

	// Seed the two centers at the darkest and lightest pixels so the split
	// is deterministic for identical input.
	minLuma, maxLuma := pixels[0].luma, pixels[0].luma
	for _, p := range pixels[1:] {
		minLuma = math.Min(minLuma, p.luma)
		maxLuma = math.Max(maxLuma, p.luma)
	}
	if maxLuma-minLuma < 1.0 {
		// No second cluster to find; a flat region carries no glyphs.
		return models.ColorSample{}, ErrUniformRegion
	}

	dark, light := e.twoMeans(pixels, minLuma, maxLuma)

	darkColor, darkCount := clusterColor(pixels, dark, light, e.edgeBand, true)
	lightColor, lightCount := clusterColor(pixels, dark, light, e.edgeBand, false)
	if darkCount == 0 || lightCount == 0 {
		return models.ColorSample{}, ErrUniformRegion
	}

	// Glyph pixels are the minority; ties go to the darker cluster.
	sample := models.ColorSample{Foreground: darkColor, Background: lightColor}
	if darkCount > lightCount {
		sample = models.ColorSample{Foreground: lightColor, Background: darkColor}
	}
	return sample, nil
}

// twoMeans runs a fixed-iteration 1D two-means over pixel luminance and
// returns the converged dark/light centers.
func (e *dominantColorExtractor) twoMeans(pixels []pixelSample, dark, light float64) (float64, float64) {
	darkLumas := make([]float64, 0, len(pixels))
	lightLumas := make([]float64, 0, len(pixels))

	for iter := 0; iter < e.maxIter; iter++ {
		darkLumas = darkLumas[:0]
		lightLumas = lightLumas[:0]

		mid := (dark + light) / 2
		for _, p := range pixels {
			if p.luma < mid {
				darkLumas = append(darkLumas, p.luma)
			} else {
				lightLumas = append(lightLumas, p.luma)
			}
		}
		if len(darkLumas) == 0 || len(lightLumas) == 0 {
			break
		}

		nextDark := stat.Mean(darkLumas, nil)
		nextLight := stat.Mean(lightLumas, nil)
		if math.Abs(nextDark-dark) < 0.5 && math.Abs(nextLight-light) < 0.5 {
			dark, light = nextDark, nextLight
			break
		}
		dark, light = nextDark, nextLight
	}
	return dark, light
}

// clusterColor averages the RGB of the pixels assigned to one cluster,
// excluding pixels within the anti-alias band around the cluster midpoint.
func clusterColor(pixels []pixelSample, dark, light, edgeBand float64, wantDark bool) (models.RGB, int) {
	mid := (dark + light) / 2
	band := (light - dark) * edgeBand

	var r, g, b float64
	count := 0
	for _, p := range pixels {
		if math.Abs(p.luma-mid) <= band {
			continue // anti-aliased edge pixel
		}
		if (p.luma < mid) != wantDark {
			continue
		}
		r += p.r
		g += p.g
		b += p.b
		count++
	}
	if count == 0 {
		return models.RGB{}, 0
	}

	n := float64(count)
	return models.RGB{
		uint8(math.Round(r / n)),
		uint8(math.Round(g / n)),
		uint8(math.Round(b / n)),
	}, count
}

// clampToImage intersects element bounds with the image extents.
func clampToImage(img image.Image, bounds models.Bounds) models.Bounds {
	rect := img.Bounds()
	left := max(bounds.Left(), rect.Min.X)
	top := max(bounds.Top(), rect.Min.Y)
	right := min(bounds.Right(), rect.Max.X)
	bottom := min(bounds.Bottom(), rect.Max.Y)
	if right < left || bottom < top {
		return models.Bounds{}
	}
	return models.Bounds{left, top, right, bottom}
}

func collectPixels(img image.Image, crop models.Bounds) []pixelSample {
	pixels := make([]pixelSample, 0, crop.Width()*crop.Height())
	for y := crop.Top(); y < crop.Bottom(); y++ {
		for x := crop.Left(); x < crop.Right(); x++ {
			r16, g16, b16, _ := img.At(x, y).RGBA()
			r := float64(r16 >> 8)
			g := float64(g16 >> 8)
			b := float64(b16 >> 8)
			pixels = append(pixels, pixelSample{
				r: r, g: g, b: b,
				luma: 0.299*r + 0.587*g + 0.114*b,
			})
		}
	}
	return pixels
}
