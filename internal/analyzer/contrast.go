package analyzer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"go-a11y-inspector/internal/logger"
	"go-a11y-inspector/internal/ocr"
	"go-a11y-inspector/pkg/models"
)

// RelativeLuminance computes WCAG 2.1 relative luminance for an 8-bit color.
func RelativeLuminance(c models.RGB) float64 {
	linear := func(channel uint8) float64 {
		srgb := float64(channel) / 255.0
		if srgb <= 0.03928 {
			return srgb / 12.92
		}
		return math.Pow((srgb+0.055)/1.055, 2.4)
	}
	return 0.2126*linear(c[0]) + 0.7152*linear(c[1]) + 0.0722*linear(c[2])
}

// ContrastRatio computes the WCAG contrast ratio between two colors.
// Black against white yields 21.0; a color against itself yields 1.0.
func ContrastRatio(a, b models.RGB) float64 {
	la := RelativeLuminance(a)
	lb := RelativeLuminance(b)
	lighter := math.Max(la, lb)
	darker := math.Min(la, lb)
	return (lighter + 0.05) / (darker + 0.05)
}

// SuggestForegrounds searches a bounded neighborhood of the foreground color
// for perturbations that reach the minimum ratio against the unchanged
// background. Candidates come back ordered by ascending Euclidean distance
// from the original foreground, capped at options.MaxSuggestions; the list is
// empty when nothing inside the radius passes.
func SuggestForegrounds(sample models.ColorSample, options AnalysisOptions) []models.RGB {
	options = options.normalized()

	type candidate struct {
		color models.RGB
		dist2 int
	}

	offsets := make([]int, 0, options.SuggestionRadius*2+1)
	for step := -options.SuggestionRadius; step <= options.SuggestionRadius; step++ {
		offsets = append(offsets, step*options.SuggestionStep)
	}

	seen := make(map[models.RGB]bool)
	var candidates []candidate
	for _, dr := range offsets {
		for _, dg := range offsets {
			for _, db := range offsets {
				if dr == 0 && dg == 0 && db == 0 {
					continue
				}
				c := models.RGB{
					clampChannel(int(sample.Foreground[0]) + dr),
					clampChannel(int(sample.Foreground[1]) + dg),
					clampChannel(int(sample.Foreground[2]) + db),
				}
				if c == sample.Foreground || seen[c] {
					continue
				}
				seen[c] = true
				if ContrastRatio(c, sample.Background) < options.MinContrastRatio {
					continue
				}
				candidates = append(candidates, candidate{color: c, dist2: colorDistance2(c, sample.Foreground)})
			}
		}
	}

	// Stable order: distance first, then channel-lexicographic so identical
	// input always yields identical suggestions.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist2 != candidates[j].dist2 {
			return candidates[i].dist2 < candidates[j].dist2
		}
		return lessRGB(candidates[i].color, candidates[j].color)
	})

	if len(candidates) > options.MaxSuggestions {
		candidates = candidates[:options.MaxSuggestions]
	}
	out := make([]models.RGB, len(candidates))
	for i, c := range candidates {
		out[i] = c.color
	}
	return out
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func colorDistance2(a, b models.RGB) int {
	dr := int(a[0]) - int(b[0])
	dg := int(a[1]) - int(b[1])
	db := int(a[2]) - int(b[2])
	return dr*dr + dg*dg + db*db
}

func lessRGB(a, b models.RGB) bool {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// contrastAnalyzer detects insufficient text contrast. Per-element color
// extraction fans out on the worker pool; results are re-associated with
// their originating element so issue order follows document order, not
// completion order.
type contrastAnalyzer struct {
	extractor  ColorExtractor
	pool       *WorkerPool
	recognizer TextRecognizer // optional
}

func newContrastAnalyzer(extractor ColorExtractor, pool *WorkerPool, recognizer TextRecognizer) *contrastAnalyzer {
	return &contrastAnalyzer{
		extractor:  extractor,
		pool:       pool,
		recognizer: recognizer,
	}
}

func (a *contrastAnalyzer) Category() models.IssueCategory {
	return models.CategoryColorContrast
}

func (a *contrastAnalyzer) Analyze(ctx context.Context, screen *Screen, options AnalysisOptions) []models.Issue {
	options = options.normalized()
	candidates := a.collectCandidates(screen, options)

	type extraction struct {
		sample models.ColorSample
		err    error
	}
	results := make([]extraction, len(candidates))

	if a.pool != nil && options.UseWorkerPool {
		done := make(chan int, len(candidates))
		for i, idx := range candidates {
			i, idx := i, idx
			job := func() {
				sample, err := a.extractor.ExtractColors(screen.Image, screen.Tree.Nodes[idx].Bounds)
				results[i] = extraction{sample: sample, err: err}
				done <- i
			}
			if !a.pool.Submit(job) {
				// Pool already shut down; extract inline so every candidate
				// still signals completion. done is buffered, so this never
				// blocks.
				job()
			}
		}
		for range candidates {
			select {
			case <-done:
			case <-ctx.Done():
				return nil
			}
		}
	} else {
		for i, idx := range candidates {
			sample, err := a.extractor.ExtractColors(screen.Image, screen.Tree.Nodes[idx].Bounds)
			results[i] = extraction{sample: sample, err: err}
		}
	}

	var issues []models.Issue
	for i, idx := range candidates {
		node := &screen.Tree.Nodes[idx]
		res := results[i]
		if res.err != nil {
			if errors.Is(res.err, ErrDegenerateRegion) || errors.Is(res.err, ErrUniformRegion) {
				logger.ForComponent("contrast_analyzer").WithFields(logrus.Fields{
					"class":  node.ClassName,
					"bounds": node.Bounds,
				}).WithError(res.err).Warn("skipping element, color extraction failed")
				continue
			}
			continue
		}

		ratio := ContrastRatio(res.sample.Foreground, res.sample.Background)
		if ratio >= options.MinContrastRatio {
			continue
		}

		severity := models.SeverityMedium
		if ratio < options.HighSeverityContrastRatio {
			severity = models.SeverityHigh
		}

		sample := res.sample
		issues = append(issues, models.Issue{
			Category:      models.CategoryColorContrast,
			Severity:      severity,
			Description:   fmt.Sprintf("Insufficient color contrast ratio: %.2f", ratio),
			FixSuggestion: formatSuggestions(SuggestForegrounds(sample, options)),
			ElementInfo: models.ElementInfo{
				Type:          node.ClassName,
				ResourceID:    node.ResourceID,
				Text:          node.Text,
				ContrastRatio: ratio,
				Colors:        &sample,
			},
			Bounds: node.Bounds,
		})
	}
	return issues
}

// collectCandidates returns the arena indices of text-bearing elements in
// document order. With text recovery enabled, elements whose XML carries no
// text are read via OCR, and elements whose declared text the recognizer
// cannot find in the region are dropped as likely obscured.
func (a *contrastAnalyzer) collectCandidates(screen *Screen, options AnalysisOptions) []int {
	var candidates []int
	for idx := range screen.Tree.Nodes {
		node := &screen.Tree.Nodes[idx]
		if node.Bounds.Empty() {
			continue
		}

		declared := strings.TrimSpace(node.Text)
		if declared != "" {
			if options.RecoverText && a.recognizer != nil {
				if recovered, err := a.recognizer.RecognizeRegion(screen.Image, node.Bounds); err == nil &&
					strings.TrimSpace(recovered) != "" && !ocr.MatchesDeclared(recovered, declared) {
					logger.ForComponent("contrast_analyzer").WithFields(logrus.Fields{
						"declared":  declared,
						"recovered": recovered,
					}).Debug("declared text not visible in region, skipping element")
					continue
				}
			}
			candidates = append(candidates, idx)
			continue
		}

		if options.RecoverText && a.recognizer != nil && len(node.Children) == 0 {
			recovered, err := a.recognizer.RecognizeRegion(screen.Image, node.Bounds)
			if err == nil && ocr.Plausible(recovered) {
				candidates = append(candidates, idx)
			}
		}
	}
	return candidates
}

func formatSuggestions(suggestions []models.RGB) string {
	if len(suggestions) == 0 {
		return "No passing foreground color found within the search radius; pick a darker or lighter text color manually"
	}
	parts := make([]string, len(suggestions))
	for i, c := range suggestions {
		parts[i] = fmt.Sprintf("RGB(%d, %d, %d)", c[0], c[1], c[2])
	}
	return "Use suggested colors: " + strings.Join(parts, ", ")
}
