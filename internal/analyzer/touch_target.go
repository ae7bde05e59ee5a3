package analyzer

import (
	"context"
	"fmt"
	"math"

	"go-a11y-inspector/pkg/models"
)

// MinTouchTargetDP is the platform minimum touch target edge length. It is a
// fixed platform constant, not configurable per call.
const MinTouchTargetDP = 48.0

// touchTargetAnalyzer flags interactive elements whose touch area is below
// the platform minimum once pixel sizes are converted to density-independent
// pixels.
type touchTargetAnalyzer struct{}

func newTouchTargetAnalyzer() *touchTargetAnalyzer {
	return &touchTargetAnalyzer{}
}

func (a *touchTargetAnalyzer) Category() models.IssueCategory {
	return models.CategoryTouchTargetSize
}

func (a *touchTargetAnalyzer) Analyze(_ context.Context, screen *Screen, options AnalysisOptions) []models.Issue {
	options = options.normalized()

	var issues []models.Issue
	for idx := range screen.Tree.Nodes {
		node := &screen.Tree.Nodes[idx]
		if !node.Interactive {
			continue
		}

		widthDP := float64(node.Bounds.Width()) / options.DensityScale
		heightDP := float64(node.Bounds.Height()) / options.DensityScale
		if widthDP >= MinTouchTargetDP && heightDP >= MinTouchTargetDP {
			continue
		}

		size := fmt.Sprintf("%dx%ddp", int(math.Round(widthDP)), int(math.Round(heightDP)))
		issues = append(issues, models.Issue{
			Category: models.CategoryTouchTargetSize,
			Severity: models.SeverityMedium,
			Description: fmt.Sprintf("Touch target size (%s) smaller than recommended %ddp",
				size, int(MinTouchTargetDP)),
			FixSuggestion: fmt.Sprintf("Increase touch target size to at least %dx%ddp",
				int(MinTouchTargetDP), int(MinTouchTargetDP)),
			ElementInfo: models.ElementInfo{
				Type:       node.ClassName,
				ResourceID: node.ResourceID,
				Size:       size,
			},
			Bounds: node.Bounds,
		})
	}
	return issues
}
