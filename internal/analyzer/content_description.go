package analyzer

import (
	"context"
	"strings"

	"go-a11y-inspector/pkg/models"
)

// contentDescriptionAnalyzer flags interactive or image-like elements whose
// accessible label is absent or blank. Label quality is not judged: any
// non-empty description passes.
type contentDescriptionAnalyzer struct{}

func newContentDescriptionAnalyzer() *contentDescriptionAnalyzer {
	return &contentDescriptionAnalyzer{}
}

func (a *contentDescriptionAnalyzer) Category() models.IssueCategory {
	return models.CategoryContentDescription
}

func (a *contentDescriptionAnalyzer) Analyze(_ context.Context, screen *Screen, _ AnalysisOptions) []models.Issue {
	var issues []models.Issue
	for idx := range screen.Tree.Nodes {
		node := &screen.Tree.Nodes[idx]
		if !node.Interactive && !node.ImageLike {
			continue
		}
		if strings.TrimSpace(node.ContentDesc) != "" {
			continue
		}

		issues = append(issues, models.Issue{
			Category:      models.CategoryContentDescription,
			Severity:      models.SeverityHigh,
			Description:   "Missing content description for interactive or image element",
			FixSuggestion: "Add a descriptive content description that explains the element's purpose",
			ElementInfo: models.ElementInfo{
				Type:       node.ClassName,
				ResourceID: node.ResourceID,
			},
			Bounds: node.Bounds,
		})
	}
	return issues
}
