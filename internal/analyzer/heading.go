package analyzer

import (
	"context"
	"fmt"

	"go-a11y-inspector/pkg/models"
)

// headingAnalyzer validates the ordering of heading-role elements in document
// order: the first heading must be level 1 and no heading may exceed the
// previous one by more than a single level.
type headingAnalyzer struct{}

func newHeadingAnalyzer() *headingAnalyzer {
	return &headingAnalyzer{}
}

func (a *headingAnalyzer) Category() models.IssueCategory {
	return models.CategoryHeadingHierarchy
}

func (a *headingAnalyzer) Analyze(_ context.Context, screen *Screen, _ AnalysisOptions) []models.Issue {
	var issues []models.Issue
	previous := 0 // 0 = no heading seen yet

	for idx := range screen.Tree.Nodes {
		node := &screen.Tree.Nodes[idx]
		level := node.HeadingLevel
		if level == 0 {
			continue
		}

		switch {
		case previous == 0 && level != 1:
			issues = append(issues, headingIssue(node,
				fmt.Sprintf("First heading must be level 1, found h%d", level)))
		case previous > 0 && level > previous+1:
			issues = append(issues, headingIssue(node,
				fmt.Sprintf("Skipped heading level: jumped from h%d to h%d", previous, level)))
		}

		previous = level
	}
	return issues
}

func headingIssue(node *ElementNode, description string) models.Issue {
	return models.Issue{
		Category:      models.CategoryHeadingHierarchy,
		Severity:      models.SeverityMedium,
		Description:   description,
		FixSuggestion: "Ensure heading levels are sequential",
		ElementInfo: models.ElementInfo{
			Type:       node.ClassName,
			ResourceID: node.ResourceID,
			Text:       node.Text,
		},
		Bounds: node.Bounds,
	}
}
