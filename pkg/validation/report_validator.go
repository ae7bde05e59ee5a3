package validation

import (
	"fmt"

	"go-a11y-inspector/pkg/models"
)

// ReportValidator checks a finished report against the guarantees callers
// rely on: counts that add up, no empty categories, and issue bounds that
// describe real rectangles.
type ReportValidator struct{}

// NewReportValidator creates a report validator.
func NewReportValidator() *ReportValidator {
	return &ReportValidator{}
}

// Validate returns an error describing the first inconsistency found, or nil
// when the report is internally consistent.
func (v *ReportValidator) Validate(report *models.Report) error {
	if report == nil {
		return fmt.Errorf("report is nil")
	}

	if report.ImageDimensions[0] <= 0 || report.ImageDimensions[1] <= 0 {
		return fmt.Errorf("invalid image dimensions %dx%d",
			report.ImageDimensions[0], report.ImageDimensions[1])
	}

	total := 0
	for category, issues := range report.IssuesByCategory {
		if len(issues) == 0 {
			return fmt.Errorf("category %q present with zero issues", category)
		}

		summary, ok := report.Summary[category]
		if !ok {
			return fmt.Errorf("category %q has issues but no summary", category)
		}
		if summary.Count != len(issues) {
			return fmt.Errorf("category %q summary count %d != %d issues",
				category, summary.Count, len(issues))
		}
		if summary.HighSeverity+summary.MediumSeverity != summary.Count {
			return fmt.Errorf("category %q severity split %d+%d != count %d",
				category, summary.HighSeverity, summary.MediumSeverity, summary.Count)
		}

		for i, issue := range issues {
			if issue.Severity != models.SeverityHigh && issue.Severity != models.SeverityMedium {
				return fmt.Errorf("category %q issue %d has severity %q", category, i, issue.Severity)
			}
			if issue.Description == "" {
				return fmt.Errorf("category %q issue %d has empty description", category, i)
			}
			if !issue.Bounds.Valid() {
				return fmt.Errorf("category %q issue %d has invalid bounds %v", category, i, issue.Bounds)
			}
		}

		total += len(issues)
	}

	for category := range report.Summary {
		if _, ok := report.IssuesByCategory[category]; !ok {
			return fmt.Errorf("category %q has summary but no issues", category)
		}
	}

	if report.TotalIssues != total {
		return fmt.Errorf("total issues %d != sum of categories %d", report.TotalIssues, total)
	}

	return nil
}
