package analyzer

import (
	"time"

	"go-a11y-inspector/pkg/models"
)

// aggregateReport merges per-category issue streams into the final report,
// preserving each analyzer's detection order within its category. Categories
// with zero issues are omitted from both the issue map and the summary.
func aggregateReport(issuesByCategory map[models.IssueCategory][]models.Issue, width, height int, now time.Time) *models.Report {
	report := &models.Report{
		Timestamp:        now,
		ImageDimensions:  [2]int{width, height},
		IssuesByCategory: make(map[models.IssueCategory][]models.Issue),
		Summary:          make(map[models.IssueCategory]models.CategorySummary),
	}

	for _, category := range models.Categories {
		issues := issuesByCategory[category]
		if len(issues) == 0 {
			continue
		}

		summary := models.CategorySummary{Count: len(issues)}
		for _, issue := range issues {
			switch issue.Severity {
			case models.SeverityHigh:
				summary.HighSeverity++
			case models.SeverityMedium:
				summary.MediumSeverity++
			}
		}

		report.IssuesByCategory[category] = issues
		report.Summary[category] = summary
		report.TotalIssues += summary.Count
	}

	return report
}
