package validation

import (
	"testing"
	"time"

	"go-a11y-inspector/pkg/models"
)

func validReport() *models.Report {
	return &models.Report{
		Timestamp:       time.Now(),
		ImageDimensions: [2]int{1080, 1920},
		TotalIssues:     3,
		IssuesByCategory: map[models.IssueCategory][]models.Issue{
			models.CategoryContentDescription: {
				{Severity: models.SeverityHigh, Description: "missing label", Bounds: models.Bounds{0, 0, 10, 10}},
			},
			models.CategoryTouchTargetSize: {
				{Severity: models.SeverityMedium, Description: "too small", Bounds: models.Bounds{0, 0, 20, 20}},
				{Severity: models.SeverityMedium, Description: "too small", Bounds: models.Bounds{30, 30, 50, 50}},
			},
		},
		Summary: map[models.IssueCategory]models.CategorySummary{
			models.CategoryContentDescription: {Count: 1, HighSeverity: 1},
			models.CategoryTouchTargetSize:    {Count: 2, MediumSeverity: 2},
		},
	}
}

func TestReportValidator_Valid(t *testing.T) {
	if err := NewReportValidator().Validate(validReport()); err != nil {
		t.Errorf("expected valid report, got %v", err)
	}
}

func TestReportValidator_Inconsistencies(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Report)
	}{
		{
			name:   "nil dimensions",
			mutate: func(r *models.Report) { r.ImageDimensions = [2]int{0, 1920} },
		},
		{
			name:   "total mismatch",
			mutate: func(r *models.Report) { r.TotalIssues = 7 },
		},
		{
			name: "empty category present",
			mutate: func(r *models.Report) {
				r.IssuesByCategory[models.CategoryColorContrast] = nil
			},
		},
		{
			name: "summary count mismatch",
			mutate: func(r *models.Report) {
				s := r.Summary[models.CategoryTouchTargetSize]
				s.Count = 5
				r.Summary[models.CategoryTouchTargetSize] = s
			},
		},
		{
			name: "severity split mismatch",
			mutate: func(r *models.Report) {
				s := r.Summary[models.CategoryTouchTargetSize]
				s.MediumSeverity = 1
				r.Summary[models.CategoryTouchTargetSize] = s
			},
		},
		{
			name: "summary without issues",
			mutate: func(r *models.Report) {
				r.Summary[models.CategoryHeadingHierarchy] = models.CategorySummary{Count: 1, HighSeverity: 1}
			},
		},
		{
			name: "invalid issue bounds",
			mutate: func(r *models.Report) {
				r.IssuesByCategory[models.CategoryContentDescription][0].Bounds = models.Bounds{10, 10, 5, 5}
			},
		},
		{
			name: "empty description",
			mutate: func(r *models.Report) {
				r.IssuesByCategory[models.CategoryContentDescription][0].Description = ""
			},
		},
		{
			name: "unknown severity",
			mutate: func(r *models.Report) {
				r.IssuesByCategory[models.CategoryContentDescription][0].Severity = "Critical"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := validReport()
			tt.mutate(report)
			if err := NewReportValidator().Validate(report); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestReportValidator_NilReport(t *testing.T) {
	if err := NewReportValidator().Validate(nil); err == nil {
		t.Error("expected error for nil report")
	}
}
