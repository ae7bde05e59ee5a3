package models

import "time"

// IssueCategory identifies one of the four accessibility defect classes.
type IssueCategory string

const (
	CategoryContentDescription IssueCategory = "Content Description"
	CategoryTouchTargetSize    IssueCategory = "Touch Target Size"
	CategoryColorContrast      IssueCategory = "Color Contrast"
	CategoryHeadingHierarchy   IssueCategory = "Heading Hierarchy"
)

// Categories lists all issue categories in report order.
var Categories = []IssueCategory{
	CategoryContentDescription,
	CategoryTouchTargetSize,
	CategoryColorContrast,
	CategoryHeadingHierarchy,
}

// Severity ranks how urgently an issue should be addressed.
// SeverityLow is reserved for future use.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// RGB is an 8-bit-per-channel color triple, serialized as a 3-element array.
type RGB [3]uint8

// ColorSample holds the dominant foreground/background colors extracted
// from a text-bearing element's screenshot region.
type ColorSample struct {
	Foreground RGB `json:"foreground"`
	Background RGB `json:"background"`
}

// Bounds is an axis-aligned pixel rectangle stored as [left, top, right, bottom].
type Bounds [4]int

func (b Bounds) Left() int   { return b[0] }
func (b Bounds) Top() int    { return b[1] }
func (b Bounds) Right() int  { return b[2] }
func (b Bounds) Bottom() int { return b[3] }

// Width returns the pixel width of the rectangle.
func (b Bounds) Width() int { return b[2] - b[0] }

// Height returns the pixel height of the rectangle.
func (b Bounds) Height() int { return b[3] - b[1] }

// Valid reports whether right >= left and bottom >= top.
func (b Bounds) Valid() bool { return b[2] >= b[0] && b[3] >= b[1] }

// Empty reports whether the rectangle covers zero pixels.
func (b Bounds) Empty() bool { return b.Width() <= 0 || b.Height() <= 0 }

// ElementInfo is a category-specific snapshot of the element an issue refers to.
// Only the fields relevant to the issue's category are populated.
type ElementInfo struct {
	Type          string       `json:"type"`
	ResourceID    string       `json:"resource_id,omitempty"`
	Text          string       `json:"text,omitempty"`
	Size          string       `json:"size,omitempty"`
	ContrastRatio float64      `json:"contrast_ratio,omitempty"`
	Colors        *ColorSample `json:"colors,omitempty"`
}

// Issue is a single accessibility finding. Bounds are copied from the source
// element at detection time and never mutated afterwards.
type Issue struct {
	Category      IssueCategory `json:"-"`
	Severity      Severity      `json:"severity"`
	Description   string        `json:"description"`
	FixSuggestion string        `json:"fix_suggestion"`
	ElementInfo   ElementInfo   `json:"element_info"`
	Bounds        Bounds        `json:"bounds"`
}

// CategorySummary aggregates issue counts for one category.
type CategorySummary struct {
	Count          int `json:"count"`
	HighSeverity   int `json:"high_severity"`
	MediumSeverity int `json:"medium_severity"`
}

// Report is the terminal artifact of one analysis run. Categories with zero
// issues are absent from both IssuesByCategory and Summary.
type Report struct {
	Timestamp        time.Time                         `json:"timestamp"`
	ImageDimensions  [2]int                            `json:"image_dimensions"`
	TotalIssues      int                               `json:"total_issues"`
	IssuesByCategory map[IssueCategory][]Issue         `json:"issues_by_category"`
	Summary          map[IssueCategory]CategorySummary `json:"summary"`
}

// Issues returns all issues in report order: by category, detection order
// preserved within each category.
func (r *Report) Issues() []Issue {
	var out []Issue
	for _, cat := range Categories {
		out = append(out, r.IssuesByCategory[cat]...)
	}
	return out
}
