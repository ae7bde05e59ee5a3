package models

// AnalysisRequest is the payload accepted by the /analyze endpoint.
// XMLURL and ImageURL accept http(s) URLs or local file paths.
type AnalysisRequest struct {
	XMLURL       string  `json:"xml_url" binding:"required"`
	ImageURL     string  `json:"image_url" binding:"required"`
	DensityScale float64 `json:"density_scale,omitempty"`
	MarkIssues   bool    `json:"mark_issues,omitempty"`
	RecoverText  bool    `json:"recover_text,omitempty"`
}

// AnalysisResponse wraps the accessibility report with request echo fields
// and, when marking was requested, the exported artifact locations.
type AnalysisResponse struct {
	ImageURL          string   `json:"image_url"`
	XMLURL            string   `json:"xml_url"`
	ProcessingTimeSec float64  `json:"processing_time_sec"`
	MarkedImages      []string `json:"marked_images,omitempty"`
	*Report
}

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
