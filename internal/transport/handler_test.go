package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"go-a11y-inspector/internal/config"
	apperrors "go-a11y-inspector/internal/errors"
	"go-a11y-inspector/pkg/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeService struct {
	response    *models.AnalysisResponse
	err         error
	lastRequest models.AnalysisRequest
}

func (s *fakeService) AnalyzeScreen(ctx context.Context, request models.AnalysisRequest) (*models.AnalysisResponse, error) {
	s.lastRequest = request
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func (s *fakeService) ValidateRequest(request models.AnalysisRequest) error {
	return nil
}

func testHandlerConfig() *config.Config {
	return &config.Config{
		RequestTimeout:     5 * time.Second,
		MaxRequestBodySize: 1 << 20,
	}
}

func TestHealthCheck(t *testing.T) {
	handler := NewHandler(&fakeService{}, testHandlerConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid health body: %v", err)
	}
	if body["status"] != "available" {
		t.Errorf("unexpected status: %v", body["status"])
	}
}

func TestAnalyzeScreen_Success(t *testing.T) {
	svc := &fakeService{
		response: &models.AnalysisResponse{
			ImageURL: "https://example.com/home.png",
			XMLURL:   "https://example.com/home.xml",
			Report: &models.Report{
				Timestamp:       time.Now(),
				ImageDimensions: [2]int{1080, 1920},
				TotalIssues:     2,
			},
		},
	}
	handler := NewHandler(svc, testHandlerConfig())

	body := `{"image_url":"https://example.com/home.png","xml_url":"https://example.com/home.xml","density_scale":2.0}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastRequest.DensityScale != 2.0 {
		t.Errorf("expected density 2.0 bound, got %g", svc.lastRequest.DensityScale)
	}

	var resp struct {
		TotalIssues     int    `json:"total_issues"`
		ImageDimensions [2]int `json:"image_dimensions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.TotalIssues != 2 {
		t.Errorf("expected 2 total issues, got %d", resp.TotalIssues)
	}
	if resp.ImageDimensions != [2]int{1080, 1920} {
		t.Errorf("unexpected image dimensions: %v", resp.ImageDimensions)
	}
}

func TestAnalyzeScreen_MissingFields(t *testing.T) {
	handler := NewHandler(&fakeService{}, testHandlerConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"image_url":"https://example.com/home.png"}`))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing xml_url, got %d", rec.Code)
	}
}

func TestAnalyzeScreen_ErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "validation error",
			err:        apperrors.NewValidationError("invalid image URL", nil),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "parse error",
			err:        apperrors.NewParseError("malformed layout XML", nil),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "network error",
			err:        apperrors.NewNetworkError("failed to fetch screenshot", nil),
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "timeout error",
			err:        apperrors.NewTimeoutError("analysis aborted", nil),
			wantStatus: http.StatusGatewayTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(&fakeService{err: tt.err}, testHandlerConfig())

			body := `{"image_url":"https://example.com/home.png","xml_url":"https://example.com/home.xml"}`
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}

			var errResp models.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
				t.Fatalf("invalid error body: %v", err)
			}
			if errResp.Error == "" {
				t.Error("expected error field to be populated")
			}
		})
	}
}

func TestAnalyzeScreen_MarkIssuesQueryOverride(t *testing.T) {
	svc := &fakeService{
		response: &models.AnalysisResponse{
			Report: &models.Report{Timestamp: time.Now(), ImageDimensions: [2]int{10, 10}},
		},
	}
	handler := NewHandler(svc, testHandlerConfig())

	body := `{"image_url":"https://example.com/home.png","xml_url":"https://example.com/home.xml"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze?mark_issues=true", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !svc.lastRequest.MarkIssues {
		t.Error("expected mark_issues query parameter to override the body")
	}
}
