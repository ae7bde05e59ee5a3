// Package service coordinates one accessibility analysis end to end:
// validate the request, fetch the screen, run the analyzer, check the
// report, and export marked screenshots when asked.
package service

import (
	"context"
	"time"

	"go-a11y-inspector/internal/analyzer"
	"go-a11y-inspector/internal/annotator"
	"go-a11y-inspector/internal/config"
	apperrors "go-a11y-inspector/internal/errors"
	"go-a11y-inspector/internal/observer"
	"go-a11y-inspector/internal/repository"
	"go-a11y-inspector/pkg/models"
	"go-a11y-inspector/pkg/validation"
)

// AccessibilityAnalysisService defines the service-level analysis API.
type AccessibilityAnalysisService interface {
	// AnalyzeScreen runs the full pipeline for one request.
	AnalyzeScreen(ctx context.Context, request models.AnalysisRequest) (*models.AnalysisResponse, error)
	// ValidateRequest checks the request without performing any work.
	ValidateRequest(request models.AnalysisRequest) error
}

type accessibilityAnalysisService struct {
	cfg             *config.Config
	screenRepo      repository.ScreenRepository
	analyzer        analyzer.ScreenAnalyzer
	exporter        *annotator.Exporter
	urlValidator    *validation.URLValidator
	reportValidator *validation.ReportValidator
	events          observer.Subject
}

// NewAccessibilityAnalysisService creates the analysis service. exporter may
// be nil when artifact export is disabled; events may be nil when nothing
// observes the pipeline.
func NewAccessibilityAnalysisService(
	cfg *config.Config,
	screenRepo repository.ScreenRepository,
	screenAnalyzer analyzer.ScreenAnalyzer,
	exporter *annotator.Exporter,
	events observer.Subject,
) AccessibilityAnalysisService {
	return &accessibilityAnalysisService{
		cfg:             cfg,
		screenRepo:      screenRepo,
		analyzer:        screenAnalyzer,
		exporter:        exporter,
		urlValidator:    validation.NewURLValidator(),
		reportValidator: validation.NewReportValidator(),
		events:          events,
	}
}

// ValidateRequest checks both content URLs and the optional density scale.
func (s *accessibilityAnalysisService) ValidateRequest(request models.AnalysisRequest) error {
	if err := s.urlValidator.ValidateContentURL(request.ImageURL); err != nil {
		return apperrors.NewValidationError("invalid image URL", err)
	}
	if err := s.urlValidator.ValidateContentURL(request.XMLURL); err != nil {
		return apperrors.NewValidationError("invalid XML URL", err)
	}
	if request.DensityScale < 0 {
		return apperrors.NewValidationError("density_scale must be positive", nil)
	}
	return nil
}

// AnalyzeScreen runs the full pipeline for one request.
func (s *accessibilityAnalysisService) AnalyzeScreen(ctx context.Context, request models.AnalysisRequest) (*models.AnalysisResponse, error) {
	start := time.Now()

	if err := s.ValidateRequest(request); err != nil {
		return nil, err
	}

	s.notify(ctx, observer.AnalysisEvent{
		EventType: observer.AnalysisStarted,
		Timestamp: start,
		ImageURL:  request.ImageURL,
		XMLURL:    request.XMLURL,
	})

	snapshot, err := s.screenRepo.FetchScreen(ctx, request.ImageURL, request.XMLURL)
	if err != nil {
		s.notifyFailure(ctx, request, observer.ScreenFetchFailed, start, err)
		return nil, err
	}
	s.notify(ctx, observer.AnalysisEvent{
		EventType: observer.ScreenFetched,
		Timestamp: time.Now(),
		ImageURL:  request.ImageURL,
		XMLURL:    request.XMLURL,
		Success:   true,
	})

	analysisCtx := ctx
	if s.cfg.AnalysisTimeout > 0 {
		var cancel context.CancelFunc
		analysisCtx, cancel = context.WithTimeout(ctx, s.cfg.AnalysisTimeout)
		defer cancel()
	}

	report, err := s.analyzer.Analyze(analysisCtx, snapshot.Image, snapshot.LayoutXML, s.buildOptions(request))
	if err != nil {
		s.notifyFailure(ctx, request, observer.AnalysisFailed, start, err)
		return nil, err
	}

	if err := s.reportValidator.Validate(report); err != nil {
		err = apperrors.NewInternalError("analysis produced an inconsistent report", err)
		s.notifyFailure(ctx, request, observer.AnalysisFailed, start, err)
		return nil, err
	}

	response := &models.AnalysisResponse{
		ImageURL:          request.ImageURL,
		XMLURL:            request.XMLURL,
		ProcessingTimeSec: time.Since(start).Seconds(),
		Report:            report,
	}

	if request.MarkIssues && s.exporter != nil && report.TotalIssues > 0 {
		locations, err := s.exporter.Export(ctx, snapshot.Name, snapshot.Image, report)
		if err != nil {
			// The report itself is sound; a failed export degrades rather
			// than failing the analysis.
			s.notifyFailure(ctx, request, observer.AnalysisFailed, start, err)
		} else {
			for range locations {
				s.notify(ctx, observer.AnalysisEvent{
					EventType: observer.ArtifactSaved,
					Timestamp: time.Now(),
					ImageURL:  request.ImageURL,
					Success:   true,
				})
			}
		}
		response.MarkedImages = locations
	}

	s.notify(ctx, observer.AnalysisEvent{
		EventType:      observer.AnalysisCompleted,
		Timestamp:      time.Now(),
		ImageURL:       request.ImageURL,
		XMLURL:         request.XMLURL,
		ProcessingTime: time.Since(start),
		TotalIssues:    report.TotalIssues,
		Success:        true,
	})

	return response, nil
}

// buildOptions maps request fields onto analyzer options, falling back to
// the configured defaults.
func (s *accessibilityAnalysisService) buildOptions(request models.AnalysisRequest) analyzer.AnalysisOptions {
	options := analyzer.DefaultOptions()

	density := request.DensityScale
	if density <= 0 {
		density = s.cfg.DefaultDensityScale
	}
	options = options.WithDensity(density)

	if request.RecoverText {
		options = options.WithTextRecovery(s.cfg.OCRLanguage)
	}
	return options
}

func (s *accessibilityAnalysisService) notify(ctx context.Context, event observer.AnalysisEvent) {
	if s.events != nil {
		s.events.NotifyObservers(ctx, event)
	}
}

func (s *accessibilityAnalysisService) notifyFailure(ctx context.Context, request models.AnalysisRequest, eventType observer.EventType, start time.Time, err error) {
	s.notify(ctx, observer.AnalysisEvent{
		EventType:      eventType,
		Timestamp:      time.Now(),
		ImageURL:       request.ImageURL,
		XMLURL:         request.XMLURL,
		ProcessingTime: time.Since(start),
		ErrorMessage:   err.Error(),
	})
}
