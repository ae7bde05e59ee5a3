package service

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"go-a11y-inspector/internal/analyzer"
	"go-a11y-inspector/internal/config"
	apperrors "go-a11y-inspector/internal/errors"
	"go-a11y-inspector/internal/observer"
	"go-a11y-inspector/internal/repository"
	"go-a11y-inspector/pkg/models"
)

type fakeScreenRepo struct {
	snapshot *repository.ScreenSnapshot
	err      error
}

func (r *fakeScreenRepo) FetchScreen(ctx context.Context, imageURL, xmlURL string) (*repository.ScreenSnapshot, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.snapshot, nil
}

type fakeAnalyzer struct {
	report      *models.Report
	err         error
	lastOptions analyzer.AnalysisOptions
	hadDeadline bool
}

func (a *fakeAnalyzer) Analyze(ctx context.Context, img image.Image, layoutXML string, options analyzer.AnalysisOptions) (*models.Report, error) {
	a.lastOptions = options
	_, a.hadDeadline = ctx.Deadline()
	if a.err != nil {
		return nil, a.err
	}
	return a.report, nil
}

func (a *fakeAnalyzer) Close() error { return nil }

// blockingAnalyzer never finishes on its own; it returns only once its
// context is done, the way the real analyzer aborts on deadline.
type blockingAnalyzer struct{}

func (a *blockingAnalyzer) Analyze(ctx context.Context, img image.Image, layoutXML string, options analyzer.AnalysisOptions) (*models.Report, error) {
	<-ctx.Done()
	return nil, apperrors.NewTimeoutError("analysis aborted", ctx.Err())
}

func (a *blockingAnalyzer) Close() error { return nil }

type recordingObserver struct {
	mu     sync.Mutex
	events []observer.AnalysisEvent
}

func (o *recordingObserver) OnEvent(ctx context.Context, event observer.AnalysisEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) GetObserverName() string { return "recording_observer" }

func (o *recordingObserver) waitFor(t *testing.T, eventType observer.EventType) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		o.mu.Lock()
		for _, e := range o.events {
			if e.EventType == eventType {
				o.mu.Unlock()
				return
			}
		}
		o.mu.Unlock()
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("event %q never observed", eventType)
}

func consistentReport() *models.Report {
	return &models.Report{
		Timestamp:       time.Now(),
		ImageDimensions: [2]int{100, 200},
		TotalIssues:     1,
		IssuesByCategory: map[models.IssueCategory][]models.Issue{
			models.CategoryTouchTargetSize: {
				{Severity: models.SeverityMedium, Description: "too small", Bounds: models.Bounds{0, 0, 40, 40}},
			},
		},
		Summary: map[models.IssueCategory]models.CategorySummary{
			models.CategoryTouchTargetSize: {Count: 1, MediumSeverity: 1},
		},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		DefaultDensityScale: 2.0,
		OCRLanguage:         "eng",
	}
}

func newTestService(repo repository.ScreenRepository, a analyzer.ScreenAnalyzer, events observer.Subject) AccessibilityAnalysisService {
	return NewAccessibilityAnalysisService(testConfig(), repo, a, nil, events)
}

func TestAnalyzeScreen_Success(t *testing.T) {
	repo := &fakeScreenRepo{snapshot: &repository.ScreenSnapshot{
		Name:      "home",
		Image:     image.NewRGBA(image.Rect(0, 0, 100, 200)),
		LayoutXML: "<hierarchy/>",
	}}
	fa := &fakeAnalyzer{report: consistentReport()}
	obs := &recordingObserver{}
	publisher := observer.NewEventPublisher()
	publisher.Subscribe(obs)

	svc := newTestService(repo, fa, publisher)

	resp, err := svc.AnalyzeScreen(context.Background(), models.AnalysisRequest{
		ImageURL: "https://example.com/home.png",
		XMLURL:   "https://example.com/home.xml",
	})
	if err != nil {
		t.Fatalf("AnalyzeScreen failed: %v", err)
	}
	if resp.TotalIssues != 1 {
		t.Errorf("expected 1 issue, got %d", resp.TotalIssues)
	}
	if resp.ImageURL != "https://example.com/home.png" {
		t.Errorf("unexpected image URL echo: %s", resp.ImageURL)
	}
	if resp.ProcessingTimeSec < 0 {
		t.Errorf("negative processing time: %f", resp.ProcessingTimeSec)
	}

	obs.waitFor(t, observer.AnalysisStarted)
	obs.waitFor(t, observer.ScreenFetched)
	obs.waitFor(t, observer.AnalysisCompleted)
}

func TestAnalyzeScreen_InvalidURL(t *testing.T) {
	svc := newTestService(&fakeScreenRepo{}, &fakeAnalyzer{}, nil)

	_, err := svc.AnalyzeScreen(context.Background(), models.AnalysisRequest{
		ImageURL: "ftp://example.com/home.png",
		XMLURL:   "https://example.com/home.xml",
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("expected validation error type, got %v", err)
	}
}

func TestAnalyzeScreen_FetchFailure(t *testing.T) {
	repo := &fakeScreenRepo{err: apperrors.NewNetworkError("failed to fetch screenshot", errors.New("boom"))}
	obs := &recordingObserver{}
	publisher := observer.NewEventPublisher()
	publisher.Subscribe(obs)

	svc := newTestService(repo, &fakeAnalyzer{}, publisher)

	_, err := svc.AnalyzeScreen(context.Background(), models.AnalysisRequest{
		ImageURL: "https://example.com/home.png",
		XMLURL:   "https://example.com/home.xml",
	})
	if err == nil {
		t.Fatal("expected fetch error")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeNetwork) {
		t.Errorf("expected network error type, got %v", err)
	}
	obs.waitFor(t, observer.ScreenFetchFailed)
}

func TestAnalyzeScreen_InconsistentReportRejected(t *testing.T) {
	report := consistentReport()
	report.TotalIssues = 99 // break the invariant

	repo := &fakeScreenRepo{snapshot: &repository.ScreenSnapshot{
		Name:  "home",
		Image: image.NewRGBA(image.Rect(0, 0, 100, 200)),
	}}
	svc := newTestService(repo, &fakeAnalyzer{report: report}, nil)

	_, err := svc.AnalyzeScreen(context.Background(), models.AnalysisRequest{
		ImageURL: "https://example.com/home.png",
		XMLURL:   "https://example.com/home.xml",
	})
	if err == nil {
		t.Fatal("expected internal error for inconsistent report")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeInternal) {
		t.Errorf("expected internal error type, got %v", err)
	}
}

func TestAnalyzeScreen_AnalysisTimeout(t *testing.T) {
	snapshot := &repository.ScreenSnapshot{
		Name:  "home",
		Image: image.NewRGBA(image.Rect(0, 0, 100, 200)),
	}
	request := models.AnalysisRequest{
		ImageURL: "https://example.com/home.png",
		XMLURL:   "https://example.com/home.xml",
	}

	// The configured analysis timeout puts a deadline on the analyzer's
	// context.
	fa := &fakeAnalyzer{report: consistentReport()}
	cfg := testConfig()
	cfg.AnalysisTimeout = time.Minute
	svc := NewAccessibilityAnalysisService(cfg, &fakeScreenRepo{snapshot: snapshot}, fa, nil, nil)

	if _, err := svc.AnalyzeScreen(context.Background(), request); err != nil {
		t.Fatalf("AnalyzeScreen failed: %v", err)
	}
	if !fa.hadDeadline {
		t.Error("analyzer context carried no deadline")
	}

	// An analyzer that never finishes is cut off at the timeout instead of
	// stalling the request.
	cfg = testConfig()
	cfg.AnalysisTimeout = 50 * time.Millisecond
	svc = NewAccessibilityAnalysisService(cfg, &fakeScreenRepo{snapshot: snapshot}, &blockingAnalyzer{}, nil, nil)

	start := time.Now()
	_, err := svc.AnalyzeScreen(context.Background(), request)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeTimeout) {
		t.Errorf("expected timeout error type, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout not enforced, request took %s", elapsed)
	}
}

func TestAnalyzeScreen_OptionsFromRequest(t *testing.T) {
	repo := &fakeScreenRepo{snapshot: &repository.ScreenSnapshot{
		Name:  "home",
		Image: image.NewRGBA(image.Rect(0, 0, 100, 200)),
	}}
	fa := &fakeAnalyzer{report: consistentReport()}
	svc := newTestService(repo, fa, nil)

	// Explicit density wins over the configured default.
	_, err := svc.AnalyzeScreen(context.Background(), models.AnalysisRequest{
		ImageURL:     "https://example.com/home.png",
		XMLURL:       "https://example.com/home.xml",
		DensityScale: 3.5,
		RecoverText:  true,
	})
	if err != nil {
		t.Fatalf("AnalyzeScreen failed: %v", err)
	}
	if fa.lastOptions.DensityScale != 3.5 {
		t.Errorf("expected density 3.5, got %g", fa.lastOptions.DensityScale)
	}
	if !fa.lastOptions.RecoverText {
		t.Error("expected text recovery enabled")
	}
	if fa.lastOptions.OCRLanguage != "eng" {
		t.Errorf("expected configured OCR language, got %q", fa.lastOptions.OCRLanguage)
	}

	// Omitted density falls back to the configured default.
	_, err = svc.AnalyzeScreen(context.Background(), models.AnalysisRequest{
		ImageURL: "https://example.com/home.png",
		XMLURL:   "https://example.com/home.xml",
	})
	if err != nil {
		t.Fatalf("AnalyzeScreen failed: %v", err)
	}
	if fa.lastOptions.DensityScale != 2.0 {
		t.Errorf("expected default density 2.0, got %g", fa.lastOptions.DensityScale)
	}
}
