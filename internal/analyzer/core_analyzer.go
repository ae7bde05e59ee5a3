package analyzer

import (
	"context"
	"image"
	"sync"
	"time"

	apperrors "go-a11y-inspector/internal/errors"
	"go-a11y-inspector/internal/logger"
	"go-a11y-inspector/pkg/models"
)

// coreAnalyzer implements ScreenAnalyzer and orchestrates the pipeline: one
// tree build per request, then the four category analyzers over the shared
// read-only tree and image.
type coreAnalyzer struct {
	workerPool *WorkerPool
	extractor  ColorExtractor
	analyzers  []CategoryAnalyzer
}

// NewScreenAnalyzer creates a screen analyzer with all components. The
// recognizer may be nil; text recovery is then unavailable regardless of
// options.
func NewScreenAnalyzer(recognizer TextRecognizer) (ScreenAnalyzer, error) {
	workerPool := NewWorkerPool(0) // Use default CPU count
	workerPool.Start()

	extractor := NewColorExtractor(DefaultOptions().EdgeExclusionBand)

	return &coreAnalyzer{
		workerPool: workerPool,
		extractor:  extractor,
		analyzers: []CategoryAnalyzer{
			newContentDescriptionAnalyzer(),
			newTouchTargetAnalyzer(),
			newContrastAnalyzer(extractor, workerPool, recognizer),
			newHeadingAnalyzer(),
		},
	}, nil
}

// Analyze runs the full pipeline over one screen. A context cancellation or
// deadline aborts the whole analysis rather than returning a partial report;
// only per-element color-extraction failures degrade gracefully.
func (ca *coreAnalyzer) Analyze(ctx context.Context, img image.Image, layoutXML string, options AnalysisOptions) (*models.Report, error) {
	start := time.Now()
	options = options.normalized()

	tree, err := BuildTree(layoutXML)
	if err != nil {
		return nil, err
	}

	screen := &Screen{Tree: tree, Image: img}

	// The four analyzers are independent given the shared screen; run them
	// concurrently and collect results by category so report content never
	// depends on completion order.
	results := make([]([]models.Issue), len(ca.analyzers))
	var wg sync.WaitGroup
	for i, a := range ca.analyzers {
		wg.Add(1)
		go func(i int, a CategoryAnalyzer) {
			defer wg.Done()
			results[i] = a.Analyze(ctx, screen, options)
		}(i, a)
	}

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-ctx.Done():
		// Analyzer goroutines observe ctx themselves; don't hand back a
		// partially-computed report.
		<-finished
		return nil, apperrors.NewTimeoutError("analysis aborted", ctx.Err())
	}

	byCategory := make(map[models.IssueCategory][]models.Issue, len(ca.analyzers))
	for i, a := range ca.analyzers {
		byCategory[a.Category()] = results[i]
	}

	imgBounds := img.Bounds()
	report := aggregateReport(byCategory, imgBounds.Dx(), imgBounds.Dy(), time.Now())

	logger.ForComponent("core_analyzer").WithField("total_issues", report.TotalIssues).
		WithField("elements", tree.Len()).
		WithField("processing_time_ms", time.Since(start).Milliseconds()).
		Debug("screen analysis complete")

	return report, nil
}

// Close shuts down the shared worker pool.
func (ca *coreAnalyzer) Close() error {
	ca.workerPool.Close()
	return nil
}
