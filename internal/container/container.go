// Package container wires the application dependency graph.
package container

import (
	"fmt"
	"net/http"

	"go-a11y-inspector/internal/analyzer"
	"go-a11y-inspector/internal/annotator"
	"go-a11y-inspector/internal/config"
	"go-a11y-inspector/internal/factory"
	"go-a11y-inspector/internal/logger"
	"go-a11y-inspector/internal/observer"
	"go-a11y-inspector/internal/ocr"
	"go-a11y-inspector/internal/repository"
	"go-a11y-inspector/internal/service"
	"go-a11y-inspector/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config           *config.Config
	storageFactory   factory.StorageFactory
	screenRepository repository.ScreenRepository
	screenAnalyzer   analyzer.ScreenAnalyzer
	analysisService  service.AccessibilityAnalysisService
	metrics          *observer.MetricsObserver
	handler          http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	storageFactory, err := factory.NewStorageFactory(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build storage factory: %w", err)
	}

	screenRepository := repository.NewScreenRepository(storageFactory)

	recognizer := ocr.NewRecognizer(cfg.OCRLanguage)
	screenAnalyzer, err := analyzer.NewScreenAnalyzer(recognizer)
	if err != nil {
		return nil, fmt.Errorf("failed to build screen analyzer: %w", err)
	}

	artifactStore, err := storageFactory.ArtifactStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build artifact store: %w", err)
	}
	exporter := annotator.NewExporter(artifactStore)

	metrics := observer.NewMetricsObserver()
	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(metrics)

	analysisService := service.NewAccessibilityAnalysisService(
		cfg, screenRepository, screenAnalyzer, exporter, events)
	handler := transport.NewHandler(analysisService, cfg)

	return &Container{
		config:           cfg,
		storageFactory:   storageFactory,
		screenRepository: screenRepository,
		screenAnalyzer:   screenAnalyzer,
		analysisService:  analysisService,
		metrics:          metrics,
		handler:          handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Metrics returns the metrics observer
func (c *Container) Metrics() *observer.MetricsObserver {
	return c.metrics
}

// Close releases long-lived resources, in particular the analyzer's worker
// pool.
func (c *Container) Close() error {
	return c.screenAnalyzer.Close()
}
