// Package transport exposes the analysis service over HTTP with gin.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-a11y-inspector/internal/config"
	apperrors "go-a11y-inspector/internal/errors"
	"go-a11y-inspector/internal/logger"
	"go-a11y-inspector/internal/service"
	"go-a11y-inspector/pkg/models"
)

// NewHandler builds the HTTP router: GET /health and POST /analyze.
func NewHandler(svc service.AccessibilityAnalysisService, cfg *config.Config) http.Handler {
	r := gin.Default()

	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck)
	r.POST("/analyze", analyzeScreen(svc, cfg))

	return r
}

func analyzeScreen(svc service.AccessibilityAnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		}).Info("Processing screen analysis request")

		var req models.AnalysisRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"ip": c.ClientIP(),
			}).Error("Invalid request format")
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		// mark_issues may also arrive as a query parameter, which takes
		// precedence over the JSON body.
		if markQuery := c.Query("mark_issues"); markQuery != "" {
			req.MarkIssues = markQuery == "true"
		}

		response, err := svc.AnalyzeScreen(ctx, req)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				err = apperrors.NewTimeoutError("analysis timed out", err)
			}
			logger.WithError(err).WithFields(logrus.Fields{
				"image_url": req.ImageURL,
				"xml_url":   req.XMLURL,
				"ip":        c.ClientIP(),
			}).Error("Screen analysis failed")
			respondError(c, determineStatusCode(err), "screen analysis failed", err)
			return
		}

		logger.WithFields(logrus.Fields{
			"image_url":          req.ImageURL,
			"xml_url":            req.XMLURL,
			"total_issues":       response.TotalIssues,
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		}).Info("Screen analysis completed successfully")

		c.JSON(http.StatusOK, response)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
