package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/SAP-F-2025/question-extractor/internal/utils"
)

// LogLevel represents different log levels for service operations
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
	config LogConfig
}

type LogConfig struct {
	Service       string
	Component     string
	EnableMetrics bool
	EnableDebug   bool
}

func NewServiceLogger(logger *slog.Logger, config LogConfig) *ServiceLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &ServiceLogger{
		logger: logger.With("service", config.Service, "component", config.Component),
		config: config,
	}
}

// ===== OPERATION LOGGING =====

func (l *ServiceLogger) LogOperation(ctx context.Context, operation string, resourceID string, resourceType string, duration time.Duration, err error) {
	logLevel := LogLevelInfo
	status := "success"

	if err != nil {
		logLevel = LogLevelError
		status = "error"

		// Adjust log level based on error type
		if IsValidation(err) {
			logLevel = LogLevelWarn
			status = "validation_error"
		} else if IsBadRequest(err) {
			logLevel = LogLevelWarn
			status = "bad_request"
		} else if IsNotFound(err) {
			logLevel = LogLevelInfo
			status = "not_found"
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("resource_id", resourceID),
		slog.String("resource_type", resourceType),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))

		var validationErr ValidationErrors
		if errors.As(err, &validationErr) {
			attrs = append(attrs, slog.Int("validation_errors_count", len(validationErr)))
		}
	}

	// Add request context if available
	if requestID, ok := utils.RequestIDFrom(ctx); ok {
		attrs = append(attrs, slog.String("request_id", requestID))
	}

	// Add caller information for errors
	if logLevel == LogLevelError {
		if pc, file, line, ok := runtime.Caller(2); ok {
			if fn := runtime.FuncForPC(pc); fn != nil {
				attrs = append(attrs,
					slog.String("caller_func", fn.Name()),
					slog.String("caller_file", file),
					slog.Int("caller_line", line),
				)
			}
		}
	}

	message := fmt.Sprintf("%s operation %s", operation, status)

	switch logLevel {
	case LogLevelDebug:
		if l.config.EnableDebug {
			l.logger.LogAttrs(ctx, slog.LevelDebug, message, attrs...)
		}
	case LogLevelInfo:
		l.logger.LogAttrs(ctx, slog.LevelInfo, message, attrs...)
	case LogLevelWarn:
		l.logger.LogAttrs(ctx, slog.LevelWarn, message, attrs...)
	case LogLevelError:
		l.logger.LogAttrs(ctx, slog.LevelError, message, attrs...)
	}
}

func (l *ServiceLogger) LogValidationError(ctx context.Context, operation string, resourceID string, validationErrors ValidationErrors) {
	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("resource_id", resourceID),
		slog.Int("error_count", len(validationErrors)),
	}

	for i, err := range validationErrors {
		if i < 5 { // Limit to first 5 errors to avoid log spam
			attrs = append(attrs, slog.Group(fmt.Sprintf("error_%d", i+1),
				slog.String("field", err.Field),
				slog.String("message", err.Message),
			))
		}
	}

	l.logger.LogAttrs(ctx, slog.LevelWarn, "Validation failed", attrs...)
}

// LogPageFailure records a page whose text could not be extracted
func (l *ServiceLogger) LogPageFailure(ctx context.Context, documentID string, page int, err error) {
	l.logger.LogAttrs(ctx, slog.LevelWarn, "Page extraction failed",
		slog.String("document_id", documentID),
		slog.Int("page", page),
		slog.String("error", err.Error()),
	)
}

// LogPageNoText records a page the extractor reported as having no text layer
func (l *ServiceLogger) LogPageNoText(ctx context.Context, documentID string, page int) {
	l.logger.LogAttrs(ctx, slog.LevelInfo, "Page has no extractable text",
		slog.String("document_id", documentID),
		slog.Int("page", page),
	)
}

// ===== PERFORMANCE LOGGING =====

type PerformanceMetrics struct {
	TotalDuration    time.Duration `json:"total_duration"`
	ClassifyDuration time.Duration `json:"classify_duration"`
	PagesProcessed   int           `json:"pages_processed"`
	CacheHits        int           `json:"cache_hits"`
	CacheMisses      int           `json:"cache_misses"`
}

func (l *ServiceLogger) LogPerformanceMetrics(ctx context.Context, operation string, metrics PerformanceMetrics) {
	if !l.config.EnableMetrics {
		return
	}

	l.logger.LogAttrs(ctx, slog.LevelDebug, "Performance metrics",
		slog.String("operation", operation),
		slog.Duration("total_duration", metrics.TotalDuration),
		slog.Duration("classify_duration", metrics.ClassifyDuration),
		slog.Int("pages_processed", metrics.PagesProcessed),
		slog.Int("cache_hits", metrics.CacheHits),
		slog.Int("cache_misses", metrics.CacheMisses),
	)
}

// ===== MIDDLEWARE AND HELPERS =====

// ContextualLogger wraps operations with automatic logging
type ContextualLogger struct {
	logger     *ServiceLogger
	operation  string
	resourceID string
	startTime  time.Time
	ctx        context.Context
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation string, resourceID string) *ContextualLogger {
	return &ContextualLogger{
		logger:     l,
		operation:  operation,
		resourceID: resourceID,
		startTime:  time.Now(),
		ctx:        ctx,
	}
}

func (cl *ContextualLogger) LogResult(resourceType string, err error) {
	duration := time.Since(cl.startTime)
	cl.logger.LogOperation(cl.ctx, cl.operation, cl.resourceID, resourceType, duration, err)

	var validationErrors ValidationErrors
	if errors.As(err, &validationErrors) {
		cl.logger.LogValidationError(cl.ctx, cl.operation, cl.resourceID, validationErrors)
	}
}

// ===== ERROR FORMATTING HELPERS =====

// FormatError renders err as response details, classified by type
func FormatError(err error) map[string]interface{} {
	if err == nil {
		return nil
	}

	result := map[string]interface{}{
		"message": err.Error(),
		"type":    "unknown",
	}

	var validationErrs ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		result["type"] = "validation"
		result["count"] = len(validationErrs)

		fields := make([]map[string]interface{}, len(validationErrs))
		for i, validationErr := range validationErrs {
			field := map[string]interface{}{
				"field":   validationErr.Field,
				"message": validationErr.Message,
			}
			if validationErr.Rule != "" {
				field["rule"] = validationErr.Rule
			}
			fields[i] = field
		}
		result["errors"] = fields
	case IsNotFound(err):
		result["type"] = "not_found"
	case IsBadRequest(err):
		result["type"] = "bad_request"
	case IsValidation(err):
		result["type"] = "validation"
	case IsExtraction(err):
		result["type"] = "extraction"
	}

	return result
}
