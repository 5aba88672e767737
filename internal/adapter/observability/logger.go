package observability

import (
	"context"

	"github.com/bkyoung/diff-annotate/internal/adapter/httpx"
	"github.com/bkyoung/diff-annotate/internal/usecase/annotate"
)

// PipelineLogger adapts httpx.Logger to the annotate.Logger interface,
// so the pipeline shares the same structured logging infrastructure as
// the HTTP adapters.
type PipelineLogger struct {
	logger httpx.Logger
}

// NewPipelineLogger creates a new pipeline logger adapter.
func NewPipelineLogger(logger httpx.Logger) annotate.Logger {
	return &PipelineLogger{logger: logger}
}

// LogInfo logs an informational message with structured fields.
func (l *PipelineLogger) LogInfo(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.LogInfo(ctx, message, fields)
}

// LogWarning logs a warning message with structured fields.
func (l *PipelineLogger) LogWarning(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.LogWarning(ctx, message, fields)
}
