package observability_test

import (
	"bytes"
	"context"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkyoung/diff-annotate/internal/adapter/httpx"
	"github.com/bkyoung/diff-annotate/internal/adapter/observability"
)

func TestNewPipelineLogger(t *testing.T) {
	base := httpx.NewDefaultLogger(httpx.LogLevelInfo, httpx.LogFormatHuman)
	logger := observability.NewPipelineLogger(base)

	require.NotNil(t, logger)
}

func TestPipelineLogger_LogWarning(t *testing.T) {
	// Capture log output
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	base := httpx.NewDefaultLogger(httpx.LogLevelInfo, httpx.LogFormatHuman)
	logger := observability.NewPipelineLogger(base)

	ctx := context.Background()
	logger.LogWarning(ctx, "failed to delete review comment", map[string]interface{}{
		"id": int64(42),
	})

	output := buf.String()
	assert.Contains(t, output, "[WARN]")
	assert.Contains(t, output, "failed to delete review comment")
	assert.Contains(t, output, "id=42")
}

func TestPipelineLogger_LogInfo(t *testing.T) {
	// Capture log output
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	base := httpx.NewDefaultLogger(httpx.LogLevelInfo, httpx.LogFormatHuman)
	logger := observability.NewPipelineLogger(base)

	ctx := context.Background()
	logger.LogInfo(ctx, "reconciliation plan computed", map[string]interface{}{
		"toAdd": 3,
	})

	output := buf.String()
	assert.Contains(t, output, "[INFO]")
	assert.Contains(t, output, "reconciliation plan computed")
	assert.Contains(t, output, "toAdd=3")
}
