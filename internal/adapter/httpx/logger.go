package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"
)

// Logger provides structured logging for comment-store API calls and
// pipeline progress.
type Logger interface {
	// LogRequest logs an outgoing API request (token redacted).
	LogRequest(ctx context.Context, req RequestLog)

	// LogResponse logs an API response with timing information.
	LogResponse(ctx context.Context, resp ResponseLog)

	// LogError logs an API error.
	LogError(ctx context.Context, err ErrorLog)

	// LogInfo logs a pipeline progress message with structured fields.
	LogInfo(ctx context.Context, message string, fields map[string]interface{})

	// LogWarning logs a recoverable problem with structured fields.
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
}

// RequestLog contains request information for logging.
type RequestLog struct {
	Service   string
	Method    string
	URL       string
	Timestamp time.Time
	Token     string // redacted to the last 4 chars before logging
}

// ResponseLog contains response information for logging.
type ResponseLog struct {
	Service    string
	Method     string
	URL        string
	Timestamp  time.Time
	Duration   time.Duration
	StatusCode int
}

// ErrorLog contains error information for logging.
type ErrorLog struct {
	Service    string
	Method     string
	URL        string
	Timestamp  time.Time
	Duration   time.Duration
	Error      error
	ErrorType  ErrorType
	StatusCode int
	Retryable  bool
}

// LogLevel defines the logging verbosity level.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelError
)

// ParseLevel maps a config string to a log level, defaulting to info.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevelDebug
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// LogFormat defines the output format for logs.
type LogFormat int

const (
	LogFormatHuman LogFormat = iota
	LogFormatJSON
)

// ParseFormat maps a config string to a log format, defaulting to human.
func ParseFormat(s string) LogFormat {
	if strings.EqualFold(s, "json") {
		return LogFormatJSON
	}
	return LogFormatHuman
}

// DefaultLogger writes logs via the standard log package.
type DefaultLogger struct {
	level  LogLevel
	format LogFormat
}

// NewDefaultLogger creates a logger with the specified level and format.
func NewDefaultLogger(level LogLevel, format LogFormat) *DefaultLogger {
	return &DefaultLogger{level: level, format: format}
}

// LogRequest logs an API request at debug level.
func (l *DefaultLogger) LogRequest(ctx context.Context, req RequestLog) {
	if l.level > LogLevelDebug {
		return
	}

	redacted := RedactToken(req.Token)

	if l.format == LogFormatJSON {
		log.Printf(`{"level":"debug","type":"request","service":"%s","method":"%s","url":"%s","timestamp":"%s","token":"%s"}`,
			req.Service, req.Method, req.URL, req.Timestamp.Format(time.RFC3339), redacted)
		return
	}
	log.Printf("[DEBUG] %s: %s %s (token=%s)", req.Service, req.Method, req.URL, redacted)
}

// LogResponse logs an API response at info level.
func (l *DefaultLogger) LogResponse(ctx context.Context, resp ResponseLog) {
	if l.level > LogLevelInfo {
		return
	}

	if l.format == LogFormatJSON {
		log.Printf(`{"level":"info","type":"response","service":"%s","method":"%s","url":"%s","timestamp":"%s","duration_ms":%d,"status_code":%d}`,
			resp.Service, resp.Method, resp.URL, resp.Timestamp.Format(time.RFC3339),
			resp.Duration.Milliseconds(), resp.StatusCode)
		return
	}
	log.Printf("[INFO] %s: %s %s -> %d (%.1fs)",
		resp.Service, resp.Method, resp.URL, resp.StatusCode, resp.Duration.Seconds())
}

// LogError logs an API error.
func (l *DefaultLogger) LogError(ctx context.Context, errLog ErrorLog) {
	if l.level > LogLevelError {
		return
	}

	retryableStr := "non-retryable"
	if errLog.Retryable {
		retryableStr = "retryable"
	}

	if l.format == LogFormatJSON {
		log.Printf(`{"level":"error","type":"error","service":"%s","method":"%s","url":"%s","timestamp":"%s","duration_ms":%d,"error":%q,"status_code":%d,"retryable":%t}`,
			errLog.Service, errLog.Method, errLog.URL, errLog.Timestamp.Format(time.RFC3339),
			errLog.Duration.Milliseconds(), errLog.Error.Error(), errLog.StatusCode, errLog.Retryable)
		return
	}
	log.Printf("[ERROR] %s: %s %s failed (status=%d, %s): %v",
		errLog.Service, errLog.Method, errLog.URL, errLog.StatusCode, retryableStr, errLog.Error)
}

// LogInfo logs a pipeline progress message.
func (l *DefaultLogger) LogInfo(ctx context.Context, message string, fields map[string]interface{}) {
	if l.level > LogLevelInfo {
		return
	}
	l.logStructured("info", "[INFO]", message, fields)
}

// LogWarning logs a recoverable problem.
func (l *DefaultLogger) LogWarning(ctx context.Context, message string, fields map[string]interface{}) {
	if l.level > LogLevelError {
		return
	}
	l.logStructured("warning", "[WARN]", message, fields)
}

func (l *DefaultLogger) logStructured(level, prefix, message string, fields map[string]interface{}) {
	if l.format == LogFormatJSON {
		encoded, err := json.Marshal(fields)
		if err != nil {
			encoded = []byte("{}")
		}
		log.Printf(`{"level":"%s","message":%q,"fields":%s}`, level, message, encoded)
		return
	}
	if len(fields) == 0 {
		log.Printf("%s %s", prefix, message)
		return
	}
	log.Printf("%s %s %s", prefix, message, formatFields(fields))
}

func formatFields(fields map[string]interface{}) string {
	parts := make([]string, 0, len(fields))
	for key, value := range fields {
		parts = append(parts, fmt.Sprintf("%s=%v", key, value))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// RedactToken shows only the last 4 characters of an access token.
func RedactToken(token string) string {
	if len(token) <= 4 {
		return "[REDACTED]"
	}
	return fmt.Sprintf("[REDACTED-%s]", token[len(token)-4:])
}
