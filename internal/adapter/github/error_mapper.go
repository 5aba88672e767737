package github

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/bkyoung/diff-annotate/internal/adapter/httpx"
)

const serviceName = "github"

// MapHTTPError maps GitHub API status codes to typed httpx errors so
// the shared retry logic can decide what is worth another attempt.
func MapHTTPError(statusCode int, body []byte) *httpx.Error {
	message := parseErrorMessage(statusCode, body)

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &httpx.Error{
			Type:       httpx.ErrTypeAuthentication,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  false,
			Service:    serviceName,
		}

	case http.StatusTooManyRequests:
		return &httpx.Error{
			Type:       httpx.ErrTypeRateLimit,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  true,
			Service:    serviceName,
		}

	case http.StatusNotFound, http.StatusGone:
		return &httpx.Error{
			Type:       httpx.ErrTypeNotFound,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  false,
			Service:    serviceName,
		}

	case http.StatusUnprocessableEntity:
		return &httpx.Error{
			Type:       httpx.ErrTypeInvalidRequest,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  false,
			Service:    serviceName,
		}

	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return &httpx.Error{
			Type:       httpx.ErrTypeServiceUnavailable,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  true,
			Service:    serviceName,
		}

	default:
		return &httpx.Error{
			Type:       httpx.ErrTypeUnknown,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  statusCode >= 500,
			Service:    serviceName,
		}
	}
}

// parseErrorMessage extracts a useful message from a GitHub error body,
// falling back to the raw body or status code when it is not the
// documented JSON shape.
func parseErrorMessage(statusCode int, body []byte) string {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		if len(apiErr.Errors) > 0 {
			details := make([]string, 0, len(apiErr.Errors))
			for _, e := range apiErr.Errors {
				detail := e.Code
				if e.Message != "" {
					detail = e.Message
				}
				if e.Field != "" {
					detail = fmt.Sprintf("%s: %s", e.Field, detail)
				}
				details = append(details, detail)
			}
			return fmt.Sprintf("%s (%s)", apiErr.Message, strings.Join(details, "; "))
		}
		return apiErr.Message
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed != "" {
		return trimmed
	}
	return fmt.Sprintf("HTTP %d", statusCode)
}
