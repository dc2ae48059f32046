package utils

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Failure is the coarse category of a failed provider call.
type Failure int

const (
	FailureGeneric Failure = iota
	FailureCredentials
	FailureRateLimit
	FailureUnavailable
)

func (f Failure) String() string {
	switch f {
	case FailureCredentials:
		return "credentials"
	case FailureRateLimit:
		return "rate_limit"
	case FailureUnavailable:
		return "unavailable"
	default:
		return "generic"
	}
}

// ClassifyStatus maps an HTTP status code returned by a provider to a Failure.
func ClassifyStatus(code int) Failure {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return FailureCredentials
	case code == http.StatusTooManyRequests:
		return FailureRateLimit
	case code >= http.StatusInternalServerError:
		return FailureUnavailable
	default:
		return FailureGeneric
	}
}

// ClassifyError inspects a provider error. Typed OpenAI errors are classified
// by status code, everything else by message.
func ClassifyError(err error) Failure {
	if err == nil {
		return FailureGeneric
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if f := ClassifyStatus(apiErr.HTTPStatusCode); f != FailureGeneric {
			return f
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if f := ClassifyStatus(reqErr.HTTPStatusCode); f != FailureGeneric {
			return f
		}
	}

	errMsg := strings.ToLower(err.Error())
	switch {
	case containsAny(errMsg, "api key", "unauthenticated", "permission_denied", "error 401", "error 403", "401 unauthorized"):
		return FailureCredentials
	case containsAny(errMsg, "rate limit", "resource_exhausted", "quota", "error 429", "429 too many requests"):
		return FailureRateLimit
	case containsAny(errMsg,
		"500 internal server error",
		"502 bad gateway",
		"503 service unavailable",
		"504 gateway timeout",
		"error 500", "error 503", "unavailable",
		"timeout",
		"connection reset by peer",
		"connection refused",
		"context deadline exceeded"):
		return FailureUnavailable
	}
	return FailureGeneric
}

// ShouldRetry reports whether the failure is transient from the caller's point of view.
func ShouldRetry(err error) bool {
	switch ClassifyError(err) {
	case FailureRateLimit, FailureUnavailable:
		return true
	default:
		return false
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// DetermineFileType names the content of an exported file from its extension.
func DetermineFileType(filename string) string {
	lowerFilename := strings.ToLower(filename)
	ext := filepath.Ext(lowerFilename)
	switch ext {
	case ".html", ".htm":
		return "HTML"
	case ".css":
		return "CSS"
	case ".js", ".mjs":
		return "JavaScript"
	case ".json":
		return "JSON"
	case ".md":
		return "Markdown"
	case ".txt":
		return "Text"
	case ".svg":
		return "SVG"
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return "Image"
	default:
		return "Unknown"
	}
}
