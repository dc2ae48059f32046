package ai

import (
	"errors"
	"fmt"
	"strings"

	"template_builder/internal/utils"
)

var (
	// ErrAPIKeyRequired is returned by a backend built without credentials.
	ErrAPIKeyRequired = errors.New("API key is required")
	// ErrContentBlocked is returned when the provider refuses the prompt.
	ErrContentBlocked = errors.New("content blocked by provider safety filters")
	// ErrIncompleteReply means the model answered without a usable html/css/js triple.
	ErrIncompleteReply = errors.New("incomplete model reply")
)

// ValidationError lists the required selection fields that are blank.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// ServiceError wraps a failure to reach or use the generation provider.
type ServiceError struct {
	Provider string
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Retryable reports whether trying again later may succeed.
func (e *ServiceError) Retryable() bool {
	return utils.ShouldRetry(e.Err)
}

// UserMessage is a short message safe to show in the UI. It never includes
// provider error text.
func (e *ServiceError) UserMessage() string {
	if errors.Is(e.Err, ErrAPIKeyRequired) {
		return "API key not configured"
	}
	if errors.Is(e.Err, ErrContentBlocked) {
		return "The request was blocked by the provider's safety filters. Try rewording your description."
	}
	switch utils.ClassifyError(e.Err) {
	case utils.FailureCredentials:
		return "The AI provider rejected the configured credentials."
	case utils.FailureRateLimit:
		return "The AI provider is rate limiting requests. Please try again in a moment."
	case utils.FailureUnavailable:
		return "The AI provider is unavailable right now. Please try again later."
	default:
		return "Failed to generate the template. Please try again."
	}
}
