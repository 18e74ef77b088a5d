package vercel

import (
	"errors"
	"fmt"
)

var (
	ErrMissingToken    = errors.New("VERCEL_TOKEN environment variable is not set")
	ErrNoFiles         = errors.New("files array cannot be empty")
	ErrUnauthorized    = errors.New("vercel authentication failed")
	ErrPayloadTooLarge = errors.New("deployment payload too large")
	ErrRateLimited     = errors.New("vercel rate limit exceeded")
	ErrBadRequest      = errors.New("vercel API error")
)

// APIError is any non-2xx response not covered by a sentinel.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vercel deployment failed with status %d: %s", e.StatusCode, e.Message)
}

// Category turns a deployment error into the message shown to users.
func Category(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return "Vercel authentication failed. Please check your VERCEL_TOKEN."
	case errors.Is(err, ErrPayloadTooLarge):
		return "Deployment payload too large. Total size exceeds Vercel limits (4.5MB for body)."
	case errors.Is(err, ErrRateLimited):
		return "Rate limit exceeded. Please try again later."
	case errors.Is(err, ErrMissingToken):
		return "VERCEL_TOKEN environment variable is not set"
	case errors.Is(err, ErrBadRequest):
		return "Vercel API error: " + unwrapDetail(err)
	case errors.As(err, &apiErr):
		return "Vercel deployment failed: " + apiErr.Message
	default:
		return "Failed to deploy to Vercel: " + err.Error()
	}
}

// unwrapDetail strips the sentinel prefix added by statusError.
func unwrapDetail(err error) string {
	msg := err.Error()
	prefix := ErrBadRequest.Error() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return "Bad request"
}
