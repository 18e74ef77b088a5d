package utils

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// ShouldRetry reports whether err looks transient (rate limits, 5xx, timeouts).
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if status := UpstreamStatus(err); status != 0 {
		return status >= 500 || status == http.StatusTooManyRequests
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "rate limit") ||
		strings.Contains(errMsg, "resource_exhausted") ||
		strings.Contains(errMsg, "500 internal server error") ||
		strings.Contains(errMsg, "502 bad gateway") ||
		strings.Contains(errMsg, "503 service unavailable") ||
		strings.Contains(errMsg, "504 gateway timeout") ||
		strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "connection reset by peer")
}

// UpstreamStatus extracts the HTTP status carried by an OpenAI or Gemini error,
// or 0 when err carries none.
func UpstreamStatus(err error) int {
	var openAIErr *openai.APIError
	if errors.As(err, &openAIErr) {
		return openAIErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return genaiErr.Code
	}
	var genaiErrPtr *genai.APIError
	if errors.As(err, &genaiErrPtr) && genaiErrPtr != nil {
		return genaiErrPtr.Code
	}
	return 0
}

// IsAuthError reports whether err is an upstream credential rejection.
// Gemini answers an unknown or revoked key with "Requested entity was not found.".
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	switch UpstreamStatus(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "requested entity was not found") ||
		strings.Contains(msg, "api key not valid") ||
		strings.Contains(msg, "incorrect api key")
}

// DetermineMIMEType maps an image filename to its content type. Unknown
// extensions are treated as JPEG, which is what the image models emit by default.
func DetermineMIMEType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".svg":
		return "image/svg+xml"
	default:
		return "image/jpeg"
	}
}

// ExtensionForMIME is the inverse of DetermineMIMEType.
func ExtensionForMIME(mime string) string {
	switch strings.ToLower(mime) {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	case "image/svg+xml":
		return ".svg"
	default:
		return ".jpg"
	}
}
