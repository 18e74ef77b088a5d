package storage

import (
	"context"
	"errors"
)

var (
	ErrNotConfigured        = errors.New("storage backend is not configured")
	ErrInvalidDataURL       = errors.New("invalid base64 data URL format")
	ErrSignedURLUnsupported = errors.New("storage backend cannot issue signed upload URLs")
	ErrMissingFields        = errors.New("missing required fields")
)

const (
	ProviderGCS        = "gcs"
	ProviderCloudinary = "cloudinary"
	ProviderLocal      = "local"

	// CacheControl is applied to every uploaded asset.
	CacheControl = "public, max-age=31536000"
)

// Backend stores one object and returns its public URL.
type Backend interface {
	Name() string
	Put(ctx context.Context, objectPath, contentType string, data []byte) (string, error)
}

// SignedURLer is implemented by backends that can hand out direct upload URLs.
type SignedURLer interface {
	SignedUploadURL(ctx context.Context, objectPath string) (signedURL, publicURL string, err error)
}

// SignedURL is one entry of the get-upload-urls response.
type SignedURL struct {
	Filename  string `json:"filename"`
	SignedURL string `json:"signedUrl"`
	PublicURL string `json:"publicUrl"`
}

// ObjectPath namespaces a file under its site.
func ObjectPath(siteID, filename string) string {
	return siteID + "/" + filename
}
