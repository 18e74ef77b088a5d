package storage

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Config selects and configures a Backend.
type Config struct {
	Provider           string
	ServiceAccountJSON string
	Bucket             string
	SignedURLTTL       time.Duration
	CloudinaryURL      string
	LocalDir           string
	PublicBaseURL      string
}

// NewBackend builds the backend named by cfg.Provider (gcs by default).
// Missing credentials yield an error wrapping ErrNotConfigured.
func NewBackend(ctx context.Context, cfg Config) (Backend, error) {
	var (
		b   Backend
		err error
	)
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderGCS:
		b, err = orNil(NewGCSBackend(ctx, cfg.ServiceAccountJSON, cfg.Bucket, cfg.SignedURLTTL))
	case ProviderCloudinary:
		b, err = orNil(NewCloudinaryBackend(cfg.CloudinaryURL))
	case ProviderLocal:
		b, err = orNil(NewLocalBackend(cfg.LocalDir, strings.TrimRight(cfg.PublicBaseURL, "/")+"/assets"))
	default:
		err = fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
	return b, err
}

// orNil keeps a failed constructor from yielding a non-nil interface holding a nil pointer.
func orNil[T Backend](b T, err error) (Backend, error) {
	if err != nil {
		return nil, err
	}
	return b, nil
}
