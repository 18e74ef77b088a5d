package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const DefaultSignedURLTTL = 15 * time.Minute

// GCSBackend writes public objects to a Google Cloud Storage bucket.
type GCSBackend struct {
	client *storage.Client
	bucket string
	ttl    time.Duration
}

// NewGCSBackend builds a client from a service account JSON document.
func NewGCSBackend(ctx context.Context, serviceAccountJSON, bucket string, signedURLTTL time.Duration) (*GCSBackend, error) {
	if serviceAccountJSON == "" || bucket == "" {
		return nil, fmt.Errorf("%w: GCP_SERVICE_ACCOUNT_JSON and GCS_BUCKET_NAME are required", ErrNotConfigured)
	}
	if !json.Valid([]byte(serviceAccountJSON)) {
		return nil, fmt.Errorf("%w: invalid GCP_SERVICE_ACCOUNT_JSON format", ErrNotConfigured)
	}
	client, err := storage.NewClient(ctx, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	if signedURLTTL <= 0 {
		signedURLTTL = DefaultSignedURLTTL
	}
	return &GCSBackend{client: client, bucket: bucket, ttl: signedURLTTL}, nil
}

func (b *GCSBackend) Name() string { return ProviderGCS }

func (b *GCSBackend) Put(ctx context.Context, objectPath, contentType string, data []byte) (string, error) {
	w := b.client.Bucket(b.bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = CacheControl
	w.PredefinedACL = "publicRead"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return b.publicURL(objectPath), nil
}

// SignedUploadURL returns a V4 URL that accepts a single JPEG PUT.
func (b *GCSBackend) SignedUploadURL(_ context.Context, objectPath string) (string, string, error) {
	signed, err := b.client.Bucket(b.bucket).SignedURL(objectPath, &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      http.MethodPut,
		ContentType: "image/jpeg",
		Expires:     time.Now().Add(b.ttl),
	})
	if err != nil {
		return "", "", err
	}
	return signed, b.publicURL(objectPath), nil
}

func (b *GCSBackend) Close() error {
	return b.client.Close()
}

func (b *GCSBackend) publicURL(objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", b.bucket, objectPath)
}
