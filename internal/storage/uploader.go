package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shopsite_server/internal/types"
)

const DefaultConcurrency = 4

// ItemError records why one image of a batch failed.
type ItemError struct {
	Key   string `json:"key"`
	Error string `json:"error"`
}

// BatchResult holds the URLs of successful uploads keyed by image key, and
// one entry per failure.
type BatchResult struct {
	URLs   map[string]string
	Errors []ItemError
}

// Uploader pushes base64 images to a Backend.
type Uploader struct {
	backend     Backend
	concurrency int
	logger      *zap.Logger
}

func NewUploader(backend Backend, concurrency int, logger *zap.Logger) *Uploader {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Uploader{backend: backend, concurrency: concurrency, logger: logger}
}

// Configured reports whether a backend is attached.
func (u *Uploader) Configured() bool {
	return u.backend != nil
}

// Upload stores a single image under {siteID}/{filename}.
func (u *Uploader) Upload(ctx context.Context, siteID, filename, base64Data string) (types.UploadResult, error) {
	if u.backend == nil {
		return types.UploadResult{}, ErrNotConfigured
	}
	if siteID == "" || filename == "" || base64Data == "" {
		return types.UploadResult{}, ErrMissingFields
	}
	contentType, data, err := DecodeDataURL(NormalizeDataURL(filename, base64Data))
	if err != nil {
		return types.UploadResult{}, err
	}
	path := ObjectPath(siteID, filename)
	url, err := u.backend.Put(ctx, path, contentType, data)
	if err != nil {
		return types.UploadResult{}, fmt.Errorf("failed to upload %s to %s: %w", path, u.backend.Name(), err)
	}
	u.logger.Debug("asset uploaded", zap.String("path", path), zap.Int("bytes", len(data)), zap.String("contentType", contentType))
	return types.UploadResult{PublicURL: url, FilePath: path}, nil
}

// UploadBatch uploads every image, bounded by the uploader's concurrency.
// Failures are collected per key and never abort the batch. Errors are
// ordered by input position.
func (u *Uploader) UploadBatch(ctx context.Context, siteID string, images []types.ImagePayload) BatchResult {
	result := BatchResult{URLs: make(map[string]string)}
	failures := make([]*ItemError, len(images))

	var mu sync.Mutex
	var eg errgroup.Group
	eg.SetLimit(u.concurrency)
	for i, img := range images {
		eg.Go(func() error {
			key := img.Key
			if key == "" || img.Filename == "" || img.Base64 == "" {
				failures[i] = &ItemError{Key: keyOrUnknown(key), Error: "Missing required fields"}
				return nil
			}
			res, err := u.Upload(ctx, siteID, img.Filename, img.Base64)
			if err != nil {
				u.logger.Warn("asset upload failed", zap.String("siteId", siteID), zap.String("key", key), zap.Error(err))
				failures[i] = &ItemError{Key: key, Error: err.Error()}
				return nil
			}
			mu.Lock()
			result.URLs[key] = res.PublicURL
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()

	for _, f := range failures {
		if f != nil {
			result.Errors = append(result.Errors, *f)
		}
	}
	u.logger.Info("batch upload finished",
		zap.String("siteId", siteID),
		zap.Int("uploaded", len(result.URLs)),
		zap.Int("failed", len(result.Errors)))
	return result
}

// SignedUploadURLs issues direct upload URLs when the backend supports them.
func (u *Uploader) SignedUploadURLs(ctx context.Context, siteID string, filenames []string) ([]SignedURL, error) {
	if u.backend == nil {
		return nil, ErrNotConfigured
	}
	signer, ok := u.backend.(SignedURLer)
	if !ok {
		return nil, ErrSignedURLUnsupported
	}
	urls := make([]SignedURL, 0, len(filenames))
	for _, name := range filenames {
		signed, public, err := signer.SignedUploadURL(ctx, ObjectPath(siteID, name))
		if err != nil {
			return nil, fmt.Errorf("signing upload URL for %s: %w", name, err)
		}
		urls = append(urls, SignedURL{Filename: name, SignedURL: signed, PublicURL: public})
	}
	return urls, nil
}

func keyOrUnknown(key string) string {
	if strings.TrimSpace(key) != "" {
		return key
	}
	return "unknown"
}
