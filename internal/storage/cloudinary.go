package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryBackend uploads assets to Cloudinary, keyed by object path.
type CloudinaryBackend struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryBackend(cloudURL string) (*CloudinaryBackend, error) {
	if cloudURL == "" {
		return nil, fmt.Errorf("%w: CLOUDINARY_URL is required", ErrNotConfigured)
	}
	cld, err := cloudinary.NewFromURL(cloudURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryBackend{cld: cld}, nil
}

func (b *CloudinaryBackend) Name() string { return ProviderCloudinary }

func (b *CloudinaryBackend) Put(ctx context.Context, objectPath, _ string, data []byte) (string, error) {
	res, err := b.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:  strings.TrimSuffix(objectPath, path.Ext(objectPath)),
		Overwrite: api.Bool(true),
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}
