package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalBackend writes assets to a directory served by this process. It is
// meant for development and tests.
type LocalBackend struct {
	dir     string
	baseURL string
}

// NewLocalBackend stores files under dir and builds URLs as baseURL/objectPath.
func NewLocalBackend(dir, baseURL string) (*LocalBackend, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: LOCAL_ASSET_DIR is required", ErrNotConfigured)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create asset directory: %w", err)
	}
	return &LocalBackend{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (b *LocalBackend) Name() string { return ProviderLocal }

func (b *LocalBackend) Put(_ context.Context, objectPath, _ string, data []byte) (string, error) {
	clean := filepath.Clean("/" + objectPath)
	full := filepath.Join(b.dir, clean)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory path: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", full, err)
	}
	return b.baseURL + filepath.ToSlash(clean), nil
}
