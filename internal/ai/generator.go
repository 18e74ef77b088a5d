package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"shopsite_server/internal/ai/prompts"
	"shopsite_server/internal/types"
	"shopsite_server/internal/utils"
)

var (
	// ErrMissingAPIKey means the selected provider has no credential configured.
	ErrMissingAPIKey = errors.New("ai: provider API key is not configured")
	// ErrUnauthenticated means the provider rejected the configured credential.
	ErrUnauthenticated = errors.New("ai: provider rejected the API key")
	// ErrEmptyResponse means the provider answered without usable content.
	ErrEmptyResponse = errors.New("ai: provider returned an empty response")
)

// CopyWriter produces the raw JSON copy for a shop.
type CopyWriter interface {
	WriteCopy(ctx context.Context, inputs types.ShopInputs) (string, error)
}

// ImageModel produces one image as a base64 data URL.
type ImageModel interface {
	GenerateImage(ctx context.Context, prompt, aspectRatio string) (string, error)
}

// Options tune the image slot sequence.
type Options struct {
	Variant     prompts.Variant
	ImagePolicy utils.RetryPolicy
	// Throttle is the pause between one slot finishing and the next prompt
	// starting in sequential mode.
	Throttle time.Duration
}

// DefaultOptions mirror the production behaviour: eight sequential slots, two
// attempts three seconds apart, 1.5s between prompts.
func DefaultOptions() Options {
	return Options{
		Variant:     prompts.VariantFull,
		ImagePolicy: utils.DefaultImagePolicy,
		Throttle:    1500 * time.Millisecond,
	}
}

// Generator sequences the copy and image calls for one site.
type Generator struct {
	writer     CopyWriter
	images     ImageModel
	opts       Options
	copyPolicy utils.RetryPolicy
	logger     *zap.Logger
}

func NewGenerator(writer CopyWriter, images ImageModel, opts Options, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		writer:     writer,
		images:     images,
		opts:       opts,
		copyPolicy: utils.RetryPolicy{MaxAttempts: 2, Backoff: 2 * time.Second},
		logger:     logger,
	}
}

// GenerateCopy calls the copy model and parses its answer. Transport failures are
// returned (copy is not optional); an unparsable body yields an empty SiteCopy so
// the assembler's fallbacks apply.
func (g *Generator) GenerateCopy(ctx context.Context, inputs types.ShopInputs) (types.SiteCopy, error) {
	raw, err := g.writer.WriteCopy(ctx, inputs)
	if err != nil && utils.ShouldRetry(err) && !utils.IsAuthError(err) {
		g.logger.Warn("copy generation failed, retrying once", zap.Error(err))
		select {
		case <-ctx.Done():
			return types.SiteCopy{}, ctx.Err()
		case <-time.After(g.copyPolicy.Backoff):
		}
		raw, err = g.writer.WriteCopy(ctx, inputs)
	}
	if err != nil {
		return types.SiteCopy{}, classify(fmt.Errorf("copy generation failed: %w", err))
	}
	return ParseCopy(raw, g.logger), nil
}

// classify tags upstream credential rejections with ErrUnauthenticated.
func classify(err error) error {
	if err == nil || errors.Is(err, ErrMissingAPIKey) || errors.Is(err, ErrUnauthenticated) {
		return err
	}
	if utils.IsAuthError(err) {
		return fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	return err
}
