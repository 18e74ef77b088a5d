package ai

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shopsite_server/internal/ai/prompts"
	"shopsite_server/internal/utils"
)

// GenerateImages resolves every slot prompt to an image reference. A slot whose
// attempts are exhausted reuses the first successful slot, or "" when none
// succeeded, so the result always has len(slots) entries.
func (g *Generator) GenerateImages(ctx context.Context, slots []prompts.ImagePrompt) []string {
	var raw []string
	if g.opts.Variant == prompts.VariantQuick {
		raw = g.generateParallel(ctx, slots)
	} else {
		raw = g.generateSequential(ctx, slots)
	}
	return fillMissing(raw)
}

// generateSequential pauses for the throttle after each slot settles, so the
// gap between one prompt's answer and the next prompt is never shorter than
// opts.Throttle. Retries inside a slot use the policy backoff.
func (g *Generator) generateSequential(ctx context.Context, slots []prompts.ImagePrompt) []string {
	results := make([]string, len(slots))
	for i, slot := range slots {
		if i > 0 {
			if err := pause(ctx, g.opts.Throttle); err != nil {
				g.logger.Warn("image generation interrupted", zap.Int("slot", i), zap.Error(err))
				break
			}
		}
		results[i] = g.generateSlot(ctx, i, slot)
	}
	return results
}

func (g *Generator) generateParallel(ctx context.Context, slots []prompts.ImagePrompt) []string {
	results := make([]string, len(slots))
	var eg errgroup.Group
	for i, slot := range slots {
		eg.Go(func() error {
			results[i] = g.generateSlot(ctx, i, slot)
			return nil
		})
	}
	_ = eg.Wait()
	return results
}

func (g *Generator) generateSlot(ctx context.Context, i int, slot prompts.ImagePrompt) string {
	img, ok := utils.Attempt(ctx, g.opts.ImagePolicy,
		func(ctx context.Context) (string, error) {
			return g.images.GenerateImage(ctx, slot.Text, slot.AspectRatio)
		},
		func(attempt int, err error) {
			g.logger.Warn("image generation failed",
				zap.Int("slot", i),
				zap.String("name", slot.Slot),
				zap.Int("attempt", attempt),
				zap.Error(err))
		},
	)
	if !ok {
		g.logger.Warn("image slot exhausted, falling back", zap.Int("slot", i), zap.String("name", slot.Slot))
		return ""
	}
	g.logger.Debug("image slot generated", zap.Int("slot", i), zap.Int("bytes", len(img)))
	return img
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func fillMissing(images []string) []string {
	first := ""
	for _, img := range images {
		if img != "" {
			first = img
			break
		}
	}
	out := make([]string, len(images))
	for i, img := range images {
		if img == "" {
			img = first
		}
		out[i] = img
	}
	return out
}
