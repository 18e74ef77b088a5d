package ai

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shopsite_server/internal/ai/prompts"
	"shopsite_server/internal/site"
	"shopsite_server/internal/types"
)

// GenerateSite runs the copy call and the image slots side by side and assembles
// the result. A copy failure cancels the image slots and aborts; image failures
// never do.
func (g *Generator) GenerateSite(ctx context.Context, inputs types.ShopInputs) (types.WebsiteData, error) {
	if err := inputs.Validate(); err != nil {
		return types.WebsiteData{}, err
	}
	start := time.Now()
	slots := prompts.ImagePrompts(g.opts.Variant, inputs.ShopName, inputs.Area)
	g.logger.Info("generating site",
		zap.String("shop", inputs.ShopName),
		zap.String("area", inputs.Area),
		zap.String("variant", string(g.opts.Variant)),
		zap.Int("slots", len(slots)))

	var (
		siteCopy types.SiteCopy
		images   []string
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		siteCopy, err = g.GenerateCopy(egCtx, inputs)
		return err
	})
	eg.Go(func() error {
		images = g.GenerateImages(egCtx, slots)
		return nil
	})
	if err := eg.Wait(); err != nil {
		g.logger.Error("site generation failed", zap.String("shop", inputs.ShopName), zap.Error(err))
		return types.WebsiteData{}, err
	}

	data := site.Assemble(inputs, siteCopy, images)
	g.logger.Info("site generated",
		zap.String("shop", inputs.ShopName),
		zap.Int("images", countNonEmpty(images)),
		zap.Duration("elapsed", time.Since(start)))
	return data, nil
}

func countNonEmpty(values []string) int {
	n := 0
	for _, v := range values {
		if v != "" {
			n++
		}
	}
	return n
}
