package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"shopsite_server/internal/types"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config carries provider credentials and tuning. It is built once from the
// process configuration and handed to Factory; nothing below reads the
// environment.
type Config struct {
	Provider         string
	GeminiAPIKey     string
	GeminiTextModel  string
	GeminiImageModel string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAITextModel  string
	OpenAIImageModel string
	Options          Options
}

// Factory builds a fresh Generator per request from an explicit Config.
type Factory struct {
	cfg    Config
	logger *zap.Logger
}

func NewFactory(cfg Config, logger *zap.Logger) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Options.Variant == "" {
		cfg.Options = DefaultOptions()
	}
	return &Factory{cfg: cfg, logger: logger}
}

// Provider reports the configured provider name.
func (f *Factory) Provider() string {
	if f.cfg.Provider == ProviderOpenAI {
		return ProviderOpenAI
	}
	return ProviderGemini
}

// New returns ErrMissingAPIKey when the selected provider has no key.
func (f *Factory) New(ctx context.Context) (*Generator, error) {
	switch f.Provider() {
	case ProviderOpenAI:
		client, err := NewOpenAIClient(f.cfg.OpenAIAPIKey, f.cfg.OpenAIBaseURL, f.cfg.OpenAITextModel, f.cfg.OpenAIImageModel)
		if err != nil {
			return nil, err
		}
		return NewGenerator(client, client, f.cfg.Options, f.logger.With(zap.String("provider", ProviderOpenAI))), nil
	default:
		client, err := NewGeminiClient(ctx, f.cfg.GeminiAPIKey, f.cfg.GeminiTextModel, f.cfg.GeminiImageModel)
		if err != nil {
			return nil, err
		}
		return NewGenerator(client, client, f.cfg.Options, f.logger.With(zap.String("provider", ProviderGemini))), nil
	}
}

// GenerateSite satisfies the handler's SiteGenerator contract.
func (f *Factory) GenerateSite(ctx context.Context, inputs types.ShopInputs) (types.WebsiteData, error) {
	gen, err := f.New(ctx)
	if err != nil {
		return types.WebsiteData{}, fmt.Errorf("initialising %s generator: %w", f.Provider(), err)
	}
	return gen.GenerateSite(ctx, inputs)
}
