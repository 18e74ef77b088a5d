package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds all configuration for the application.
// Mapstructure tags are used to map environment variables and config file keys.
type Config struct {
	// Server Configuration
	ServerAddress  string `mapstructure:"SERVER_ADDRESS"`  // e.g., ":8080"
	AppEnv         string `mapstructure:"APP_ENV"`         // "production" switches gin and zap to release settings
	LogLevel       string `mapstructure:"LOG_LEVEL"`       // debug, info, warn, error
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"` // comma separated, "*" allows any

	// AI Configuration
	AIProvider       string        `mapstructure:"AI_PROVIDER"` // gemini or openai
	GeminiAPIKey     string        `mapstructure:"GEMINI_API_KEY"`
	LegacyAPIKey     string        `mapstructure:"API_KEY"` // older deployments set this instead of GEMINI_API_KEY
	GeminiTextModel  string        `mapstructure:"GEMINI_TEXT_MODEL"`
	GeminiImageModel string        `mapstructure:"GEMINI_IMAGE_MODEL"`
	OpenAIKey        string        `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL    string        `mapstructure:"OPENAI_BASE_URL"`
	OpenAITextModel  string        `mapstructure:"OPENAI_TEXT_MODEL"`
	OpenAIImageModel string        `mapstructure:"OPENAI_IMAGE_MODEL"`
	ImageVariant     string        `mapstructure:"IMAGE_VARIANT"` // full (8 slots, sequential) or quick (3 slots, parallel)
	ImageMaxAttempts int           `mapstructure:"IMAGE_MAX_ATTEMPTS"`
	ImageRetryDelay  time.Duration `mapstructure:"IMAGE_RETRY_DELAY"`
	ImageThrottle    time.Duration `mapstructure:"IMAGE_THROTTLE"`

	// Asset Storage Configuration
	StorageProvider   string        `mapstructure:"STORAGE_PROVIDER"` // gcs, cloudinary or local
	GCPServiceAccount string        `mapstructure:"GCP_SERVICE_ACCOUNT_JSON"`
	GCSBucketName     string        `mapstructure:"GCS_BUCKET_NAME"`
	SignedURLTTL      time.Duration `mapstructure:"SIGNED_URL_TTL"`
	CloudinaryURL     string        `mapstructure:"CLOUDINARY_URL"`
	LocalAssetDir     string        `mapstructure:"LOCAL_ASSET_DIR"`
	PublicBaseURL     string        `mapstructure:"PUBLIC_BASE_URL"`
	UploadConcurrency int           `mapstructure:"UPLOAD_CONCURRENCY"`

	// Deployment Configuration
	VercelToken       string        `mapstructure:"VERCEL_TOKEN"`
	VercelProjectName string        `mapstructure:"VERCEL_PROJECT_NAME"` // overrides the per-site project name
	VercelAPIURL      string        `mapstructure:"VERCEL_API_URL"`
	DeployTimeout     time.Duration `mapstructure:"DEPLOY_TIMEOUT"`

	// Claim Flow Configuration
	StripePaymentLink string        `mapstructure:"STRIPE_PAYMENT_LINK"`
	ClaimGrace        time.Duration `mapstructure:"CLAIM_GRACE"`
	SiteCacheTTL      time.Duration `mapstructure:"SITE_CACHE_TTL"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":           ":8080",
	"APP_ENV":                  "development",
	"LOG_LEVEL":                "info",
	"ALLOWED_ORIGINS":          "*",
	"AI_PROVIDER":              "gemini",
	"GEMINI_API_KEY":           "",
	"API_KEY":                  "",
	"GEMINI_TEXT_MODEL":        "",
	"GEMINI_IMAGE_MODEL":       "",
	"OPENAI_API_KEY":           "",
	"OPENAI_BASE_URL":          "",
	"OPENAI_TEXT_MODEL":        "",
	"OPENAI_IMAGE_MODEL":       "",
	"IMAGE_VARIANT":            "full",
	"IMAGE_MAX_ATTEMPTS":       2,
	"IMAGE_RETRY_DELAY":        "3s",
	"IMAGE_THROTTLE":           "1500ms",
	"STORAGE_PROVIDER":         "gcs",
	"GCP_SERVICE_ACCOUNT_JSON": "",
	"GCS_BUCKET_NAME":          "",
	"SIGNED_URL_TTL":           "15m",
	"CLOUDINARY_URL":           "",
	"LOCAL_ASSET_DIR":          "tmp/assets",
	"PUBLIC_BASE_URL":          "http://localhost:8080",
	"UPLOAD_CONCURRENCY":       1,
	"VERCEL_TOKEN":             "",
	"VERCEL_PROJECT_NAME":      "",
	"VERCEL_API_URL":           "https://api.vercel.com",
	"DEPLOY_TIMEOUT":           "120s",
	"STRIPE_PAYMENT_LINK":      "",
	"CLAIM_GRACE":              "2s",
	"SITE_CACHE_TTL":           "1h",
}

// LoadConfig reads configuration from file and environment variables.
// Every key has a default so environment-only deployments unmarshal fully.
func LoadConfig(path string, logger *zap.Logger) (config Config, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := viper.New()
	v.AddConfigPath(path)     // Path to look for the config file in
	v.SetConfigName("config") // Name of config file (without extension)
	v.SetConfigType("yaml")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
		logger.Info("config.yaml not found, relying solely on environment variables")
	} else {
		logger.Info("using configuration file", zap.String("file", v.ConfigFileUsed()))
	}

	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	config.warnMissing(logger)
	return config, nil
}

// Validate rejects values that cannot work at all. Missing credentials are
// not fatal: the affected endpoints report them per request.
func (c Config) Validate() error {
	switch strings.ToLower(c.AIProvider) {
	case "gemini", "openai":
	default:
		return fmt.Errorf("AI_PROVIDER must be gemini or openai, got %q", c.AIProvider)
	}
	switch strings.ToLower(c.ImageVariant) {
	case "full", "quick":
	default:
		return fmt.Errorf("IMAGE_VARIANT must be full or quick, got %q", c.ImageVariant)
	}
	switch strings.ToLower(c.StorageProvider) {
	case "gcs", "cloudinary", "local":
	default:
		return fmt.Errorf("STORAGE_PROVIDER must be gcs, cloudinary or local, got %q", c.StorageProvider)
	}
	if c.ImageMaxAttempts < 1 {
		return fmt.Errorf("IMAGE_MAX_ATTEMPTS must be at least 1, got %d", c.ImageMaxAttempts)
	}
	return nil
}

// GeminiKey returns GEMINI_API_KEY, falling back to API_KEY.
func (c Config) GeminiKey() string {
	if c.GeminiAPIKey != "" {
		return c.GeminiAPIKey
	}
	return c.LegacyAPIKey
}

// Origins splits ALLOWED_ORIGINS.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func (c Config) warnMissing(logger *zap.Logger) {
	if strings.EqualFold(c.AIProvider, "openai") && c.OpenAIKey == "" {
		logger.Warn("OPENAI_API_KEY is not set; generation requests will fail")
	}
	if strings.EqualFold(c.AIProvider, "gemini") && c.GeminiKey() == "" {
		logger.Warn("GEMINI_API_KEY is not set; generation requests will fail")
	}
	if c.VercelToken == "" {
		logger.Warn("VERCEL_TOKEN is not set; deployments will fail")
	}
	if c.StripePaymentLink == "" {
		logger.Warn("STRIPE_PAYMENT_LINK is not set; claim responses carry no redirect")
	}
}
