package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"shopsite_server/api"
	"shopsite_server/config"
	"shopsite_server/internal/ai"
	"shopsite_server/internal/ai/prompts"
	handlers "shopsite_server/internal/api"
	"shopsite_server/internal/deploy/vercel"
	"shopsite_server/internal/publish"
	"shopsite_server/internal/site"
	"shopsite_server/internal/storage"
	"shopsite_server/internal/task"
	"shopsite_server/internal/utils"
)

func main() {
	// .env must be loaded before viper reads the environment.
	envErr := godotenv.Load()

	bootstrap := zap.NewNop()
	cfg, err := config.LoadConfig(".", bootstrap)
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Cannot build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	switch {
	case envErr == nil:
		logger.Info("loaded environment variables from .env file")
	case os.IsNotExist(envErr):
		logger.Info(".env file not found, relying on system environment variables")
	default:
		logger.Warn("error loading .env file", zap.Error(envErr))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Dependency Initialization ---
	generator := ai.NewFactory(ai.Config{
		Provider:         strings.ToLower(cfg.AIProvider),
		GeminiAPIKey:     cfg.GeminiKey(),
		GeminiTextModel:  cfg.GeminiTextModel,
		GeminiImageModel: cfg.GeminiImageModel,
		OpenAIAPIKey:     cfg.OpenAIKey,
		OpenAIBaseURL:    cfg.OpenAIBaseURL,
		OpenAITextModel:  cfg.OpenAITextModel,
		OpenAIImageModel: cfg.OpenAIImageModel,
		Options: ai.Options{
			Variant:     prompts.ParseVariant(strings.ToLower(cfg.ImageVariant)),
			ImagePolicy: utils.RetryPolicy{MaxAttempts: cfg.ImageMaxAttempts, Backoff: cfg.ImageRetryDelay},
			Throttle:    cfg.ImageThrottle,
		},
	}, logger.Named("ai"))

	storageCfg := storage.Config{
		Provider:           cfg.StorageProvider,
		ServiceAccountJSON: cfg.GCPServiceAccount,
		Bucket:             cfg.GCSBucketName,
		SignedURLTTL:       cfg.SignedURLTTL,
		CloudinaryURL:      cfg.CloudinaryURL,
		LocalDir:           cfg.LocalAssetDir,
		PublicBaseURL:      cfg.PublicBaseURL,
	}
	backend, err := storage.NewBackend(ctx, storageCfg)
	if err != nil {
		// Uploads report the missing backend per request; generation still works.
		logger.Warn("asset storage unavailable", zap.String("provider", cfg.StorageProvider), zap.Error(err))
	} else if closer, ok := backend.(interface{ Close() error }); ok {
		defer func() { _ = closer.Close() }()
	}
	uploader := storage.NewUploader(backend, cfg.UploadConcurrency, logger.Named("storage"))

	deployer := vercel.NewDeployer(vercel.Config{
		Token:       cfg.VercelToken,
		ProjectName: cfg.VercelProjectName,
		APIURL:      cfg.VercelAPIURL,
		Timeout:     cfg.DeployTimeout,
	}, logger.Named("vercel"))

	publisher := publish.NewPublisher(uploader, deployer, logger.Named("publish"))
	runner := task.NewRunner(logger.Named("task"))
	drafts := site.NewDraftStore(cfg.SiteCacheTTL)

	apiHandler := handlers.NewAPIHandler(
		generator,
		uploader,
		publisher,
		deployer,
		drafts,
		runner,
		handlers.Settings{
			StripeLink:     cfg.StripePaymentLink,
			ClaimGrace:     cfg.ClaimGrace,
			PublishTimeout: cfg.DeployTimeout + 2*time.Minute,
		},
		logger.Named("api"),
	)

	// --- Start API Server ---
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(handlers.RequestLogger(logger.Named("http")))
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.Origins())))

	assetDir := ""
	if backend != nil && backend.Name() == storage.ProviderLocal {
		assetDir = cfg.LocalAssetDir
	}
	api.RegisterRoutes(router, apiHandler, assetDir)

	server := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: router,
		// Generation runs up to eight sequential image calls, so writes get a long budget.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting API server",
			zap.String("address", cfg.ServerAddress),
			zap.String("aiProvider", generator.Provider()),
			zap.Bool("storage", uploader.Configured()),
			zap.Bool("deployer", deployer.Configured()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("API server listen error", zap.Error(err))
		}
		logger.Info("API server has stopped listening")
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("shutting down server", zap.String("signal", sig.String()))

	shutdownCtx, serverCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer serverCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("API server forced shutdown", zap.Error(err))
	} else {
		logger.Info("API server gracefully stopped")
	}

	// Claimed sites may still be publishing.
	if err := runner.Wait(shutdownCtx); err != nil {
		logger.Warn("background publishes did not finish before shutdown", zap.Error(err))
	}
	cancel()
	logger.Info("application exiting")
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	}
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	c.AllowHeaders = append(c.AllowHeaders, "X-Request-ID")
	c.ExposeHeaders = []string{"X-Request-ID"}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}
