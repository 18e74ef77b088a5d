package api

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"shopsite_server/internal/ai"
	"shopsite_server/internal/deploy/vercel"
	"shopsite_server/internal/publish"
	"shopsite_server/internal/site"
	"shopsite_server/internal/storage"
	"shopsite_server/internal/task"
	"shopsite_server/internal/types"
)

// SiteGenerator produces a complete site from shop inputs.
type SiteGenerator interface {
	GenerateSite(ctx context.Context, inputs types.ShopInputs) (types.WebsiteData, error)
	Provider() string
}

// AssetUploader stores images and hands out upload URLs.
type AssetUploader interface {
	Configured() bool
	UploadBatch(ctx context.Context, siteID string, images []types.ImagePayload) storage.BatchResult
	SignedUploadURLs(ctx context.Context, siteID string, filenames []string) ([]storage.SignedURL, error)
}

// SitePublisher uploads, substitutes and deploys a site.
type SitePublisher interface {
	Publish(ctx context.Context, req types.DeploymentRequest) (publish.Result, error)
	PublishDraft(ctx context.Context, siteID string, data types.WebsiteData) (publish.Result, error)
}

// SiteDeployer deploys raw files; used by the legacy deploy endpoint.
type SiteDeployer interface {
	Configured() bool
	Deploy(ctx context.Context, projectName string, files []types.VercelFile) (types.DeploymentResult, error)
}

// Settings are the handler-level knobs taken from config.
type Settings struct {
	StripeLink     string
	ClaimGrace     time.Duration
	PublishTimeout time.Duration
}

// APIHandler holds dependencies for API endpoints.
type APIHandler struct {
	generator SiteGenerator
	uploader  AssetUploader
	publisher SitePublisher
	deployer  SiteDeployer
	drafts    *site.DraftStore
	runner    *task.Runner
	settings  Settings
	logger    *zap.Logger
}

// NewAPIHandler initializes a new API handler with its dependencies.
func NewAPIHandler(
	generator SiteGenerator,
	uploader AssetUploader,
	publisher SitePublisher,
	deployer SiteDeployer,
	drafts *site.DraftStore,
	runner *task.Runner,
	settings Settings,
	logger *zap.Logger,
) *APIHandler {
	useJSONFieldNames()
	if logger == nil {
		logger = zap.NewNop()
	}
	if drafts == nil {
		drafts = site.NewDraftStore(0)
	}
	if runner == nil {
		runner = task.NewRunner(logger)
	}
	return &APIHandler{
		generator: generator,
		uploader:  uploader,
		publisher: publisher,
		deployer:  deployer,
		drafts:    drafts,
		runner:    runner,
		settings:  settings,
		logger:    logger,
	}
}

// --- Structs for API Requests/Responses ---

type GenerateResponse struct {
	types.WebsiteData
	SiteID string `json:"siteId"`
}

type UploadImagesRequest struct {
	SiteID string               `json:"siteId"`
	Images []types.ImagePayload `json:"images"`
}

type UploadImagesResponse struct {
	OK        bool                `json:"ok"`
	ImageURLs map[string]string   `json:"imageUrls"`
	Errors    []storage.ItemError `json:"errors,omitempty"`
}

type UploadURLsRequest struct {
	SiteID    string   `json:"siteId"`
	Filenames []string `json:"filenames"`
}

type UploadURLsResponse struct {
	URLs []storage.SignedURL `json:"urls"`
}

type DeploySiteResponse struct {
	OK             bool              `json:"ok"`
	DeploymentURL  string            `json:"deploymentUrl"`
	UploadedImages map[string]string `json:"uploadedImages"`
	StripeLink     *string           `json:"stripeLink"`
}

type LegacyDeployRequest struct {
	ShopName    string `json:"shopName"`
	HTMLContent string `json:"htmlContent"`
}

type LegacyDeployResponse struct {
	Success       bool   `json:"success"`
	DeploymentURL string `json:"deploymentUrl"`
	Message       string `json:"message"`
}

type ClaimRequest struct {
	SiteID string `json:"siteId" binding:"required"`
}

type ClaimResponse struct {
	OK                bool    `json:"ok"`
	RedirectURL       *string `json:"redirectUrl"`
	DeploymentStarted bool    `json:"deploymentStarted"`
}

// --- API Handlers ---

// POST /api/generate
func (h *APIHandler) GenerateSite(c *gin.Context) {
	var inputs types.ShopInputs
	if err := c.ShouldBindJSON(&inputs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindingMessage(err)})
		return
	}
	if err := inputs.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": capitalize(err.Error())})
		return
	}

	log := h.logger.With(zap.String("shopName", inputs.ShopName), zap.String("area", inputs.Area))
	log.Info("generation requested", zap.String("provider", h.generator.Provider()))

	data, err := h.generator.GenerateSite(c.Request.Context(), inputs)
	if err != nil {
		switch {
		case errors.Is(err, ai.ErrMissingAPIKey):
			log.Error("AI provider key missing", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server configuration error: API Key missing."})
		case errors.Is(err, ai.ErrUnauthenticated):
			log.Warn("AI provider rejected credentials", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "The AI provider rejected the API key. Please select a valid key and try again.",
				"code":    "auth",
			})
		default:
			log.Error("generation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": upstreamMessage(err)})
		}
		return
	}

	siteID := site.NewSiteID(inputs.ShopName)
	h.drafts.Put(siteID, data)
	log.Info("generation finished", zap.String("siteId", siteID), zap.Int("gallery", len(data.Gallery)))
	c.JSON(http.StatusOK, GenerateResponse{WebsiteData: data, SiteID: siteID})
}

// POST /api/upload-images
func (h *APIHandler) UploadImages(c *gin.Context) {
	var req UploadImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid request body"})
		return
	}
	if req.SiteID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Missing required field: siteId"})
		return
	}
	if len(req.Images) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Missing required field: images array"})
		return
	}
	if !h.uploader.Configured() {
		h.logger.Error("upload requested but storage is not configured", zap.String("siteId", req.SiteID))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Image upload failed"})
		return
	}

	batch := h.uploader.UploadBatch(c.Request.Context(), req.SiteID, req.Images)
	c.JSON(http.StatusOK, UploadImagesResponse{OK: true, ImageURLs: batch.URLs, Errors: batch.Errors})
}

// POST /api/get-upload-urls
func (h *APIHandler) GetUploadURLs(c *gin.Context) {
	var req UploadURLsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.SiteID == "" || len(req.Filenames) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: siteId and filenames"})
		return
	}

	urls, err := h.uploader.SignedUploadURLs(c.Request.Context(), req.SiteID, req.Filenames)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrSignedURLUnsupported):
			c.JSON(http.StatusNotImplemented, gin.H{"error": "Signed upload URLs are not supported by the configured storage backend"})
		default:
			h.logger.Error("failed to sign upload URLs", zap.String("siteId", req.SiteID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate upload URLs"})
		}
		return
	}
	c.JSON(http.StatusOK, UploadURLsResponse{URLs: urls})
}

// POST /api/deploy-site
func (h *APIHandler) DeploySite(c *gin.Context) {
	var req types.DeploymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid request body"})
		return
	}
	if req.SiteID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Missing required field: siteId"})
		return
	}
	if req.HTML == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Missing required field: html"})
		return
	}

	res, err := h.publisher.Publish(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("site deployment failed", zap.String("siteId", req.SiteID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"ok":      false,
			"error":   "Deployment failed",
			"details": vercel.Category(err),
		})
		return
	}
	c.JSON(http.StatusOK, DeploySiteResponse{
		OK:             true,
		DeploymentURL:  res.Deployment.DeploymentURL,
		UploadedImages: res.UploadedImages,
		StripeLink:     nullable(h.settings.StripeLink),
	})
}

// POST /api/deploy
func (h *APIHandler) LegacyDeploy(c *gin.Context) {
	var req LegacyDeployRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ShopName == "" || req.HTMLContent == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: shopName and htmlContent"})
		return
	}
	if !h.deployer.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Missing Vercel token. Please configure VERCEL_TOKEN environment variable."})
		return
	}

	project := vercel.SanitizeProjectName(req.ShopName) + "-barber"
	res, err := h.deployer.Deploy(c.Request.Context(), project, []types.VercelFile{vercel.TextFile("index.html", req.HTMLContent)})
	if err != nil {
		h.logger.Error("legacy deployment failed", zap.String("project", project), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Deployment failed", "details": vercel.Category(err)})
		return
	}
	c.JSON(http.StatusOK, LegacyDeployResponse{
		Success:       true,
		DeploymentURL: res.DeploymentURL,
		Message:       "Website deployed successfully to Vercel!",
	})
}

// POST /api/claim
func (h *APIHandler) Claim(c *gin.Context) {
	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": bindingMessage(err)})
		return
	}
	data, ok := h.drafts.Get(req.SiteID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "Site not found or expired"})
		return
	}

	siteID := req.SiteID
	done := h.runner.Go(c.Request.Context(), "publish "+siteID, h.settings.PublishTimeout, func(ctx context.Context) error {
		_, err := h.publisher.PublishDraft(ctx, siteID, data)
		return err
	})

	grace := time.NewTimer(h.settings.ClaimGrace)
	defer grace.Stop()
	select {
	case <-done:
	case <-grace.C:
		h.logger.Info("claim returning before publish settled", zap.String("siteId", siteID))
	case <-c.Request.Context().Done():
	}

	c.JSON(http.StatusOK, ClaimResponse{
		OK:                true,
		RedirectURL:       nullable(h.settings.StripeLink),
		DeploymentStarted: true,
	})
}

// GET /api/sites/:siteId/preview
func (h *APIHandler) PreviewSite(c *gin.Context) {
	data, ok := h.drafts.Get(c.Param("siteId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Site not found or expired"})
		return
	}
	html, err := site.Render(data, site.ModeInline)
	if err != nil {
		h.logger.Error("preview render failed", zap.String("siteId", c.Param("siteId")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render site"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// GET /health
func (h *APIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"ai":       h.generator.Provider(),
		"storage":  h.uploader.Configured(),
		"deployer": h.deployer.Configured(),
	})
}

var registerFieldNames sync.Once

// useJSONFieldNames makes validation errors report json names (siteId, not SiteID).
func useJSONFieldNames() {
	registerFieldNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
}

// bindingMessage names the first missing field of a validation failure.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return "Missing required field: " + verrs[0].Field()
	}
	return "Invalid request body"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

const maxErrorMessage = 200

// upstreamMessage flattens err onto one line and caps it at maxErrorMessage runes.
func upstreamMessage(err error) string {
	msg := strings.Join(strings.Fields(err.Error()), " ")
	if msg == "" {
		return "Failed to generate website content."
	}
	if r := []rune(msg); len(r) > maxErrorMessage {
		msg = string(r[:maxErrorMessage-3]) + "..."
	}
	return msg
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
