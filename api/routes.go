package api

import (
	"github.com/gin-gonic/gin"

	handlers "shopsite_server/internal/api"
)

// RegisterRoutes sets up the API endpoints and groups them logically.
// assetDir, when set, is served under /assets for the local storage backend.
func RegisterRoutes(router *gin.Engine, h *handlers.APIHandler, assetDir string) {
	// Generation and publishing
	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/generate", h.GenerateSite)
		apiGroup.POST("/upload-images", h.UploadImages)
		apiGroup.POST("/get-upload-urls", h.GetUploadURLs)
		apiGroup.POST("/deploy-site", h.DeploySite)
		apiGroup.POST("/deploy", h.LegacyDeploy)
		apiGroup.POST("/claim", h.Claim)
		apiGroup.GET("/sites/:siteId/preview", h.PreviewSite)
	}

	if assetDir != "" {
		router.Static("/assets", assetDir)
	}

	router.GET("/health", h.Health)
}
