package publish

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"go.uber.org/zap"

	"shopsite_server/internal/deploy/vercel"
	"shopsite_server/internal/site"
	"shopsite_server/internal/storage"
	"shopsite_server/internal/types"
)

const DefaultCSS = "/* No custom styles */"

var ErrMissingSiteID = errors.New("missing required field: siteId")

// ImageUploader is the part of storage.Uploader the pipeline needs.
type ImageUploader interface {
	UploadBatch(ctx context.Context, siteID string, images []types.ImagePayload) storage.BatchResult
}

// SiteDeployer is the part of vercel.Deployer the pipeline needs.
type SiteDeployer interface {
	Deploy(ctx context.Context, projectName string, files []types.VercelFile) (types.DeploymentResult, error)
}

// Result describes a finished publish.
type Result struct {
	Deployment types.DeploymentResult
	// UploadedImages maps every image key to its public URL: caller supplied
	// imageUrls plus whatever this publish uploaded.
	UploadedImages map[string]string
	UploadErrors   []storage.ItemError
	Substitution   site.SubstitutionReport
}

// Publisher runs upload, substitution and deployment for one site.
type Publisher struct {
	uploader ImageUploader
	deployer SiteDeployer
	logger   *zap.Logger
}

func NewPublisher(uploader ImageUploader, deployer SiteDeployer, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{uploader: uploader, deployer: deployer, logger: logger}
}

// Publish uploads req.Images, substitutes their URLs into req.HTML and deploys
// the result under req.SiteID. Upload failures are logged and do not stop the
// deployment; a deployment failure is returned as is.
func (p *Publisher) Publish(ctx context.Context, req types.DeploymentRequest) (Result, error) {
	if req.SiteID == "" {
		return Result{}, ErrMissingSiteID
	}
	log := p.logger.With(zap.String("siteId", req.SiteID))

	urls := make(map[string]string, len(req.ImageURLs)+len(req.Images))
	maps.Copy(urls, req.ImageURLs)
	res := Result{UploadedImages: urls}

	if len(req.Images) > 0 {
		batch := p.uploader.UploadBatch(ctx, req.SiteID, req.Images)
		maps.Copy(urls, batch.URLs)
		res.UploadErrors = batch.Errors
		if len(batch.Errors) > 0 {
			log.Warn("some images failed to upload, deploying anyway", zap.Int("failed", len(batch.Errors)))
		}
	}

	html, report := site.Substitute(req.HTML, urls)
	res.Substitution = report
	if len(report.Unresolved) > 0 {
		log.Warn("unresolved placeholders left in document", zap.Strings("placeholders", report.Unresolved))
	}
	if report.Stripped > 0 {
		log.Warn("stripped inline base64 images", zap.Int("count", report.Stripped))
	}

	css := req.CSS
	if css == "" {
		css = DefaultCSS
	}
	files := []types.VercelFile{
		vercel.TextFile("index.html", html),
		vercel.TextFile("styles.css", css),
	}
	if size := vercel.PayloadSize(files); size > vercel.MaxPayloadBytes {
		log.Warn("deployment payload exceeds hosting limit", zap.Int("bytes", size), zap.Int("limit", vercel.MaxPayloadBytes))
	}

	deployment, err := p.deployer.Deploy(ctx, req.SiteID, files)
	if err != nil {
		return res, fmt.Errorf("deploying %s: %w", req.SiteID, err)
	}
	res.Deployment = deployment
	log.Info("site published", zap.String("url", deployment.DeploymentURL), zap.Int("images", len(urls)))
	return res, nil
}

// PublishDraft renders data with placeholders, uploads every inline image and
// deploys the substituted document.
func (p *Publisher) PublishDraft(ctx context.Context, siteID string, data types.WebsiteData) (Result, error) {
	html, err := site.Render(data, site.ModePlaceholder)
	if err != nil {
		return Result{}, err
	}
	return p.Publish(ctx, types.DeploymentRequest{
		SiteID:    siteID,
		HTML:      html,
		Images:    site.ImagePayloads(data),
		ImageURLs: site.RemoteImages(data),
	})
}
