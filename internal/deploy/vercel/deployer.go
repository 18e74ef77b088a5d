package vercel

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"shopsite_server/internal/types"
	"shopsite_server/internal/utils"
)

const (
	DefaultAPIURL  = "https://api.vercel.com"
	DefaultTimeout = 2 * time.Minute
	// MaxPayloadBytes is the request body limit of the deployments endpoint.
	MaxPayloadBytes = 4_500_000
	maxNameLength   = 50
)

// Config holds deployer credentials and overrides.
type Config struct {
	Token       string
	ProjectName string
	APIURL      string
	Timeout     time.Duration
}

// Deployer publishes static files through the Vercel Deployments API.
type Deployer struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

func NewDeployer(cfg Config, logger *zap.Logger) *Deployer {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Deployer{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Configured reports whether a token is present.
func (d *Deployer) Configured() bool {
	return d.cfg.Token != ""
}

// SanitizeProjectName lowercases name, collapses non-alphanumeric runs into
// hyphens and caps it at 50 characters.
func SanitizeProjectName(name string) string {
	return utils.Slugify(name, maxNameLength)
}

type deploymentRequest struct {
	Name            string             `json:"name"`
	Files           []types.VercelFile `json:"files"`
	Target          string             `json:"target"`
	ProjectSettings projectSettings    `json:"projectSettings"`
}

type projectSettings struct {
	Framework *string `json:"framework"`
}

type deploymentResponse struct {
	ID           string   `json:"id"`
	URL          string   `json:"url"`
	Alias        []string `json:"alias"`
	InspectorURL string   `json:"inspectorUrl"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Deploy creates a production deployment. A configured project name overrides
// projectName.
func (d *Deployer) Deploy(ctx context.Context, projectName string, files []types.VercelFile) (types.DeploymentResult, error) {
	if d.cfg.Token == "" {
		return types.DeploymentResult{}, ErrMissingToken
	}
	if len(files) == 0 {
		return types.DeploymentResult{}, ErrNoFiles
	}
	if d.cfg.ProjectName != "" {
		projectName = d.cfg.ProjectName
	}
	name := SanitizeProjectName(projectName)
	if name == "" {
		return types.DeploymentResult{}, fmt.Errorf("%w: missing required parameter projectName", ErrBadRequest)
	}

	body, err := json.Marshal(deploymentRequest{
		Name:   name,
		Files:  files,
		Target: "production",
	})
	if err != nil {
		return types.DeploymentResult{}, fmt.Errorf("encoding deployment payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.APIURL+"/v13/deployments", bytes.NewReader(body))
	if err != nil {
		return types.DeploymentResult{}, err
	}
	req.Header.Set("Authorization", "Bearer "+d.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	d.logger.Info("starting deployment",
		zap.String("project", name),
		zap.Int("files", len(files)),
		zap.Int("payloadBytes", len(body)))

	resp, err := d.client.Do(req)
	if err != nil {
		return types.DeploymentResult{}, fmt.Errorf("calling Vercel API: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.DeploymentResult{}, fmt.Errorf("reading Vercel response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := statusError(resp.StatusCode, raw)
		d.logger.Error("deployment failed", zap.String("project", name), zap.Int("status", resp.StatusCode), zap.Error(err))
		return types.DeploymentResult{}, err
	}

	var out deploymentResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return types.DeploymentResult{}, fmt.Errorf("decoding Vercel response: %w", err)
	}
	result := types.DeploymentResult{
		DeploymentURL: deploymentURL(out),
		InspectorURL:  out.InspectorURL,
		DeploymentID:  out.ID,
	}
	d.logger.Info("deployment created", zap.String("project", name), zap.String("url", result.DeploymentURL), zap.String("id", out.ID))
	return result, nil
}

func deploymentURL(r deploymentResponse) string {
	switch {
	case r.URL != "":
		return "https://" + r.URL
	case len(r.Alias) > 0 && r.Alias[0] != "":
		return "https://" + r.Alias[0]
	case r.InspectorURL != "":
		return r.InspectorURL
	default:
		return "Unknown"
	}
}

func statusError(status int, body []byte) error {
	var parsed errorResponse
	_ = json.Unmarshal(body, &parsed)
	msg := parsed.Error.Message
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusRequestEntityTooLarge:
		return ErrPayloadTooLarge
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusBadRequest:
		if msg == "" {
			msg = "Bad request"
		}
		return fmt.Errorf("%w: %s", ErrBadRequest, msg)
	default:
		if msg == "" {
			msg = http.StatusText(status)
		}
		return &APIError{StatusCode: status, Message: msg}
	}
}

// TextFile builds a base64-encoded deployment file.
func TextFile(name, content string) types.VercelFile {
	return types.VercelFile{
		File:     name,
		Data:     base64.StdEncoding.EncodeToString([]byte(content)),
		Encoding: "base64",
	}
}

// PayloadSize sums the encoded size of every file.
func PayloadSize(files []types.VercelFile) int {
	n := 0
	for _, f := range files {
		n += len(f.Data)
	}
	return n
}
