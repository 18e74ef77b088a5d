package vercel

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"shopsite_server/internal/types"
)

func TestSanitizeProjectName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"The Gentlemen's Lounge", "the-gentlemen-s-lounge"},
		{"--Fade & Co--", "fade-co"},
		{"", ""},
		{"abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwxyz0123", "abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwx"},
		{strings.Repeat("a", 49) + " bbb", strings.Repeat("a", 49)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeProjectName(tt.in), tt.in)
	}
}

func newTestDeployer(t *testing.T, srv *httptest.Server, project string) *Deployer {
	return NewDeployer(Config{Token: "tok", APIURL: srv.URL, ProjectName: project, Timeout: 5 * time.Second}, zaptest.NewLogger(t))
}

func TestDeploy_SendsPayloadAndResolvesURL(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v13/deployments", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "dpl_1", "url": "lounge.vercel.app", "inspectorUrl": "https://vercel.com/i/1"})
	}))
	defer srv.Close()

	files := []types.VercelFile{TextFile("index.html", "<h1>hi</h1>")}
	res, err := newTestDeployer(t, srv, "").Deploy(context.Background(), "The Lounge", files)
	require.NoError(t, err)

	assert.Equal(t, types.DeploymentResult{
		DeploymentURL: "https://lounge.vercel.app",
		InspectorURL:  "https://vercel.com/i/1",
		DeploymentID:  "dpl_1",
	}, res)

	want := map[string]any{
		"name":            "the-lounge",
		"target":          "production",
		"projectSettings": map[string]any{"framework": nil},
		"files": []any{map[string]any{
			"file":     "index.html",
			"data":     base64.StdEncoding.EncodeToString([]byte("<h1>hi</h1>")),
			"encoding": "base64",
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestDeploy_ProjectOverrideAndAliasFallback(t *testing.T) {
	var name string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body deploymentRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		name = body.Name
		_, _ = w.Write([]byte(`{"alias": ["shop.example.com"]}`))
	}))
	defer srv.Close()

	res, err := newTestDeployer(t, srv, "Fixed Project").Deploy(context.Background(), "ignored", []types.VercelFile{TextFile("index.html", "x")})
	require.NoError(t, err)
	assert.Equal(t, "fixed-project", name)
	assert.Equal(t, "https://shop.example.com", res.DeploymentURL)
}

func TestDeploy_InspectorFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"inspectorUrl": "https://vercel.com/inspect"}`))
	}))
	defer srv.Close()

	res, err := newTestDeployer(t, srv, "").Deploy(context.Background(), "p", []types.VercelFile{TextFile("index.html", "x")})
	require.NoError(t, err)
	assert.Equal(t, "https://vercel.com/inspect", res.DeploymentURL)
}

func TestDeploy_StatusMapping(t *testing.T) {
	tests := []struct {
		status   int
		body     string
		want     error
		category string
	}{
		{http.StatusUnauthorized, `{}`, ErrUnauthorized, "Vercel authentication failed. Please check your VERCEL_TOKEN."},
		{http.StatusForbidden, `{}`, ErrUnauthorized, "Vercel authentication failed. Please check your VERCEL_TOKEN."},
		{http.StatusRequestEntityTooLarge, `{}`, ErrPayloadTooLarge, "Deployment payload too large. Total size exceeds Vercel limits (4.5MB for body)."},
		{http.StatusTooManyRequests, `{}`, ErrRateLimited, "Rate limit exceeded. Please try again later."},
		{http.StatusBadRequest, `{"error":{"message":"invalid name"}}`, ErrBadRequest, "Vercel API error: invalid name"},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			_, _ = w.Write([]byte(tt.body))
		}))
		_, err := newTestDeployer(t, srv, "").Deploy(context.Background(), "p", []types.VercelFile{TextFile("index.html", "x")})
		srv.Close()

		require.ErrorIs(t, err, tt.want)
		assert.Equal(t, tt.category, Category(err))
	}
}

func TestDeploy_OtherStatusIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream down"}}`))
	}))
	defer srv.Close()

	_, err := newTestDeployer(t, srv, "").Deploy(context.Background(), "p", []types.VercelFile{TextFile("index.html", "x")})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Vercel deployment failed: upstream down", Category(err))
}

func TestDeploy_Preconditions(t *testing.T) {
	d := NewDeployer(Config{}, nil)
	assert.False(t, d.Configured())
	_, err := d.Deploy(context.Background(), "p", []types.VercelFile{TextFile("index.html", "x")})
	assert.ErrorIs(t, err, ErrMissingToken)

	d = NewDeployer(Config{Token: "tok"}, nil)
	_, err = d.Deploy(context.Background(), "p", nil)
	assert.ErrorIs(t, err, ErrNoFiles)

	_, err = d.Deploy(context.Background(), "!!!", []types.VercelFile{TextFile("index.html", "x")})
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestPayloadSize(t *testing.T) {
	files := []types.VercelFile{TextFile("a", "abc"), TextFile("b", "abcdef")}
	assert.Equal(t, 4+8, PayloadSize(files))
}
