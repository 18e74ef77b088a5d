package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"shopsite_server/internal/ai/prompts"
	"shopsite_server/internal/types"
)

const (
	DefaultGeminiTextModel  = "gemini-3-flash-preview"
	DefaultGeminiImageModel = "gemini-2.5-flash-image"
)

// GeminiClient implements CopyWriter and ImageModel on the Gemini API.
type GeminiClient struct {
	client     *genai.Client
	textModel  string
	imageModel string
}

// NewGeminiClient fails fast with ErrMissingAPIKey instead of letting the SDK
// fall back to ambient credentials.
func NewGeminiClient(ctx context.Context, apiKey, textModel, imageModel string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if textModel == "" {
		textModel = DefaultGeminiTextModel
	}
	if imageModel == "" {
		imageModel = DefaultGeminiImageModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, textModel: textModel, imageModel: imageModel}, nil
}

func (c *GeminiClient) WriteCopy(ctx context.Context, inputs types.ShopInputs) (string, error) {
	prompt := prompts.GetSiteCopyPrompt(inputs.ShopName, inputs.Area, inputs.Phone)
	resp, err := c.client.Models.GenerateContent(ctx, c.textModel, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompts.SiteCopySystemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    geminiCopySchema(),
	})
	if err != nil {
		return "", fmt.Errorf("gemini copy request failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (c *GeminiClient) GenerateImage(ctx context.Context, prompt, aspectRatio string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	}
	if aspectRatio != "" {
		cfg.ImageConfig = &genai.ImageConfig{AspectRatio: aspectRatio}
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.imageModel, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini image request failed: %w", err)
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mime := part.InlineData.MIMEType
				if mime == "" {
					mime = "image/png"
				}
				return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(part.InlineData.Data), nil
			}
		}
	}
	return "", fmt.Errorf("gemini image request: %w", ErrEmptyResponse)
}

func geminiCopySchema() *genai.Schema {
	str := &genai.Schema{Type: genai.TypeString}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			prompts.FieldHero: {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					prompts.FieldHeading: str,
					prompts.FieldTagline: str,
				},
				Required: []string{prompts.FieldHeading, prompts.FieldTagline},
			},
			prompts.FieldAbout: {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					prompts.FieldHeading:    str,
					prompts.FieldParagraphs: {Type: genai.TypeArray, Items: str},
				},
				Required: []string{prompts.FieldHeading, prompts.FieldParagraphs},
			},
			prompts.FieldServices: {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						prompts.FieldTitle:    str,
						prompts.FieldDesc:     str,
						prompts.FieldSubtitle: str,
					},
					Required: []string{prompts.FieldTitle, prompts.FieldDesc, prompts.FieldSubtitle},
				},
			},
			prompts.FieldContact: {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					prompts.FieldEmail:   str,
					prompts.FieldAddress: str,
				},
				Required: []string{prompts.FieldEmail, prompts.FieldAddress},
			},
		},
		Required: []string{prompts.FieldHero, prompts.FieldAbout, prompts.FieldServices, prompts.FieldContact},
	}
}
