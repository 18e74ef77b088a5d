package ai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"shopsite_server/internal/ai/prompts"
	"shopsite_server/internal/types"
)

const (
	DefaultOpenAITextModel  = openai.GPT4o
	DefaultOpenAIImageModel = openai.CreateImageModelDallE3
)

// OpenAIClient implements CopyWriter and ImageModel on the OpenAI API.
type OpenAIClient struct {
	client     *openai.Client
	textModel  string
	imageModel string
}

// NewOpenAIClient fails fast with ErrMissingAPIKey. baseURL is optional and
// exists for OpenAI-compatible gateways.
func NewOpenAIClient(apiKey, baseURL, textModel, imageModel string) (*OpenAIClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if textModel == "" {
		textModel = DefaultOpenAITextModel
	}
	if imageModel == "" {
		imageModel = DefaultOpenAIImageModel
	}
	return &OpenAIClient{
		client:     openai.NewClientWithConfig(cfg),
		textModel:  textModel,
		imageModel: imageModel,
	}, nil
}

func (c *OpenAIClient) WriteCopy(ctx context.Context, inputs types.ShopInputs) (string, error) {
	schema := openAICopySchema()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.textModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompts.SiteCopySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompts.GetSiteCopyPrompt(inputs.ShopName, inputs.Area, inputs.Phone)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "site_copy",
				Schema: &schema,
			},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("openai copy request failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) GenerateImage(ctx context.Context, prompt, aspectRatio string) (string, error) {
	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          c.imageModel,
		N:              1,
		Size:           openAIImageSize(aspectRatio),
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return "", fmt.Errorf("openai image request failed: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", fmt.Errorf("openai image request: %w", ErrEmptyResponse)
	}
	return "data:image/png;base64," + resp.Data[0].B64JSON, nil
}

// openAIImageSize maps an aspect ratio onto the closest size DALL-E 3 accepts.
func openAIImageSize(aspectRatio string) string {
	switch aspectRatio {
	case "16:9", "4:3", "3:2":
		return openai.CreateImageSize1792x1024
	case "9:16", "3:4", "2:3":
		return openai.CreateImageSize1024x1792
	default:
		return openai.CreateImageSize1024x1024
	}
}

func openAICopySchema() jsonschema.Definition {
	str := jsonschema.Definition{Type: jsonschema.String}
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			prompts.FieldHero: {
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					prompts.FieldHeading: str,
					prompts.FieldTagline: str,
				},
				Required: []string{prompts.FieldHeading, prompts.FieldTagline},
			},
			prompts.FieldAbout: {
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					prompts.FieldHeading:    str,
					prompts.FieldParagraphs: {Type: jsonschema.Array, Items: &str},
				},
				Required: []string{prompts.FieldHeading, prompts.FieldParagraphs},
			},
			prompts.FieldServices: {
				Type: jsonschema.Array,
				Items: &jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						prompts.FieldTitle:    str,
						prompts.FieldSubtitle: str,
						prompts.FieldDesc:     str,
					},
					Required: []string{prompts.FieldTitle, prompts.FieldSubtitle, prompts.FieldDesc},
				},
			},
			prompts.FieldContact: {
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					prompts.FieldEmail:   str,
					prompts.FieldAddress: str,
				},
				Required: []string{prompts.FieldEmail, prompts.FieldAddress},
			},
		},
		Required: []string{prompts.FieldHero, prompts.FieldAbout, prompts.FieldServices, prompts.FieldContact},
	}
}
