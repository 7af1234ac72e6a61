package imagen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	defaultModel       = "imagen-3.0-generate-002"
	defaultAspectRatio = "16:9"
)

// Config captures the Gemini API settings.
type Config struct {
	APIKey      string
	Model       string
	AspectRatio string
}

// imageModels is the subset of *genai.Models the client uses.
type imageModels interface {
	GenerateImages(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

// Client renders prompts with an Imagen model.
type Client struct {
	cfg    Config
	models imageModels
}

// NewClient connects to the Gemini API backend.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	cfg = normalize(cfg)
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: api key required")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Client{cfg: cfg, models: gc.Models}, nil
}

func newClientWithModels(cfg Config, models imageModels) *Client {
	return &Client{cfg: normalize(cfg), models: models}
}

func normalize(cfg Config) Config {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.AspectRatio = strings.TrimSpace(cfg.AspectRatio)
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.AspectRatio == "" {
		cfg.AspectRatio = defaultAspectRatio
	}
	return cfg
}

// Name returns the provider label.
func (c *Client) Name() string {
	return "gemini"
}

// Generate renders a single image for prompt.
func (c *Client) Generate(ctx context.Context, prompt string) ([]byte, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, errors.New("gemini generate: prompt required")
	}
	resp, err := c.models.GenerateImages(ctx, c.cfg.Model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    c.cfg.AspectRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil || len(resp.GeneratedImages) == 0 {
		return nil, errors.New("gemini generate: response contained no images")
	}
	generated := resp.GeneratedImages[0]
	if generated == nil || generated.Image == nil || len(generated.Image.ImageBytes) == 0 {
		reason := ""
		if generated != nil {
			reason = strings.TrimSpace(generated.RAIFilteredReason)
		}
		if reason != "" {
			return nil, fmt.Errorf("gemini generate: image filtered: %s", reason)
		}
		return nil, errors.New("gemini generate: image payload empty")
	}
	return generated.Image.ImageBytes, nil
}
