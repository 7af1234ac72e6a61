package imagegen

import (
	"bytes"
	"context"
	"errors"
	"image/jpeg"
	"testing"

	"github.com/h2non/filetype"

	"lyricreel/internal/config"
	"lyricreel/internal/services"
)

func TestNewProviderSelection(t *testing.T) {
	cfg := config.Default()
	ctx := context.Background()

	p, err := NewProvider(ctx, &cfg, "placeholder", "")
	if err != nil || p.Name() != "placeholder" {
		t.Fatalf("expected placeholder provider, got %v %v", p, err)
	}

	p, err = NewProvider(ctx, &cfg, "GROK", "xai-key")
	if err != nil {
		t.Fatalf("NewProvider grok: %v", err)
	}
	if p.Name() != "grok" {
		t.Fatalf("expected grok provider, got %q", p.Name())
	}

	cfg.Images.Provider = config.ProviderPlaceholder
	p, err = NewProvider(ctx, &cfg, "", "")
	if err != nil || p.Name() != "placeholder" {
		t.Fatalf("expected configured default provider, got %v %v", p, err)
	}
}

func TestNewProviderErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Images.OpenAI.APIKey = ""
	cfg.Images.Gemini.APIKey = ""
	ctx := context.Background()

	if _, err := NewProvider(ctx, &cfg, "midjourney", ""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for unknown provider, got %v", err)
	}
	if _, err := NewProvider(ctx, &cfg, "openai", ""); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for missing openai key, got %v", err)
	}
	if _, err := NewProvider(ctx, &cfg, "gemini", " "); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for missing gemini key, got %v", err)
	}
}

func TestPlaceholderRendersJPEG(t *testing.T) {
	data, err := NewPlaceholder(64, 36).Generate(context.Background(), "Neon skyline | synthwave")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if !filetype.IsImage(data) {
		t.Fatal("expected placeholder output to be detected as an image")
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 36 {
		t.Fatalf("unexpected bounds %v", b)
	}
}

func TestPlaceholderTintVariesByPrompt(t *testing.T) {
	r1, g1, b1 := tint("first scene")
	r2, g2, b2 := tint("second scene")
	if r1 == r2 && g1 == g2 && b1 == b2 {
		t.Fatal("expected different prompts to produce different tints")
	}
	if NewPlaceholder(0, 0).width != placeholderWidth {
		t.Fatal("expected default width for non-positive dimensions")
	}
}

func TestPlaceholderHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewPlaceholder(32, 18).Generate(ctx, "prompt"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
