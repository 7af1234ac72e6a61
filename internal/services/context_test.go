package services_test

import (
	"context"
	"testing"

	"lyricreel/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithStage(ctx, "images")
	ctx = services.WithScene(ctx, 7)

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "images" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if seq, ok := services.SceneFromContext(ctx); !ok || seq != 7 {
		t.Fatalf("unexpected scene: %v %v", seq, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithRunID(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id value")
	}
	if _, ok := services.SceneFromContext(ctx); ok {
		t.Fatal("expected no scene value")
	}
}
