package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state", "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func fixedClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func TestOpenAppliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.StartRun(context.Background(), "run-1", KindPrompts, "song.srt"); err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	_ = store.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	var versions int
	if err := reopened.db.QueryRow("SELECT COUNT(1) FROM schema_migrations").Scan(&versions); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if versions != 1 {
		t.Fatalf("expected one applied migration, got %d", versions)
	}
	run, err := reopened.Get(context.Background(), "run-1")
	if err != nil || run == nil {
		t.Fatalf("expected run to survive reopen, got %v %v", run, err)
	}
	if reopened.Path() != path {
		t.Fatalf("unexpected path %q", reopened.Path())
	}
}

func TestRunLifecycle(t *testing.T) {
	store := openTestStore(t)
	store.now = fixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	if err := store.StartRun(ctx, "run-1", KindImages, "prompts.json"); err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	running, err := store.Get(ctx, "run-1")
	if err != nil || running == nil {
		t.Fatalf("Get failed: %v", err)
	}
	if running.Status != StatusRunning || !running.FinishedAt.IsZero() || running.Duration() != 0 {
		t.Fatalf("unexpected running row %+v", running)
	}

	if err := store.RecordScene(ctx, "run-1", SceneRecord{Sequence: 2, Filename: "scene_002.jpg", Status: "failed", Error: "http 500"}); err != nil {
		t.Fatalf("RecordScene failed: %v", err)
	}
	if err := store.RecordScene(ctx, "run-1", SceneRecord{Sequence: 1, Filename: "scene_001.jpg", Status: "generated", Bytes: 2048}); err != nil {
		t.Fatalf("RecordScene failed: %v", err)
	}
	err = store.FinishRun(ctx, "run-1", Finish{
		Status:   "succeeded",
		Output:   "images",
		Provider: "openai",
		Counts:   Counts{Total: 2, Succeeded: 1, Failed: 1},
	})
	if err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	finished, err := store.Get(ctx, "run-1")
	if err != nil || finished == nil {
		t.Fatalf("Get failed: %v", err)
	}
	if finished.Status != "succeeded" || finished.Provider != "openai" || finished.Output != "images" {
		t.Fatalf("unexpected finished row %+v", finished)
	}
	if finished.Counts != (Counts{Total: 2, Succeeded: 1, Failed: 1}) {
		t.Fatalf("unexpected counts %+v", finished.Counts)
	}
	if finished.Duration() <= 0 {
		t.Fatalf("expected positive duration, got %s", finished.Duration())
	}

	scenes, err := store.Scenes(ctx, "run-1")
	if err != nil {
		t.Fatalf("Scenes failed: %v", err)
	}
	if len(scenes) != 2 || scenes[0].Sequence != 1 || scenes[1].Error != "http 500" || scenes[0].Bytes != 2048 {
		t.Fatalf("unexpected scenes %+v", scenes)
	}
}

func TestFinishRunRecordsError(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	if err := store.StartRun(ctx, "run-err", KindAssemble, "prompts.json"); err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	if err := store.FinishRun(ctx, "run-err", Finish{Status: "failed", Err: errors.New("ffmpeg exited 1")}); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}
	run, _ := store.Get(ctx, "run-err")
	if run.ErrorMessage != "ffmpeg exited 1" {
		t.Fatalf("expected error message to be stored, got %q", run.ErrorMessage)
	}
	if err := store.FinishRun(ctx, "missing", Finish{Status: "failed"}); err == nil {
		t.Fatal("expected finishing an unknown run to fail")
	}
}

func TestRecentOrdersNewestFirstAndLimits(t *testing.T) {
	store := openTestStore(t)
	store.now = fixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		if err := store.StartRun(ctx, id, KindPrompts, id+".srt"); err != nil {
			t.Fatalf("StartRun %s: %v", id, err)
		}
	}

	runs, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "c" || runs[1].ID != "b" {
		t.Fatalf("unexpected recent runs %+v", runs)
	}
	all, err := store.Recent(ctx, 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("expected default limit to return all runs, got %d %v", len(all), err)
	}
}

func TestGetMissingRun(t *testing.T) {
	store := openTestStore(t)
	run, err := store.Get(context.Background(), "nope")
	if err != nil || run != nil {
		t.Fatalf("expected nil run without error, got %v %v", run, err)
	}
}

func TestStartRunRequiresID(t *testing.T) {
	store := openTestStore(t)
	if err := store.StartRun(context.Background(), " ", KindPrompts, ""); err == nil {
		t.Fatal("expected empty id to fail")
	}
	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path to fail")
	}
}
