package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lyricreel/internal/config"
	"lyricreel/internal/history"
	"lyricreel/internal/services"
	"lyricreel/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	srtPath    string
	audioPath  string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	if len(opts) == 0 {
		opts = []testsupport.ConfigOption{testsupport.WithStubbedBinaries()}
	}
	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	for _, key := range []string{"OPENAI_API_KEY", "XAI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY", "LYRICREEL_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	t.Chdir(base)

	configPath := filepath.Join(base, "lyricreel-test.toml")
	testsupport.WriteConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
		srtPath:    testsupport.WriteFile(t, filepath.Join(base, "song.srt"), testsupport.SampleSRT),
		audioPath:  testsupport.WriteSizedFile(t, filepath.Join(base, "song.mp3"), 128),
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	return runCLIWithInput(t, args, configPath, "")
}

func runCLIWithInput(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestPromptsCommandWritesDocument(t *testing.T) {
	env := setupCLITestEnv(t)
	style := testsupport.WriteFile(t, filepath.Join(env.baseDir, "style.txt"), "dreamy synthwave")
	out := filepath.Join(env.baseDir, "prompts.json")

	stdout, _, err := runCLI(t, []string{"prompts", env.srtPath, out, style, "watercolor"}, env.configPath)
	if err != nil {
		t.Fatalf("prompts: %v", err)
	}
	requireContains(t, stdout, "Parsed 3 scenes")
	requireContains(t, stdout, "Mood: dreamy")

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read prompts: %v", err)
	}
	var doc struct {
		Metadata struct {
			BaseStyle     string  `json:"base_style"`
			TotalSegments int     `json:"total_segments"`
			TotalDuration float64 `json:"total_duration"`
		} `json:"metadata"`
		Segments []struct {
			Filename string `json:"filename"`
			Prompt   string `json:"prompt"`
		} `json:"segments"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode prompts: %v", err)
	}
	if doc.Metadata.TotalSegments != 3 || doc.Metadata.TotalDuration != 9.25 || doc.Metadata.BaseStyle != "watercolor" {
		t.Fatalf("unexpected metadata %+v", doc.Metadata)
	}
	if doc.Segments[2].Filename != "scene_003.jpg" || !strings.HasPrefix(doc.Segments[2].Prompt, "watercolor") {
		t.Fatalf("unexpected third segment %+v", doc.Segments[2])
	}
}

func TestPromptsCommandFlagsOverridePositionals(t *testing.T) {
	env := setupCLITestEnv(t)
	out := filepath.Join(env.baseDir, "prompts.json")

	_, _, err := runCLI(t, []string{"prompts", env.srtPath, out, "missing-style.txt", "oil painting", "--base-style", "pencil sketch"}, env.configPath)
	if err != nil {
		t.Fatalf("prompts: %v", err)
	}
	data, _ := os.ReadFile(out)
	requireContains(t, string(data), `"base_style": "pencil sketch"`)
	requireContains(t, string(data), `"suno_style_file": "missing-style.txt"`)
	requireContains(t, string(data), `"suno_style_text": null`)
}

func TestPromptsCommandMissingInputExitsInvalid(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"prompts", filepath.Join(env.baseDir, "nope.srt"), "out.json"}, env.configPath)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if code := services.ExitCode(err); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}

func TestImagesCommandPlaceholderAndRerun(t *testing.T) {
	env := setupCLITestEnv(t)
	promptsPath := filepath.Join(env.baseDir, "prompts.json")
	imagesDir := filepath.Join(env.baseDir, "images")
	if _, _, err := runCLI(t, []string{"prompts", env.srtPath, promptsPath}, env.configPath); err != nil {
		t.Fatalf("prompts: %v", err)
	}

	stdout, _, err := runCLI(t, []string{"images", promptsPath, imagesDir, "placeholder"}, env.configPath)
	if err != nil {
		t.Fatalf("images: %v", err)
	}
	requireContains(t, stdout, "Successful: 3/3 (skipped existing: 0, failed: 0)")
	for _, name := range []string{"scene_001.jpg", "scene_002.jpg", "scene_003.jpg"} {
		if _, err := os.Stat(filepath.Join(imagesDir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}

	stdout, _, err = runCLI(t, []string{"images", promptsPath, imagesDir, "--provider", "placeholder"}, env.configPath)
	if err != nil {
		t.Fatalf("images rerun: %v", err)
	}
	requireContains(t, stdout, "Successful: 3/3 (skipped existing: 3, failed: 0)")
}

func TestImagesCommandProviderErrors(t *testing.T) {
	env := setupCLITestEnv(t)
	promptsPath := filepath.Join(env.baseDir, "prompts.json")
	if _, _, err := runCLI(t, []string{"prompts", env.srtPath, promptsPath}, env.configPath); err != nil {
		t.Fatalf("prompts: %v", err)
	}

	_, _, err := runCLI(t, []string{"images", promptsPath, "images", "stable-diffusion"}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for unknown provider, got %v", err)
	}
	_, _, err = runCLI(t, []string{"images", promptsPath, "images", "openai"}, env.configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for missing key, got %v", err)
	}
	requireContains(t, err.Error(), "OPENAI_API_KEY")
}

func TestAssembleCommandCreatesVideo(t *testing.T) {
	env := setupCLITestEnv(t)
	promptsPath := filepath.Join(env.baseDir, "prompts.json")
	imagesDir := filepath.Join(env.baseDir, "images")
	output := filepath.Join(env.baseDir, "out", "video.mp4")
	if _, _, err := runCLI(t, []string{"prompts", env.srtPath, promptsPath}, env.configPath); err != nil {
		t.Fatalf("prompts: %v", err)
	}
	if _, _, err := runCLI(t, []string{"images", promptsPath, imagesDir}, env.configPath); err != nil {
		t.Fatalf("images: %v", err)
	}

	stdout, _, err := runCLI(t, []string{"assemble", promptsPath, imagesDir, env.audioPath, output}, env.configPath)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	requireContains(t, stdout, "Video created: "+output)
	requireContains(t, stdout, "Duration:   6s")
	requireContains(t, stdout, "Resolution: 64x36")
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("expected output video: %v", err)
	}
}

func TestAssembleCommandMissingImagesNeedsConfirmation(t *testing.T) {
	env := setupCLITestEnv(t)
	promptsPath := filepath.Join(env.baseDir, "prompts.json")
	imagesDir := filepath.Join(env.baseDir, "images")
	output := filepath.Join(env.baseDir, "video.mp4")
	if _, _, err := runCLI(t, []string{"prompts", env.srtPath, promptsPath}, env.configPath); err != nil {
		t.Fatalf("prompts: %v", err)
	}
	if _, _, err := runCLI(t, []string{"images", promptsPath, imagesDir}, env.configPath); err != nil {
		t.Fatalf("images: %v", err)
	}
	if err := os.Remove(filepath.Join(imagesDir, "scene_002.jpg")); err != nil {
		t.Fatalf("remove image: %v", err)
	}

	stdout, _, err := runCLIWithInput(t, []string{"assemble", promptsPath, imagesDir, env.audioPath, output}, env.configPath, "y\n")
	if !errors.Is(err, services.ErrAborted) {
		t.Fatalf("expected abort without a terminal, got %v", err)
	}
	requireContains(t, stdout, "Missing 1 scene images")
	requireContains(t, stdout, "scene_002.jpg")
	requireContains(t, err.Error(), "--yes")

	stdout, _, err = runCLI(t, []string{"assemble", promptsPath, imagesDir, env.audioPath, output, "--yes"}, env.configPath)
	if err != nil {
		t.Fatalf("assemble --yes: %v", err)
	}
	requireContains(t, stdout, "Continuing without them (--yes)")
	requireContains(t, stdout, "Video created")
}

func TestAssembleCommandRequiresFFmpeg(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithEmptyPath())
	_, _, err := runCLI(t, []string{"assemble", "prompts.json", "images", env.audioPath}, env.configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error without ffmpeg, got %v", err)
	}
	requireContains(t, err.Error(), "FFmpeg is required")
}

func TestRunCommandChainsStages(t *testing.T) {
	env := setupCLITestEnv(t)
	workdir := filepath.Join(env.baseDir, "work")

	stdout, _, err := runCLI(t, []string{"run", env.srtPath, env.audioPath, "--workdir", workdir, "--provider", "placeholder"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, stdout, "== Step 3/3: assemble")
	for _, path := range []string{
		filepath.Join(workdir, "prompts.json"),
		filepath.Join(workdir, "images", "scene_003.jpg"),
		filepath.Join(workdir, env.cfg.Video.OutputFile),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s: %v", path, err)
		}
	}

	store := testsupport.MustOpenHistory(t, env.cfg)
	runs, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected three recorded stages, got %d", len(runs))
	}
	kinds := map[string]string{}
	for _, run := range runs {
		kinds[run.Kind] = run.Status
	}
	for _, kind := range []string{history.KindPrompts, history.KindImages, history.KindAssemble} {
		if kinds[kind] != services.OutcomeSucceeded {
			t.Fatalf("expected %s to succeed, got %q", kind, kinds[kind])
		}
	}
}

func TestHistoryCommandListsRuns(t *testing.T) {
	env := setupCLITestEnv(t)
	promptsPath := filepath.Join(env.baseDir, "prompts.json")

	stdout, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, stdout, "No runs recorded yet")

	if _, _, err := runCLI(t, []string{"prompts", env.srtPath, promptsPath}, env.configPath); err != nil {
		t.Fatalf("prompts: %v", err)
	}
	if _, _, err := runCLI(t, []string{"images", promptsPath, "images"}, env.configPath); err != nil {
		t.Fatalf("images: %v", err)
	}

	stdout, _, err = runCLI(t, []string{"history", "--limit", "5"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, stdout, "prompts")
	requireContains(t, stdout, "images")
	requireContains(t, stdout, "3/3")

	store := testsupport.MustOpenHistory(t, env.cfg)
	runs, err := store.Recent(context.Background(), 1)
	if err != nil || len(runs) != 1 {
		t.Fatalf("Recent: %v %d", err, len(runs))
	}
	stdout, _, err = runCLI(t, []string{"history", "--run", runs[0].ID}, env.configPath)
	if err != nil {
		t.Fatalf("history --run: %v", err)
	}
	requireContains(t, stdout, "scene_001.jpg")
	requireContains(t, stdout, "generated")

	_, _, err = runCLI(t, []string{"history", "--run", "missing"}, env.configPath)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found for unknown run, got %v", err)
	}
}

func TestHistoryDisabled(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries(), testsupport.WithHistoryDisabled())
	if _, _, err := runCLI(t, []string{"prompts", env.srtPath, "prompts.json"}, env.configPath); err != nil {
		t.Fatalf("prompts: %v", err)
	}
	stdout, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, stdout, "Run history is disabled")
	if _, err := os.Stat(env.cfg.HistoryPath()); !os.IsNotExist(err) {
		t.Fatalf("expected no history database, stat err=%v", err)
	}
}

func TestDepsCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	stdout, _, err := runCLI(t, []string{"deps"}, env.configPath)
	if err != nil {
		t.Fatalf("deps: %v", err)
	}
	requireContains(t, stdout, "FFmpeg")
	requireContains(t, stdout, "All required dependencies available")
}

func TestDepsCommandReportsMissing(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithEmptyPath())
	stdout, _, err := runCLI(t, []string{"deps"}, env.configPath)
	if err == nil {
		t.Fatal("expected deps to fail without ffmpeg")
	}
	if services.ExitCode(err) != 2 {
		t.Fatalf("expected exit code 2, got %d", services.ExitCode(err))
	}
	requireContains(t, stdout, "missing (optional)")
}
