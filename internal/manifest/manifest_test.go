package manifest

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lyricreel/internal/lyrics"
)

const sampleSRT = `1
00:00:00,000 --> 00:00:04,000
Hello <world> & friends

2
00:00:04,000 --> 00:00:09,500
Café (ooh)
`

func TestBuildWithoutStyleUsesNulls(t *testing.T) {
	result := lyrics.Synthesize(sampleSRT, "", "photorealistic")
	doc := Build(Sources{SRTFile: "song.srt", BaseStyle: "photorealistic"}, result)

	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		t.Fatalf("encode: %v", err)
	}
	var generic map[string]any
	if err := json.Unmarshal(buf.Bytes(), &generic); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	meta := generic["metadata"].(map[string]any)
	for _, key := range []string{"suno_style_file", "suno_style_text"} {
		value, ok := meta[key]
		if !ok || value != nil {
			t.Fatalf("expected %s to be null, got %#v (present=%v)", key, value, ok)
		}
	}
	style := meta["extracted_style_elements"].(map[string]any)
	if style["mood"] != nil {
		t.Fatalf("expected null mood, got %#v", style["mood"])
	}
	keywords, ok := style["visual_keywords"].([]any)
	if !ok || len(keywords) != 0 {
		t.Fatalf("expected empty keyword list, got %#v", style["visual_keywords"])
	}
	if meta["total_segments"].(float64) != 2 || meta["total_duration"].(float64) != 9.5 {
		t.Fatalf("unexpected totals: %#v", meta)
	}
}

func TestEncodeFormatting(t *testing.T) {
	result := lyrics.Synthesize(sampleSRT, "dark synthwave", "photorealistic")
	doc := Build(Sources{SRTFile: "song.srt", StyleFile: "style.txt", StyleText: "dark synthwave", BaseStyle: "photorealistic"}, result)

	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		t.Fatalf("encode: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "\n  \"metadata\": {") {
		t.Fatalf("expected two-space indentation, got:\n%s", out)
	}
	if !strings.Contains(out, "Hello <world> & friends") {
		t.Fatalf("expected HTML characters unescaped, got:\n%s", out)
	}
	if !strings.Contains(out, "Café") {
		t.Fatalf("expected non-ASCII text unescaped, got:\n%s", out)
	}
	if !strings.Contains(out, `"mood": "dark"`) {
		t.Fatalf("expected mood string, got:\n%s", out)
	}
	// Whole-number seconds are written without a fractional part.
	if !strings.Contains(out, `"end": 4,`) || !strings.Contains(out, `"total_duration": 9.5,`) {
		t.Fatalf("expected plain numeric seconds, got:\n%s", out)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.json")
	result := lyrics.Synthesize(sampleSRT, "ambient", lyrics.DefaultBaseStyle)
	doc := Build(Sources{SRTFile: "song.srt", StyleText: "ambient", BaseStyle: lyrics.DefaultBaseStyle}, result)

	if err := Save(path, doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(loaded.Segments))
	}
	if loaded.Segments[1].Filename != "scene_002.jpg" || loaded.Segments[1].LyricCleaned != "Café" {
		t.Fatalf("unexpected second segment %+v", loaded.Segments[1])
	}
	style := loaded.Metadata.ExtractedStyleElements.Style()
	if len(style.VisualKeywords) != 3 || style.Mood != "" {
		t.Fatalf("unexpected style %+v", style)
	}
	if loaded.Metadata.SunoStyleFile != nil {
		t.Fatalf("expected nil style file, got %q", *loaded.Metadata.SunoStyleFile)
	}
}

func TestLoadRejectsMissingSegments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"metadata": {}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for document without segments")
	}
}

func TestLoadAcceptsEmptySegments(t *testing.T) {
	doc, err := Decode([]byte(`{"segments": []}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Segments) != 0 {
		t.Fatalf("expected no segments, got %d", len(doc.Segments))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected read error")
	}
}
