package lyrics

import (
	"strings"
	"testing"
)

func TestSynthesizeEndToEnd(t *testing.T) {
	doc := `1
00:00:00,000 --> 00:00:04,000
Hello world

2
00:00:04,000 --> 00:00:09,500
(oohs) [Bridge]
`
	result := Synthesize(doc, "", "photorealistic")
	if len(result.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result.Records))
	}
	for i, rec := range result.Records {
		if rec.Sequence != i+1 {
			t.Fatalf("record %d has sequence %d", i, rec.Sequence)
		}
	}
	first := result.Records[0]
	if !strings.HasPrefix(first.Prompt, "photorealistic | scene depicting: Hello world") {
		t.Fatalf("unexpected first prompt %q", first.Prompt)
	}
	second := result.Records[1]
	if second.LyricCleaned != "[Bridge]" {
		t.Fatalf("expected background vocals removed, got %q", second.LyricCleaned)
	}
	if !strings.Contains(second.Prompt, "scene depicting: Abstract visual interpretation of the music") {
		t.Fatalf("expected abstract scene prompt, got %q", second.Prompt)
	}
	if second.Filename != "scene_002.jpg" {
		t.Fatalf("unexpected filename %q", second.Filename)
	}
	if result.TotalDuration() != 9.5 {
		t.Fatalf("expected total duration 9.5, got %v", result.TotalDuration())
	}
	if !result.Style.Empty() {
		t.Fatalf("expected empty style, got %+v", result.Style)
	}
}

func TestSynthesizeAppliesStyleToEveryRecord(t *testing.T) {
	doc := "1\n00:00:00,000 --> 00:00:01,000\nOne\n\n2\n00:00:01,000 --> 00:00:02,000\nTwo\n"
	result := Synthesize(doc, "Cosmic ambient, uplifting", "cinematic")
	if result.Style.Mood != "uplifting" {
		t.Fatalf("unexpected mood %q", result.Style.Mood)
	}
	for _, rec := range result.Records {
		if !strings.Contains(rec.Prompt, "ethereal, atmospheric, dreamlike | uplifting atmosphere") {
			t.Fatalf("style missing from prompt %q", rec.Prompt)
		}
	}
}

func TestSynthesizeEmptyDocument(t *testing.T) {
	result := Synthesize("", "rock", DefaultBaseStyle)
	if len(result.Records) != 0 {
		t.Fatalf("expected no records, got %d", len(result.Records))
	}
	if result.TotalDuration() != 0 {
		t.Fatalf("expected zero duration, got %v", result.TotalDuration())
	}
}
