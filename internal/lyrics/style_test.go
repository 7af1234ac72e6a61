package lyrics

import (
	"reflect"
	"testing"
)

func TestExtractStyleSynthwave(t *testing.T) {
	style := ExtractStyle("Dreamy SYNTHWAVE with pulsing bass")
	want := []string{"retro-futuristic", "neon", "80s aesthetic", "purple and pink"}
	if !reflect.DeepEqual(style.VisualKeywords, want) {
		t.Fatalf("visual keywords = %v, want %v", style.VisualKeywords, want)
	}
	if style.Mood != "dreamy" {
		t.Fatalf("mood = %q, want dreamy", style.Mood)
	}
}

func TestExtractStyleMatchesAccumulateInTableOrder(t *testing.T) {
	// "synthwave" is listed after "electronic" even though it appears first here.
	style := ExtractStyle("synthwave electronic")
	want := []string{
		"neon", "digital", "futuristic",
		"retro-futuristic", "neon", "80s aesthetic", "purple and pink",
	}
	if !reflect.DeepEqual(style.VisualKeywords, want) {
		t.Fatalf("visual keywords = %v, want %v", style.VisualKeywords, want)
	}
}

func TestExtractStyleFirstMoodWins(t *testing.T) {
	style := ExtractStyle("energetic but dark")
	if style.Mood != "dark" {
		t.Fatalf("mood = %q, want dark", style.Mood)
	}
}

func TestExtractStyleSubstringMatches(t *testing.T) {
	// "popular" contains "pop"; "calmly" contains "calm".
	style := ExtractStyle("a popular tune sung calmly")
	want := []string{"bright", "colorful", "polished"}
	if !reflect.DeepEqual(style.VisualKeywords, want) {
		t.Fatalf("visual keywords = %v, want %v", style.VisualKeywords, want)
	}
	if style.Mood != "calm" {
		t.Fatalf("mood = %q, want calm", style.Mood)
	}
}

func TestExtractStyleEmpty(t *testing.T) {
	style := ExtractStyle("")
	if !style.Empty() {
		t.Fatalf("expected empty style, got %+v", style)
	}
	if style.VisualKeywords == nil {
		t.Fatal("expected non-nil keyword slice")
	}
	if got := ExtractStyle("spoken word"); !got.Empty() {
		t.Fatalf("expected no matches, got %+v", got)
	}
}
