package lyrics

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultBaseStyle prefixes every prompt when the caller supplies none.
	DefaultBaseStyle = "photorealistic, cinematic"
	// AbstractScene replaces structural markers and empty cues.
	AbstractScene = "Abstract visual interpretation of the music"

	technicalSpec     = "16:9 aspect ratio, high quality, cinematic composition"
	promptSeparator   = " | "
	maxPromptKeywords = 3
	filenamePattern   = "scene_%03d.jpg"
)

// Background vocals are written in parentheses and never reach the prompt.
var backgroundVocals = regexp.MustCompile(`\([^)]*\)`)

var structuralMarkers = []string{
	"instrumental", "intro", "outro", "bridge", "solo",
	"break", "fade", "interlude", "chorus", "verse", "pre-chorus",
}

// PromptRecord is one scene of the generated prompt document.
type PromptRecord struct {
	Sequence     int     `json:"sequence"`
	Start        float64 `json:"start"`
	End          float64 `json:"end"`
	Duration     float64 `json:"duration"`
	Lyric        string  `json:"lyric"`
	LyricCleaned string  `json:"lyric_cleaned"`
	Prompt       string  `json:"prompt"`
	Filename     string  `json:"filename"`
}

// CleanLyric strips background-vocal annotations from a cue.
func CleanLyric(text string) string {
	return strings.TrimSpace(backgroundVocals.ReplaceAllString(strings.TrimSpace(text), ""))
}

// SceneSubject returns the text that follows "scene depicting:" for a cue.
func SceneSubject(text string) string {
	subject := CleanLyric(text)
	if len(subject) >= 2 && strings.HasPrefix(subject, "[") && strings.HasSuffix(subject, "]") {
		marker := lowerCaser.String(subject[1 : len(subject)-1])
		if isStructuralMarker(marker) {
			subject = AbstractScene
		} else {
			subject = capitalize(marker) + " atmosphere"
		}
	}
	if strings.TrimSpace(subject) == "" {
		subject = AbstractScene
	}
	return subject
}

// BuildPrompt assembles the generation prompt for a single cue.
func BuildPrompt(text string, style StyleElements, baseStyle string) string {
	parts := []string{baseStyle}
	if len(style.VisualKeywords) > 0 {
		keywords := style.VisualKeywords
		if len(keywords) > maxPromptKeywords {
			keywords = keywords[:maxPromptKeywords]
		}
		parts = append(parts, strings.Join(keywords, ", "))
	}
	if style.Mood != "" {
		parts = append(parts, style.Mood+" atmosphere")
	}
	parts = append(parts, "scene depicting: "+SceneSubject(text), technicalSpec)
	return strings.Join(parts, promptSeparator)
}

// SceneFilename returns the image filename for a 1-based sequence number.
func SceneFilename(sequence int) string {
	return fmt.Sprintf(filenamePattern, sequence)
}

// NewPromptRecord builds the record for seg at the given 1-based sequence.
func NewPromptRecord(seg Segment, style StyleElements, baseStyle string, sequence int) PromptRecord {
	return PromptRecord{
		Sequence:     sequence,
		Start:        seg.Start,
		End:          seg.End,
		Duration:     seg.End - seg.Start,
		Lyric:        seg.Text,
		LyricCleaned: CleanLyric(seg.Text),
		Prompt:       BuildPrompt(seg.Text, style, baseStyle),
		Filename:     SceneFilename(sequence),
	}
}

func isStructuralMarker(marker string) bool {
	for _, word := range structuralMarkers {
		if strings.Contains(marker, word) {
			return true
		}
	}
	return false
}

func capitalize(value string) string {
	r, size := utf8.DecodeRuneInString(value)
	if size == 0 {
		return value
	}
	return string(unicode.ToTitle(r)) + value[size:]
}
