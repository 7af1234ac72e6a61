package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"lyricreel/internal/fileutil"
	"lyricreel/internal/lyrics"
)

// Document is the prompts document written by the prompt stage.
type Document struct {
	Metadata Metadata             `json:"metadata"`
	Segments []lyrics.PromptRecord `json:"segments"`
}

// Metadata describes how the document was produced.
type Metadata struct {
	SRTFile                string       `json:"srt_file"`
	SunoStyleFile          *string      `json:"suno_style_file"`
	SunoStyleText          *string      `json:"suno_style_text"`
	TotalSegments          int          `json:"total_segments"`
	TotalDuration          float64      `json:"total_duration"`
	BaseStyle              string       `json:"base_style"`
	ExtractedStyleElements StyleSummary `json:"extracted_style_elements"`
}

// StyleSummary is the serialized form of lyrics.StyleElements.
type StyleSummary struct {
	VisualKeywords []string `json:"visual_keywords"`
	Mood           *string  `json:"mood"`
}

// Sources names the inputs of a prompt run.
type Sources struct {
	SRTFile   string
	StyleFile string
	StyleText string
	BaseStyle string
}

// Build assembles the document for a synthesis result. Empty style inputs
// serialize as null.
func Build(src Sources, result lyrics.Result) Document {
	records := result.Records
	if records == nil {
		records = []lyrics.PromptRecord{}
	}
	return Document{
		Metadata: Metadata{
			SRTFile:                src.SRTFile,
			SunoStyleFile:          optional(src.StyleFile),
			SunoStyleText:          optional(src.StyleText),
			TotalSegments:          len(records),
			TotalDuration:          result.TotalDuration(),
			BaseStyle:              src.BaseStyle,
			ExtractedStyleElements: summarize(result.Style),
		},
		Segments: records,
	}
}

// Style converts the stored summary back to style elements.
func (s StyleSummary) Style() lyrics.StyleElements {
	style := lyrics.StyleElements{VisualKeywords: append([]string{}, s.VisualKeywords...)}
	if s.Mood != nil {
		style.Mood = *s.Mood
	}
	return style
}

// Encode writes doc as two-space indented JSON without escaping HTML or
// non-ASCII characters.
func Encode(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}

// Save writes doc to path atomically.
func Save(path string, doc Document) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("save manifest: path required")
	}
	if err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Encode(w, doc)
	}); err != nil {
		return fmt.Errorf("save manifest %s: %w", path, err)
	}
	return nil
}

// Load reads a prompts document from path. Documents without a segments list
// are rejected.
func Load(path string) (Document, error) {
	var doc Document
	data, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("read manifest %s: %w", path, err)
	}
	return Decode(data)
}

// Decode parses a prompts document.
func Decode(data []byte) (Document, error) {
	var raw struct {
		Metadata Metadata               `json:"metadata"`
		Segments *[]lyrics.PromptRecord `json:"segments"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, fmt.Errorf("decode manifest: %w", err)
	}
	if raw.Segments == nil {
		return Document{}, errors.New("decode manifest: missing segments")
	}
	return Document{Metadata: raw.Metadata, Segments: *raw.Segments}, nil
}

func summarize(style lyrics.StyleElements) StyleSummary {
	keywords := style.VisualKeywords
	if keywords == nil {
		keywords = []string{}
	}
	return StyleSummary{VisualKeywords: keywords, Mood: optional(style.Mood)}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
