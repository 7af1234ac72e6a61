package pipeline

import (
	"fmt"
	"io"
	"strings"

	"lyricreel/internal/textutil"
)

const (
	lyricPreviewRunes  = 60
	promptPreviewRunes = 80
	keywordPreview     = 5
)

// Render writes the scene-by-scene summary of r to w.
func (r PromptsReport) Render(w io.Writer) error {
	var b strings.Builder
	meta := r.Document.Metadata
	fmt.Fprintf(&b, "Parsed %d scenes from %s\n", meta.TotalSegments, r.SRTPath)
	if r.Skipped > 0 {
		fmt.Fprintf(&b, "Skipped %d malformed blocks\n", r.Skipped)
	}

	style := meta.ExtractedStyleElements
	if len(style.VisualKeywords) > 0 {
		keywords := style.VisualKeywords
		if len(keywords) > keywordPreview {
			keywords = keywords[:keywordPreview]
		}
		fmt.Fprintf(&b, "Visual keywords: %s\n", strings.Join(keywords, ", "))
	}
	if style.Mood != nil {
		fmt.Fprintf(&b, "Mood: %s\n", *style.Mood)
	}
	if r.StyleMissing {
		fmt.Fprintf(&b, "Style file not found: %s\n", r.StyleFile)
	}
	b.WriteString("\n")

	for _, seg := range r.Document.Segments {
		fmt.Fprintf(&b, "Scene %d [%.2fs - %.2fs] (%.2fs)\n", seg.Sequence, seg.Start, seg.End, seg.Duration)
		fmt.Fprintf(&b, "  Lyric:   %s\n", textutil.Truncate(seg.Lyric, lyricPreviewRunes))
		if seg.LyricCleaned != strings.TrimSpace(seg.Lyric) {
			fmt.Fprintf(&b, "  Cleaned: %s\n", textutil.Truncate(seg.LyricCleaned, lyricPreviewRunes))
		}
		fmt.Fprintf(&b, "  Prompt:  %s\n", textutil.Truncate(seg.Prompt, promptPreviewRunes))
	}

	fmt.Fprintf(&b, "\nTotal duration: %.2fs\n", meta.TotalDuration)
	fmt.Fprintf(&b, "Prompts saved to %s\n", r.OutputPath)
	_, err := io.WriteString(w, b.String())
	return err
}
