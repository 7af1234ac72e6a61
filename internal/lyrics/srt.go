package lyrics

import (
	"regexp"
	"strings"
)

var (
	blockSeparator = regexp.MustCompile(`\n\s*\n`)
	timingPattern  = regexp.MustCompile(`^([\d:,]+)\s*-->\s*([\d:,]+)`)
)

// minBlockLines covers the index line, the timing line and one text line.
const minBlockLines = 3

// Segment is one timed subtitle cue.
type Segment struct {
	Start    float64
	End      float64
	Duration float64
	Text     string
}

// ParseStats counts what the segmenter saw and what it dropped.
type ParseStats struct {
	Blocks      int
	ShortBlocks int
	BadTiming   int
}

// Skipped returns the number of blocks that did not become segments.
func (s ParseStats) Skipped() int {
	return s.ShortBlocks + s.BadTiming
}

// ParseSRT splits a subtitle document into segments in document order.
// Blocks with fewer than three lines or an unparseable timing line are
// skipped and counted in the returned stats.
func ParseSRT(content string) ([]Segment, ParseStats) {
	var stats ParseStats
	normalized := strings.TrimSpace(strings.ReplaceAll(content, "\r\n", "\n"))
	if normalized == "" {
		return []Segment{}, stats
	}

	blocks := blockSeparator.Split(normalized, -1)
	segments := make([]Segment, 0, len(blocks))
	for _, block := range blocks {
		stats.Blocks++
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < minBlockLines {
			stats.ShortBlocks++
			continue
		}
		match := timingPattern.FindStringSubmatch(lines[1])
		if match == nil {
			stats.BadTiming++
			continue
		}
		start := ParseTimestamp(match[1])
		end := ParseTimestamp(match[2])
		segments = append(segments, Segment{
			Start:    start,
			End:      end,
			Duration: end - start,
			Text:     strings.TrimSpace(strings.Join(lines[2:], " ")),
		})
	}
	return segments, stats
}
