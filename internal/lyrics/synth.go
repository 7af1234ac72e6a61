package lyrics

// Result is the output of a full prompt synthesis pass.
type Result struct {
	Records []PromptRecord
	Style   StyleElements
	Stats   ParseStats
}

// TotalDuration returns the end time of the final scene, or 0 when empty.
func (r Result) TotalDuration() float64 {
	if len(r.Records) == 0 {
		return 0
	}
	return r.Records[len(r.Records)-1].End
}

// Synthesize parses srt, extracts style elements from styleText and builds
// one prompt record per segment.
func Synthesize(srt, styleText, baseStyle string) Result {
	segments, stats := ParseSRT(srt)
	style := ExtractStyle(styleText)
	records := make([]PromptRecord, 0, len(segments))
	for i, seg := range segments {
		records = append(records, NewPromptRecord(seg, style, baseStyle, i+1))
	}
	return Result{Records: records, Style: style, Stats: stats}
}
