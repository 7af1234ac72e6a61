package lyrics

import "testing"

func TestParseSRTExtractsSegmentsInOrder(t *testing.T) {
	doc := `1
00:00:01,000 --> 00:00:03,500
Hello world

2
00:00:03,500 --> 00:00:07,250
Second line
continues here

3
00:00:07,250 --> 00:00:09,000
  padded text  
`
	segments, stats := ParseSRT(doc)
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	if stats.Blocks != 3 || stats.Skipped() != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if segments[0].Start != 1 || segments[0].End != 3.5 {
		t.Fatalf("unexpected first segment timing: %+v", segments[0])
	}
	if segments[1].Text != "Second line continues here" {
		t.Fatalf("expected multi-line cue joined with spaces, got %q", segments[1].Text)
	}
	if segments[2].Text != "padded text" {
		t.Fatalf("expected trimmed cue text, got %q", segments[2].Text)
	}
	for i, seg := range segments {
		if seg.Duration != seg.End-seg.Start {
			t.Fatalf("segment %d duration %v != end-start %v", i, seg.Duration, seg.End-seg.Start)
		}
	}
}

func TestParseSRTSkipsMalformedBlocks(t *testing.T) {
	doc := "1\n00:00:01,000 --> 00:00:02,000\n\n" +
		"2\nnot a timing line\nSome text\n\n" +
		"3\n00:00:04,000 --> 00:00:05,000\nKept\n"
	segments, stats := ParseSRT(doc)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d (%+v)", len(segments), segments)
	}
	if segments[0].Text != "Kept" {
		t.Fatalf("unexpected surviving segment %+v", segments[0])
	}
	if stats.ShortBlocks != 1 || stats.BadTiming != 1 || stats.Skipped() != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestParseSRTHandlesWindowsLineEndingsAndBlankRuns(t *testing.T) {
	doc := "1\r\n00:00:01,000 --> 00:00:02,000\r\nFirst\r\n\r\n   \r\n2\r\n00:00:02,000 --> 00:00:04,000\r\nSecond\r\n"
	segments, _ := ParseSRT(doc)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[1].Text != "Second" || segments[1].Duration != 2 {
		t.Fatalf("unexpected second segment %+v", segments[1])
	}
}

func TestParseSRTMalformedTimestampDegradesToZero(t *testing.T) {
	doc := "1\n00:00:01,000 --> 00:00:0x,000\nOdd end\n"
	segments, _ := ParseSRT(doc)
	if len(segments) != 1 {
		t.Fatalf("expected the block to parse, got %d segments", len(segments))
	}
	// The end timestamp is truncated to "00:00:0" which degrades to zero.
	if segments[0].End != 0 || segments[0].Duration != -1 {
		t.Fatalf("expected zero end offset, got %+v", segments[0])
	}
}

func TestParseSRTEmptyDocument(t *testing.T) {
	for _, doc := range []string{"", "   \n\n  \n"} {
		segments, stats := ParseSRT(doc)
		if segments == nil || len(segments) != 0 {
			t.Fatalf("expected empty non-nil slice for %q, got %#v", doc, segments)
		}
		if stats.Blocks != 0 {
			t.Fatalf("expected zero blocks for %q, got %+v", doc, stats)
		}
	}
}
