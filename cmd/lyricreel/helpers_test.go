package main

import (
	"strings"
	"testing"
)

func TestFormatBytes(t *testing.T) {
	cases := map[int64]string{
		512:             "512 B",
		2048:            "2.0 KiB",
		5 * 1024 * 1024: "5.0 MiB",
	}
	for in, want := range cases {
		if got := formatBytes(in); got != want {
			t.Fatalf("formatBytes(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	if got := formatSeconds(0); got != "unknown" {
		t.Fatalf("expected unknown, got %q", got)
	}
	if got := formatSeconds(125.4); got != "2m5s" {
		t.Fatalf("expected 2m5s, got %q", got)
	}
}

func TestRenderTablePadsRows(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"only"}}, []columnAlignment{alignRight})
	if !strings.Contains(out, "only") || !strings.Contains(out, "A") {
		t.Fatalf("unexpected table:\n%s", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty table without headers")
	}
}

func TestFirstNonEmptyAndArgAt(t *testing.T) {
	if got := firstNonEmpty("", "  ", " b ", "c"); got != "b" {
		t.Fatalf("expected b, got %q", got)
	}
	if argAt([]string{"a"}, 3) != "" || argAt([]string{"a", " x "}, 1) != "x" {
		t.Fatal("unexpected argAt result")
	}
}
