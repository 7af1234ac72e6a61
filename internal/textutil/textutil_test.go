package textutil

import "testing"

func TestTruncate(t *testing.T) {
	cases := []struct {
		value string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"neon  lights\nfade", 20, "neon lights fade"},
		{"abcdefghij", 4, "abcd..."},
		{"héllo wörld", 5, "héllo..."},
		{"anything", 0, ""},
	}
	for _, tc := range cases {
		if got := Truncate(tc.value, tc.limit); got != tc.want {
			t.Fatalf("Truncate(%q, %d) = %q, want %q", tc.value, tc.limit, got, tc.want)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	if got := SanitizeFileName(`  AC/DC: Live? `); got != "AC-DC- Live" {
		t.Fatalf("unexpected sanitized name %q", got)
	}
	if got := SanitizeFileName("   "); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}

func TestStemName(t *testing.T) {
	cases := map[string]string{
		"/music/Night Drive.srt": "Night Drive",
		"song.v2.srt":            "song.v2",
		`C:\lyrics\a|b.srt`:      "ab",
		".srt":                   ".srt",
		"/tmp/???.srt":           "output",
	}
	for path, want := range cases {
		if got := StemName(path, "output"); got != want {
			t.Fatalf("StemName(%q) = %q, want %q", path, got, want)
		}
	}
}
