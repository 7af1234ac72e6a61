package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteSizedFile fills path with size bytes of a repeating pattern. A size
// <= 0 writes a single byte.
func WriteSizedFile(t testing.TB, path string, size int64) string {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = 0x42
	}
	return WriteFile(t, path, string(buf))
}

// SampleSRT is a three-cue lyric file covering the common prompt rules.
const SampleSRT = `1
00:00:01,000 --> 00:00:03,500
Hello world

2
00:00:03,500 --> 00:00:06,000
(oohs) [Bridge]

3
00:00:06,000 --> 00:00:09,250
City lights are calling me home
`
