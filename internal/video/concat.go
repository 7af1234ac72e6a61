package video

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"lyricreel/internal/fileutil"
	"lyricreel/internal/lyrics"
)

// ConcatSummary reports what a concat script contains.
type ConcatSummary struct {
	Entries  int
	Missing  []string
	LastFile string
}

// Missing lists the scene filenames with no image in imagesDir.
func Missing(scenes []lyrics.PromptRecord, imagesDir string) []string {
	var missing []string
	for _, scene := range scenes {
		if !fileutil.FileExists(filepath.Join(imagesDir, scene.Filename)) {
			missing = append(missing, scene.Filename)
		}
	}
	return missing
}

// WriteConcatFile writes an ffmpeg concat demuxer script. Each scene whose
// image exists contributes a file line and a duration line; missing images
// are skipped. The last written image is repeated without a duration because
// the demuxer ignores the duration of the final entry.
func WriteConcatFile(w io.Writer, scenes []lyrics.PromptRecord, imagesDir string) (ConcatSummary, error) {
	var summary ConcatSummary
	buf := bufio.NewWriter(w)
	for _, scene := range scenes {
		imagePath := filepath.Join(imagesDir, scene.Filename)
		if !fileutil.FileExists(imagePath) {
			summary.Missing = append(summary.Missing, scene.Filename)
			continue
		}
		abs, err := filepath.Abs(imagePath)
		if err != nil {
			return summary, fmt.Errorf("resolve %s: %w", imagePath, err)
		}
		fmt.Fprintf(buf, "file %s\n", quoteConcatPath(abs))
		fmt.Fprintf(buf, "duration %s\n", strconv.FormatFloat(scene.Duration, 'f', -1, 64))
		summary.Entries++
		summary.LastFile = abs
	}
	if summary.LastFile != "" {
		fmt.Fprintf(buf, "file %s\n", quoteConcatPath(summary.LastFile))
	}
	if err := buf.Flush(); err != nil {
		return summary, fmt.Errorf("write concat file: %w", err)
	}
	return summary, nil
}

// quoteConcatPath single-quotes a path for the concat demuxer.
func quoteConcatPath(path string) string {
	return "'" + strings.ReplaceAll(path, "'", `'\''`) + "'"
}
