// Package lyrics turns a timed lyric subtitle document into image prompts.
//
// It owns the deterministic middle of the pipeline: SRT timestamps are
// parsed leniently, cues are segmented in document order, a free-text song
// style description is reduced to a handful of visual keywords and a mood,
// and every cue is rewritten into one generation prompt with a stable
// scene filename.
//
// Nothing in this package performs I/O or returns an error. Malformed
// timestamps degrade to zero and malformed blocks are skipped and counted in
// ParseStats, so callers decide whether an empty result is fatal.
package lyrics
