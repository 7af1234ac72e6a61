// Package pipeline drives the prompt stage: it reads the lyric and style
// inputs from disk, runs lyric synthesis, writes the prompts document, and
// produces the human-readable report printed by the CLI.
package pipeline
