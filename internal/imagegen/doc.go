// Package imagegen turns a prompts document into one image file per scene.
//
// A Provider renders a single prompt. NewProvider selects one of the remote
// services (openai, grok, gemini) or the offline placeholder renderer from
// configuration. Runner walks the document in order, skipping scenes whose
// file already exists, pacing remote requests with a rate limiter, and
// recording per-scene outcomes. A failed scene is logged and counted; it
// never stops the run.
package imagegen
