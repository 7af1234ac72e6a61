// Package manifest reads and writes the prompts document that links the
// prompt, image, and assembly stages.
//
// The document is plain JSON: a metadata block describing the source lyric
// file and the extracted style, followed by one entry per scene. Later stages
// only need the scene list, but the metadata is kept so a document can be
// traced back to the inputs that produced it.
package manifest
