// Package services defines shared utilities consumed by the lyricreel stages
// and their external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, stage names, and scene
//     sequence numbers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent run outcomes and process exit codes.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across prompts, images, and assembly.
package services
