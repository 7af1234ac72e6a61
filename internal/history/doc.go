// Package history keeps a SQLite ledger of lyricreel runs.
//
// Every prompts, images, and assemble invocation is recorded as a run row
// (identifier, kind, input, timestamps, final status, and scene counts).
// Image runs additionally record one row per scene with the outcome reported
// by the generator, so a later `lyricreel history` can show which scenes
// failed and why. The database uses WAL journaling and a busy timeout so a
// run and a history query may overlap; migrations are embedded and applied
// in a single transaction on open.
package history
