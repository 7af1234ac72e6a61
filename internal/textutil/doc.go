// Package textutil provides small text helpers shared by the CLI reports:
// rune-safe truncation for table and log output, and filename sanitization
// for names derived from user input.
package textutil
