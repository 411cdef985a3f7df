// Package logging assembles the structured slog loggers used across
// tracktidy.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes small attr aliases so callers never import log/slog
// directly for field construction. A no-op logger is provided for tests and
// wiring code that cannot fail.
package logging
