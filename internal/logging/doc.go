// Package logging builds the application's slog loggers. Two output
// formats are supported: a compact console format for interactive use and
// JSON, optionally mirrored into a log file under the configured log
// directory.
package logging
