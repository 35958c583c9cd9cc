// Package logging assembles structured slog loggers for storevisit.
//
// Console output goes to stderr in a readable multi-line form (or JSON when
// configured); when a log directory is set, every record is also appended to
// a JSON log file at debug level. Context helpers tag lines with session and
// invocation identifiers, and NewNop serves tests and wiring code that cannot
// fail.
package logging
