// Package logging provides structured logging for the dynval CLI using slog.
//
// Loggers write colourised text to a terminal or JSON for machines, can fan
// out to several handlers (for example stderr plus a --log-file), and mask
// attribute values whose keys look like credentials.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(verbosity),
//		Format: logging.FormatText,
//		Output: os.Stderr,
//	})
//	ctx = logging.NewContext(ctx, logger)
//
// Commands recover the logger with [FromContext], which falls back to
// [slog.Default].
//
// # Testing
//
// For tests, use [ForTest] to capture log output via the testing framework,
// or [NewDiscard] to suppress it.
package logging
