// Package errors provides error handling conventions for the dynval CLI.
//
// This package defines sentinel errors for common failure conditions,
// an ExitError type for CLI exit code handling, and exit code constants
// following standard Unix conventions.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [errors.Is]:
//
//	if errors.Is(err, dverrors.ErrUnknownValidator) {
//	    // suggest `dynval catalog list`
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): Invalid records, bad input, or bad configuration
//   - ExitSystem (2): I/O and other environment failures
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion. The root command unwraps it with [errors.As] to choose the
// process exit status:
//
//	err := dverrors.NewUserError(dverrors.ErrInvalidConfig, "Check your config file")
//	var exitErr *dverrors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
