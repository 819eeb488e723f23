// Package cherr provides the error-wrapping helpers chariot's packages use
// in place of a sentinel-error library: every package defines its own Err*
// sentinel values and wraps an underlying cause around one with [Wrap] or
// [Wrapf], so callers can still test with errors.Is(err, ErrX) while the
// original cause is preserved for logging.
package cherr

import "fmt"

// Wrap returns an error that wraps both sentinel and cause, satisfying
// errors.Is for both.
func Wrap(sentinel, cause error) error {
	if cause == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}

// Wrapf is like [Wrap] but formats an additional message between the
// sentinel and the rest of the error chain. format may itself contain a
// %w verb (e.g. to also wrap an underlying cause alongside sentinel).
func Wrapf(sentinel error, format string, args ...any) error {
	allArgs := make([]any, 0, len(args)+1)
	allArgs = append(allArgs, sentinel)
	allArgs = append(allArgs, args...)
	return fmt.Errorf("%w: "+format, allArgs...)
}
