package e

import "fmt"

// Wrap prefixes err with msg. It returns nil when err is nil so it can be
// used directly in return statements.
func Wrap(msg string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapIfErr is Wrap for deferred calls that assign to a named error result.
func WrapIfErr(msg string, err *error) {
	if err != nil && *err != nil {
		*err = Wrap(msg, *err)
	}
}
