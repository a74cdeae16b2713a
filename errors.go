package flashsale

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a key exists in neither the cache nor the
// backing store (or, for the logical-expiration strategy, that the key was
// never pre-warmed). It is a non-fatal empty result, not a failure.
var ErrNotFound = errors.New("flashsale: not found")

// RebuildError carries the loader failure from a background rebuild.
// It is reported through Hooks and the Logger, never to the reader that
// triggered the rebuild (that reader already got the stale value).
type RebuildError struct {
	Key string
	Err error
}

func (e *RebuildError) Error() string {
	return fmt.Sprintf("rebuild %q: %v", e.Key, e.Err)
}

func (e *RebuildError) Unwrap() error { return e.Err }
