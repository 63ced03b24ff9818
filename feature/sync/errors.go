package sync

import "fmt"

// AuthError reports that a platform credential is invalid or expired and
// the adapter's single refresh attempt failed. Fatal to the run.
type AuthError struct {
	Platform string
	Err      error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s authentication failed: %v", e.Platform, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// FetchError reports that a source or sink listing call failed after the
// adapter-level retry was exhausted. Fatal to the run; there is nothing
// to reconcile without both sides.
type FetchError struct {
	Side string // "source" or "sink"
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s measurements failed: %v", e.Side, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// WriteError reports a single failed sink write. Non-fatal: it is logged,
// reduces the synced count, and the remaining writes proceed.
type WriteError struct {
	Measurement Measurement
	Err         error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing measurement %.2fkg at %s failed: %v",
		e.Measurement.Weight, e.Measurement.Timestamp.Format("2006-01-02 15:04:05"), e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
