package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Loaders, stores and sinks return
// these (optionally wrapped) so callers can tell a missing resource from a
// broken one without string matching:
//   - ErrNotFound: file or record does not exist
//   - ErrUnavailable: sink temporarily refuses writes
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
