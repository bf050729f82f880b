package data

import "errors"

// ErrTitleNotFound means the upstream source has no structure for the
// requested title and date. This is a caller error, distinct from a title
// that exists but yields no sections.
var ErrTitleNotFound = errors.New("title not found")

// ErrEmptyTitle means a walk completed but produced zero section leaves.
// A fully reserved title is legitimate, so callers treat this as a distinct
// non-fatal outcome rather than a failure.
var ErrEmptyTitle = errors.New("title has no sections")
