package domain

import (
	"errors"
	"fmt"
)

// ErrUnauthorized marks credential failures, distinguishable from transient
// errors. An unauthorized source download aborts the whole run.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotFound marks a missing remote resource. For a destination library it
// is a configuration error and fatal to the run.
var ErrNotFound = errors.New("not found")

// ClassificationError rejects an extension outside the lookup table. Unknown
// extensions are never silently routed to a library.
type ClassificationError struct {
	Extension string
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("unknown file extension %q", e.Extension)
}

// SizeMismatchError reports a download that ended with fewer bytes than the
// source declared.
type SizeMismatchError struct {
	Path     string
	Declared int64
	Written  int64
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("incomplete download %s: wrote %d of %d declared bytes", e.Path, e.Written, e.Declared)
}
