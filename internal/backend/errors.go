package backend

import "errors"

// Errors returned by backend transports.
var (
	// ErrClosed is returned by Complete after the backend shut down.
	ErrClosed = errors.New("backend closed")

	// ErrTruncatedTuple indicates a candidate row or post-completion
	// tuple with too few fields for the fixed wire shape.
	ErrTruncatedTuple = errors.New("candidate tuple truncated")
)
