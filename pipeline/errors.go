package pipeline

import "errors"

var (
	// ErrQueueClosed is returned by Advance when the sample queue's
	// consumer has disconnected; the producer loop exits cleanly on it.
	ErrQueueClosed = errors.New("sample queue closed")

	// ErrUnknownStatement aborts a build on an unrecognized top-level
	// statement kind.
	ErrUnknownStatement = errors.New("unknown statement")

	// ErrUnknownTarget aborts a build when a statement references an
	// undeclared playable.
	ErrUnknownTarget = errors.New("unknown target")
)
