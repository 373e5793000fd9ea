package core

import "errors"

// Sentinel errors for the documentation workflow. Callers distinguish them
// with errors.Is; wrapped messages carry the operation context.
var (
	// ErrItemNotFound is returned when an item id does not resolve.
	ErrItemNotFound = errors.New("documentation item not found")

	// ErrQuestionNotFound is returned when an answer targets an unknown question id.
	ErrQuestionNotFound = errors.New("question not found")

	// ErrNotReady is returned when generation is attempted while a visible
	// critical question is unanswered, regardless of what the stored status claims.
	ErrNotReady = errors.New("item is not ready for generation")

	// ErrBusy is returned when a validate/generate/regenerate call overlaps an
	// in-flight one for the same item. Overlapping calls are rejected, not queued.
	ErrBusy = errors.New("another operation is in flight for this item")

	// ErrService is returned when a generation service round trip fails or
	// times out. Timeouts keep context.DeadlineExceeded in the wrap chain.
	ErrService = errors.New("generation service call failed")

	// ErrNoContent is returned when regeneration or a content edit targets an
	// item that has never been generated.
	ErrNoContent = errors.New("item has no generated content")
)
