package services

import "errors"

// Error taxonomy shared by the store, the aggregation engine and the HTTP
// surface. Callers match with errors.Is.
var (
	// ErrInvalidArgument is returned for bad caller input such as
	// non-positive window sizes.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when a record id does not exist, including a
	// second delete of an already-deleted id.
	ErrNotFound = errors.New("meal record not found")

	// ErrEmptyDraft is returned when a commit carries zero items. A
	// zero-item record is never created.
	ErrEmptyDraft = errors.New("draft has no items")

	// ErrStoreUnavailable wraps underlying database I/O failures.
	ErrStoreUnavailable = errors.New("record store unavailable")

	// ErrAnalysisFailed is returned when the detection pipeline cannot
	// produce an estimate for an image.
	ErrAnalysisFailed = errors.New("meal analysis failed")

	// ErrConflict is reserved for a future optimistic-concurrency mode.
	// Nothing returns it today: record writes are last-write-wins.
	ErrConflict = errors.New("record version conflict")
)
