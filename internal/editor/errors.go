package editor

import "errors"

// Editing and submission errors. All of them are recoverable: the draft stays
// in an interactive state and the caller decides user-visible messaging.
var (
	// ErrUnknownRow is returned when a mutation targets a row id that does
	// not exist in the draft. Row removal is the exception and stays silent.
	ErrUnknownRow = errors.New("row not found")

	// ErrInvalidReference is returned when a selection points at an item or
	// client that does not resolve in the reference data cache.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrInvalidQuantity is returned when a quantity below 1 is set.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")

	// ErrMissingClient is returned by Submit when no client is selected.
	ErrMissingClient = errors.New("no client selected")

	// ErrEmptyDraft is returned by Submit when the draft has no rows.
	ErrEmptyDraft = errors.New("draft has no rows")

	// ErrIncompleteRows is returned by Submit when a row lacks a valid
	// selection or quantity. The wrapping error names the first offender.
	ErrIncompleteRows = errors.New("draft has incomplete rows")

	// ErrAlreadySubmitting is returned when Submit is called while a
	// previous submission is still in flight.
	ErrAlreadySubmitting = errors.New("submission already in progress")

	// ErrSubmitFailed wraps transport or backend failures during Submit.
	// The draft reverts to editing with all data intact.
	ErrSubmitFailed = errors.New("submission failed")
)
