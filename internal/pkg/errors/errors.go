package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")

	// Flag ledger preconditions. These are reported to callers unchanged so
	// the HTTP layer can map each to a distinct failure code.
	ErrFlagNotFound  = errors.New("flag not found")
	ErrFlagUndone    = errors.New("flag already undone")
	ErrFlagFinalized = errors.New("flag already finalized")
	ErrFlagNotMerge  = errors.New("flag is not a merge action")

	ErrPersonNotFound    = errors.New("person not found")
	ErrHouseholdNotFound = errors.New("household not found")
	ErrMemberNotFound    = errors.New("household member not found")
)
