package backend

import "errors"

var (
	// ErrNotFound is returned when the backend has no such booking, transaction or battery.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when the backend answers 409. Operations that can
	// be repeated re-read the resource and only report success when it already
	// is in the requested state.
	ErrConflict = errors.New("already done")

	// ErrRejected is returned when the backend refuses a request as invalid.
	ErrRejected = errors.New("rejected by backend")

	// ErrTransient is returned when the backend could not be reached.
	ErrTransient = errors.New("backend unreachable")

	// ErrFatal is returned for unexpected backend failures and malformed responses.
	ErrFatal = errors.New("unexpected backend response")
)
