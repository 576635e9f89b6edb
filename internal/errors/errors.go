package errors

import "errors"

// This package defines the sentinel errors shared by the state, service and API
// layers. Lower layers wrap them with fmt.Errorf("%w: ...") and the API layer
// maps them to HTTP status codes with errors.Is.

var (
	// ErrNotFound signifies that a requested resource could not be located.
	// This is typically mapped to a 404 Not Found HTTP status.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that input data failed validation, e.g. a
	// settings update with top_k outside 1..10.
	// This is typically mapped to a 400 Bad Request HTTP status.
	ErrValidation = errors.New("validation failed")

	// ErrConflict signifies that an operation conflicts with the current state.
	// This is typically mapped to a 409 Conflict HTTP status.
	ErrConflict = errors.New("resource conflict")

	// ErrInvalidReference signifies that an operation named a conversation id
	// that is not in the registry. The registry state is left untouched.
	ErrInvalidReference = errors.New("invalid conversation reference")

	// ErrBusy signifies that a chat request is already awaiting a reply.
	ErrBusy = errors.New("a message is already being processed")

	// ErrUpstream signifies that the remote backend failed or could not be
	// reached. This is typically mapped to a 502 Bad Gateway HTTP status.
	ErrUpstream = errors.New("backend unavailable")

	// ErrInternal signifies an unexpected error. It hides implementation
	// details from clients and maps to a 500 Internal Server Error.
	ErrInternal = errors.New("internal server error")
)
