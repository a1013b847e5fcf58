package domain

import "errors"

// Error taxonomy shared by services and transport. Services wrap these with
// context; transport matches them with errors.Is to pick the HTTP status.
var (
	// ErrNotFound means a referenced resource (product, order, user) does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden means the caller is authenticated but not permitted.
	ErrForbidden = errors.New("access denied")

	// ErrUnauthorized means there is no valid authenticated principal.
	ErrUnauthorized = errors.New("authentication required")

	// ErrUnprocessable means the request is structurally invalid
	// (empty item list, short name, non-positive price, ...).
	ErrUnprocessable = errors.New("unprocessable request")

	// ErrInvalidTransition means the requested order status change is not
	// allowed from the current status.
	ErrInvalidTransition = errors.New("invalid status transition")
)
