package backend

import "errors"

// ErrNotFound is returned when the requested account, session, document or file does not exist.
var ErrNotFound = errors.New("resource not found")

// ErrConflict is returned when a resource with the same unique key already exists.
var ErrConflict = errors.New("resource already exists")

// ErrUnauthorized is returned for invalid credentials or when no valid session is active.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalid is returned when the backend rejects a request as malformed.
var ErrInvalid = errors.New("invalid request")
