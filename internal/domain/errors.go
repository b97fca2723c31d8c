package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, activity date outside the
// trip's date window, end date before start date).
// Handlers map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when the authenticated user is not the owner of
// the trip a request targets. Guards run before any mutation, so a forbidden
// request never changes state.
// Handlers map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrPersistence is returned by repo functions when a storage write fails.
// The paired entity mutation must not be reported as committed; the caller
// sees a failure, never a false success.
// Handlers map this to HTTP 502 with a short message and no internal detail.
var ErrPersistence = errors.New("persistence error")
