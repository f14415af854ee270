package domain

import "errors"

// ErrNotFound is returned by store and service functions when the requested
// resource does not exist in the collection.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by store and service functions when input fails
// business rule validation (e.g. missing required field, wrong role).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrAlreadyClaimed is returned when a claim is attempted on a donation that
// has already been claimed. The first claim always wins; claimed fields are
// never overwritten. Handlers should map this to HTTP 409 Conflict.
var ErrAlreadyClaimed = errors.New("already claimed")

// ErrStorageFull is returned when persisting the collection fails for lack of
// space. The in-memory mutation is retained; the caller is warned that the
// persisted copy may be stale. Handlers should map this to HTTP 507.
var ErrStorageFull = errors.New("storage full")
