package kanban

import "errors"

// Lookup and validation errors.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrInvalidID     = errors.New("invalid entity ID")
	ErrInvalidName   = errors.New("invalid name")
	ErrInvalidAuthor = errors.New("author must not be empty")
	ErrEmptyComment  = errors.New("comment body must not be empty")
)

// Ordering errors. Both mean the caller's view of the sibling set is stale:
// re-read the current order and compute a new position instead of retrying
// with the same one.
var (
	ErrConflict          = errors.New("position changed concurrently")
	ErrDuplicatePosition = errors.New("position already taken by a sibling")
)
