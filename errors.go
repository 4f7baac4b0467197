package fracdex

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidKey      = errors.New("invalid order key")
	ErrInvalidRange    = errors.New("invalid key range")
	ErrCapacity        = errors.New("key capacity exceeded")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrRangeExhausted  = errors.New("key range exhausted")
	ErrScopeMismatch   = errors.New("ranks belong to different scopes")
)

// InvalidKeyError reports a malformed position key.
type InvalidKeyError struct {
	Key  string
	head bool
}

func (e *InvalidKeyError) Error() string {
	switch {
	case e.head:
		return "invalid order key head: " + e.Key
	case e.Key == "":
		return "invalid order key"
	}
	return "invalid order key: " + e.Key
}

func (e *InvalidKeyError) Unwrap() error { return ErrInvalidKey }

// InvalidRangeError reports bounds that are not strictly ascending. It is a
// caller bug: the bounds must be re-derived from current state, never
// swapped or clamped.
type InvalidRangeError struct {
	Before string
	After  string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("%s >= %s", e.Before, e.After)
}

func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }

// CapacityError reports a bulk request the allocator refuses to serve.
// Split the batch or widen the bounds.
type CapacityError struct {
	Requested int
	Limit     int
	Reason    string
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("cannot allocate %d keys: %s (limit %d)", e.Requested, e.Reason, e.Limit)
}

func (e *CapacityError) Unwrap() error { return ErrCapacity }

// IndexError reports a target slot outside [0, Len].
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d]", e.Index, e.Len)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }
