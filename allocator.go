package fracdex

import (
	"slices"
)

const (
	// DefaultMaxKeyLength bounds the length of keys produced by GenerateMany.
	DefaultMaxKeyLength = 256
	// DefaultMaxBatch bounds the number of keys one GenerateMany call returns.
	DefaultMaxBatch = 10000
)

// Allocator mints position keys. It holds only configuration, so one value
// can be shared by any number of goroutines as long as its Jitter can.
type Allocator struct {
	jitter       Jitter
	spread       int
	maxKeyLength int
	maxBatch     int
}

type Option func(*Allocator)

// WithJitter randomizes interior digits up to spread positions away from the
// midpoint.
func WithJitter(j Jitter, spread int) Option {
	return func(al *Allocator) {
		al.jitter = j
		al.spread = spread
	}
}

func WithMaxKeyLength(n int) Option {
	return func(al *Allocator) { al.maxKeyLength = n }
}

func WithMaxBatch(n int) Option {
	return func(al *Allocator) { al.maxBatch = n }
}

func New(opts ...Option) *Allocator {
	al := &Allocator{
		maxKeyLength: DefaultMaxKeyLength,
		maxBatch:     DefaultMaxBatch,
	}
	for _, opt := range opts {
		opt(al)
	}
	return al
}

var defaultAllocator = New()

// KeyBetween returns a key that sorts lexicographically between a and b.
// Either a or b can be empty strings. If a is empty it indicates smallest key,
// If b is empty it indicates largest key.
// b must be empty string or > a.
func KeyBetween(a, b string) (string, error) {
	return defaultAllocator.GenerateOne(a, b)
}

// NKeysBetween returns n keys between a and b that sort lexicographically.
func NKeysBetween(a, b string, n uint) ([]string, error) {
	return defaultAllocator.GenerateMany(a, b, int(n))
}

func (al *Allocator) picker() picker {
	return picker{jitter: al.jitter, spread: al.spread}
}

// GenerateOne returns a key k with before < k < after. An empty before means
// the head of the list and an empty after the tail; both empty yields the
// canonical first key "a0".
func (al *Allocator) GenerateOne(before, after string) (string, error) {
	return keyBetween(before, after, al.picker())
}

// GenerateMany returns n strictly increasing keys, all between before and
// after. It returns every key or an error, never a partial result.
func (al *Allocator) GenerateMany(before, after string, n int) ([]string, error) {
	if n < 0 {
		return nil, &CapacityError{Requested: n, Limit: al.maxBatch, Reason: "negative count"}
	}
	if al.maxBatch > 0 && n > al.maxBatch {
		return nil, &CapacityError{Requested: n, Limit: al.maxBatch, Reason: "batch too large"}
	}
	// Surface bad bounds even when nothing is requested.
	if _, err := al.GenerateOne(before, after); err != nil {
		return nil, err
	}

	keys := make([]string, 0, n)
	keys, err := al.appendKeys(keys, before, after, n)
	if err != nil {
		return nil, err
	}
	if al.maxKeyLength > 0 {
		for _, k := range keys {
			if len(k) > al.maxKeyLength {
				return nil, &CapacityError{Requested: n, Limit: al.maxKeyLength, Reason: "key length"}
			}
		}
	}
	return keys, nil
}

// appendKeys steps the integer part toward an open end and splits bounded
// ranges at their midpoint, so key length grows logarithmically with n.
func (al *Allocator) appendKeys(dst []string, a, b string, n int) ([]string, error) {
	switch {
	case n == 0:
		return dst, nil
	case n == 1:
		c, err := al.GenerateOne(a, b)
		if err != nil {
			return nil, err
		}
		return append(dst, c), nil
	case b == "":
		c := a
		for range n {
			next, err := al.GenerateOne(c, "")
			if err != nil {
				return nil, err
			}
			dst = append(dst, next)
			c = next
		}
		return dst, nil
	case a == "":
		start := len(dst)
		c := b
		for range n {
			prev, err := al.GenerateOne("", c)
			if err != nil {
				return nil, err
			}
			dst = append(dst, prev)
			c = prev
		}
		slices.Reverse(dst[start:])
		return dst, nil
	}

	mid := n / 2
	c, err := al.GenerateOne(a, b)
	if err != nil {
		return nil, err
	}
	dst, err = al.appendKeys(dst, a, c, mid)
	if err != nil {
		return nil, err
	}
	dst = append(dst, c)
	return al.appendKeys(dst, c, b, n-mid-1)
}

// Bounds is the pair of neighbouring keys around an insertion slot. An empty
// field means there is no neighbour on that side.
type Bounds struct {
	Before string
	After  string
}

// BoundsForIndex returns the neighbours of slot target in a sibling set.
// Slot 0 is before every item and slot len(positions) after every item.
// The positions are sorted bytewise on a copy, so caller order does not
// matter. Duplicate neighbours are returned as found; generating a key for
// them fails with an InvalidRangeError.
func BoundsForIndex(positions []string, target int) (Bounds, error) {
	if target < 0 || target > len(positions) {
		return Bounds{}, &IndexError{Index: target, Len: len(positions)}
	}
	for _, p := range positions {
		if p == "" {
			return Bounds{}, &InvalidKeyError{}
		}
	}
	sorted := slices.Clone(positions)
	slices.Sort(sorted)

	var b Bounds
	if target > 0 {
		b.Before = sorted[target-1]
	}
	if target < len(sorted) {
		b.After = sorted[target]
	}
	return b, nil
}

// ComputeMoveTarget returns a key that lands an item at slot target.
// positions must not include the item being moved.
func (al *Allocator) ComputeMoveTarget(positions []string, target int) (string, error) {
	b, err := BoundsForIndex(positions, target)
	if err != nil {
		return "", err
	}
	return al.GenerateOne(b.Before, b.After)
}

// Positioned is anything ordered by a position key.
type Positioned interface {
	SortKey() string
}

// Positions collects the keys of items, in the order given.
func Positions[T Positioned](items []T) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.SortKey()
	}
	return out
}
