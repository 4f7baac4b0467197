package fracdex

import "math/rand"

// Jitter chooses digits when a key has room to vary. Two writers that
// compute a key for the same neighbours at the same moment would otherwise
// produce the same key.
type Jitter interface {
	// IntnRange returns an integer in [min, max], inclusive.
	IntnRange(min, max int) int
}

// NoJitter always chooses the upper middle of the range.
type NoJitter struct{}

func (NoJitter) IntnRange(min, max int) int {
	if max < min {
		return min
	}
	return (min + max + 1) / 2
}

// RandJitter draws uniformly. A nil R uses the package-level source of
// math/rand, which is safe for concurrent use; a non-nil R is not.
type RandJitter struct{ R *rand.Rand }

func (j RandJitter) IntnRange(min, max int) int {
	if max <= min {
		return min
	}
	if j.R == nil {
		return min + rand.Intn(max-min+1)
	}
	return min + j.R.Intn(max-min+1)
}

// picker selects the interior digit used by midpoint.
type picker struct {
	jitter Jitter
	spread int
}

// pick returns a digit index in [lo, hi]. Without jitter it is the rounded
// midpoint; with jitter it is drawn from at most spread digits either side.
func (p picker) pick(lo, hi int) int {
	mid := (lo + hi + 1) / 2
	if p.jitter == nil || p.spread <= 0 {
		return mid
	}
	l, h := max(lo, mid-p.spread), min(hi, mid+p.spread)
	if h <= l {
		return l
	}
	d := p.jitter.IntnRange(l, h)
	return min(max(d, l), h)
}
