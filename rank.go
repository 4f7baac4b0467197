package fracdex

import (
	"fmt"
	"strings"
)

// Rank is a position key qualified by the sibling set it belongs to. Keys
// only order items that share a parent, so ranks from different scopes do
// not compare.
type Rank struct {
	scope string
	key   string
}

func NewRank(scope, key string) Rank {
	return Rank{scope: scope, key: key}
}

// ParseRank reads the "scope|key" form produced by String.
func ParseRank(s string) (Rank, error) {
	i := strings.LastIndexByte(s, '|')
	if i < 0 {
		return Rank{}, fmt.Errorf("parse rank %q: missing separator", s)
	}
	key := s[i+1:]
	if err := Validate(key); err != nil {
		return Rank{}, fmt.Errorf("parse rank %q: %w", s, err)
	}
	return Rank{scope: s[:i], key: key}, nil
}

// String renders the rank as "scope|key", e.g. "col-1|a1".
func (rk Rank) String() string {
	return rk.scope + "|" + rk.key
}

func (rk Rank) Scope() string { return rk.scope }

func (rk Rank) Key() string { return rk.key }

// Compare orders two ranks of the same scope by key.
func (rk Rank) Compare(other Rank) (int, error) {
	if rk.scope != other.scope {
		return 0, fmt.Errorf("compare %s with %s: %w", rk, other, ErrScopeMismatch)
	}
	return strings.Compare(rk.key, other.key), nil
}
