// Package siblinglock serializes writes to one sibling set (the columns of a
// board or the tasks of a column) so that concurrent inserts never derive
// their keys from the same stale neighbours.
package siblinglock

import (
	"context"
	"errors"
	"sync"
)

// ErrLockTimeout is returned when the context ends before the lock is won.
var ErrLockTimeout = errors.New("timed out acquiring sibling-set lock")

// Locker grants exclusive access to a scope. The returned unlock func must be
// called exactly once.
type Locker interface {
	Lock(ctx context.Context, scope string) (unlock func(), error)
}

// Local is an in-process Locker. The zero value is ready to use.
type Local struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

var _ Locker = (*Local)(nil)

func NewLocal() *Local {
	return &Local{}
}

func (l *Local) Lock(ctx context.Context, scope string) (func(), error) {
	l.mu.Lock()
	if l.slots == nil {
		l.slots = make(map[string]*slot)
	}
	s, ok := l.slots[scope]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[scope] = s
	}
	s.refs++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(scope, s)
		return nil, errors.Join(ErrLockTimeout, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.release(scope, s)
		})
	}, nil
}

// release drops a reference and forgets idle scopes.
func (l *Local) release(scope string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, scope)
	}
}
