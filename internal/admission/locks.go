package admission

import (
	"context"
	"sync"
	"time"
)

// eventLocks serializes admissions per event id. Requests for different
// events never contend; requests for the same event queue on a one-slot
// channel so the check-then-insert sequence cannot interleave.
type eventLocks struct {
	mu      sync.Mutex
	entries map[uint]*lockEntry
}

type lockEntry struct {
	slot chan struct{}
	refs int
}

func newEventLocks() *eventLocks {
	return &eventLocks{entries: make(map[uint]*lockEntry)}
}

// acquire blocks until the lock for eventID is held, the timeout elapses, or
// ctx is cancelled. On success the returned release func must be called
// exactly once.
func (l *eventLocks) acquire(ctx context.Context, eventID uint, timeout time.Duration) (release func(), err error) {
	l.mu.Lock()
	e := l.entries[eventID]
	if e == nil {
		e = &lockEntry{slot: make(chan struct{}, 1)}
		l.entries[eventID] = e
	}
	e.refs++
	l.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case e.slot <- struct{}{}:
		return func() {
			<-e.slot
			l.put(eventID)
		}, nil
	case <-timer.C:
		l.put(eventID)
		return nil, ErrBusy
	case <-ctx.Done():
		l.put(eventID)
		return nil, ctx.Err()
	}
}

// put drops one reference and frees the entry once nobody waits on it, so the
// map does not grow with every event ever admitted.
func (l *eventLocks) put(eventID uint) {
	l.mu.Lock()
	if e := l.entries[eventID]; e != nil {
		e.refs--
		if e.refs == 0 {
			delete(l.entries, eventID)
		}
	}
	l.mu.Unlock()
}
