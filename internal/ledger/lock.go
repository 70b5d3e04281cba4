package ledger

import "sync"

// groupLocks hands out one mutex per group id. Entries are dropped once no
// goroutine holds or waits on them.
type groupLocks struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newGroupLocks() *groupLocks {
	return &groupLocks{locks: make(map[string]*refMutex)}
}

// lock blocks until the group's mutex is held and returns its release func.
func (l *groupLocks) lock(groupID string) (unlock func()) {
	l.mu.Lock()
	m, ok := l.locks[groupID]
	if !ok {
		m = &refMutex{}
		l.locks[groupID] = m
	}
	m.refs++
	l.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		l.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(l.locks, groupID)
		}
		l.mu.Unlock()
	}
}
