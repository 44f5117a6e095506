package memory

import "sync"

// OwnerLock hands out one mutex per owner so that balance-affecting writes
// for the same owner run one at a time. Mutexes are never evicted; the map
// lives as long as the in-memory stores it guards.
type OwnerLock struct {
	mu    sync.RWMutex
	locks map[string]*sync.Mutex
}

// NewOwnerLock creates a new OwnerLock.
func NewOwnerLock() *OwnerLock {
	return &OwnerLock{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the owner's mutex and returns its release func.
func (l *OwnerLock) Lock(ownerID string) func() {
	m := l.get(ownerID)
	m.Lock()
	return m.Unlock
}

func (l *OwnerLock) get(ownerID string) *sync.Mutex {
	l.mu.RLock()
	m, ok := l.locks[ownerID]
	l.mu.RUnlock()
	if ok {
		return m
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if m, ok = l.locks[ownerID]; ok {
		return m
	}
	m = &sync.Mutex{}
	l.locks[ownerID] = m
	return m
}
