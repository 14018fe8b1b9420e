// Package locking provides in-process keyed mutual exclusion. The booking
// path serializes writes per provider so two concurrent requests cannot
// both pass the availability check for the same slot.
package locking

import "sync"

// KeyedMutex serializes critical sections by string key. Locks for
// distinct keys do not contend with each other.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*entry)}
}

// Lock acquires the mutex for key, blocking until it is available.
func (k *KeyedMutex) Lock(key string) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the mutex for key. The entry is removed once no
// goroutine is waiting on it.
func (k *KeyedMutex) Unlock(key string) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		k.mu.Unlock()
		panic("locking: unlock of unheld key " + key)
	}
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}
