package services

import (
	"sync"

	"github.com/google/uuid"
)

// tripLocks serializes each trip's commit-then-publish sequence. The DB
// row lock alone is not enough: it is released at commit, so a mutator
// that commits first could still publish after a later one. Holding this
// lock from before the transaction until after the publish keeps the
// subscriber delivery order equal to the commit order.
var tripLocks = newKeyedLock()

type keyedLock struct {
	mu   sync.Mutex
	held map[uuid.UUID]*lockRef
}

type lockRef struct {
	sync.Mutex
	refs int
}

func newKeyedLock() *keyedLock {
	return &keyedLock{held: make(map[uuid.UUID]*lockRef)}
}

// Acquire blocks until the key's lock is free and returns its release
// func. Entries are removed once the last holder or waiter releases.
func (k *keyedLock) Acquire(id uuid.UUID) func() {
	k.mu.Lock()
	ref, ok := k.held[id]
	if !ok {
		ref = &lockRef{}
		k.held[id] = ref
	}
	ref.refs++
	k.mu.Unlock()

	ref.Lock()
	return func() {
		ref.Unlock()
		k.mu.Lock()
		ref.refs--
		if ref.refs == 0 {
			delete(k.held, id)
		}
		k.mu.Unlock()
	}
}
