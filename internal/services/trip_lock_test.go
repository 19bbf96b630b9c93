package services

import (
	"sync"
	"testing"
	"time"

	"github.com/globetrotterhq/globetrotter-backend/internal/realtime"
	"github.com/google/uuid"
)

func TestKeyedLockMutualExclusion(t *testing.T) {
	locks := newKeyedLock()
	tripID := uuid.New()

	var n int
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := locks.Acquire(tripID)
			defer release()
			v := n
			time.Sleep(time.Microsecond)
			n = v + 1
		}()
	}
	wg.Wait()

	if n != 50 {
		t.Errorf("n = %d, want 50; critical section was not exclusive", n)
	}
	if len(locks.held) != 0 {
		t.Errorf("%d lock entries leaked after release", len(locks.held))
	}
}

func TestKeyedLockIndependentKeys(t *testing.T) {
	locks := newKeyedLock()
	releaseA := locks.Acquire(uuid.New())
	defer releaseA()

	done := make(chan struct{})
	go func() {
		release := locks.Acquire(uuid.New())
		release()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("a different trip's lock blocked behind the held one")
	}
}

// Subscribers must see events in commit order. Each mutator holds the
// trip lock across commit and publish, so a mutator that commits first
// cannot be overtaken on the bus by a later one.
func TestCommitOrderMatchesDeliveryOrder(t *testing.T) {
	hub := realtime.NewHub()
	tripID := uuid.New()
	sub := realtime.NewSubscriber()
	hub.Subscribe(tripID, sub)

	var mu sync.Mutex
	var commits []int

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(seq int) {
			defer wg.Done()
			release := tripLocks.Acquire(tripID)
			defer release()

			// Stands in for the transaction commit.
			mu.Lock()
			commits = append(commits, seq)
			mu.Unlock()

			hub.Publish(realtime.NewEvent(realtime.EventItineraryUpdate, tripID, uuid.Nil, seq))
		}(i)
	}
	wg.Wait()
	hub.Drop(sub)

	var delivered []int
	for evt := range sub.Events() {
		delivered = append(delivered, evt.Payload.(int))
	}

	if len(delivered) != len(commits) {
		t.Fatalf("delivered %d events for %d commits", len(delivered), len(commits))
	}
	for i := range commits {
		if delivered[i] != commits[i] {
			t.Fatalf("delivery order %v diverges from commit order %v at %d", delivered, commits, i)
		}
	}
}
