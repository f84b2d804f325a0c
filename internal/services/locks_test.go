package services

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestKeyedMutexExcludesSameKey(t *testing.T) {
	t.Parallel()

	km := newKeyedMutex()
	var inFlight int32
	var overlapped atomic.Bool
	var counter int

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("a")
			defer km.Unlock("a")
			if atomic.AddInt32(&inFlight, 1) > 1 {
				overlapped.Store(true)
			}
			counter++
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
		}()
	}
	wg.Wait()

	if overlapped.Load() {
		t.Error("two holders observed inside the same-key critical section")
	}
	if counter != 16 {
		t.Errorf("counter = %d, want 16", counter)
	}
}

func TestKeyedMutexKeysAreIndependent(t *testing.T) {
	t.Parallel()

	km := newKeyedMutex()
	km.Lock("a")

	acquired := make(chan struct{})
	go func() {
		km.Lock("b")
		close(acquired)
		km.Unlock("b")
	}()

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("lock on an unrelated key blocked behind a held key")
	}
	km.Unlock("a")
}

func TestKeyedMutexReleasesEntries(t *testing.T) {
	t.Parallel()

	km := newKeyedMutex()
	for i := 0; i < 100; i++ {
		km.Lock("k")
		km.Unlock("k")
	}

	km.mu.Lock()
	defer km.mu.Unlock()
	if len(km.entries) != 0 {
		t.Errorf("expected entry map to drain after release, found %d entries", len(km.entries))
	}
}
