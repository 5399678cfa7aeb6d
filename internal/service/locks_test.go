package service

import (
	"sync"
	"testing"
)

func TestRunLocks_Exclusive(t *testing.T) {
	locks := newRunLocks()

	if !locks.TryAcquire("app") {
		t.Fatal("first acquire should succeed")
	}
	if locks.TryAcquire("app") {
		t.Fatal("second acquire should fail while held")
	}
	if !locks.TryAcquire("other") {
		t.Fatal("different project should not be blocked")
	}

	locks.Release("app")
	if !locks.TryAcquire("app") {
		t.Fatal("acquire after release should succeed")
	}
}

func TestRunLocks_ConcurrentSingleWinner(t *testing.T) {
	locks := newRunLocks()

	const goroutines = 32
	var wg sync.WaitGroup
	wins := make(chan struct{}, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if locks.TryAcquire("app") {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	count := 0
	for range wins {
		count++
	}
	if count != 1 {
		t.Fatalf("winners = %d, want exactly 1", count)
	}
}
