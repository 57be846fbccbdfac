package services

import (
	"sync"
	"testing"
)

func TestUserLocksSerializePerUser(t *testing.T) {
	locks := NewUserLocks()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("user-a")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()
	if counter != 50 {
		t.Fatalf("counter = %d, want 50", counter)
	}
}

func TestUserLocksIndependentUsers(t *testing.T) {
	locks := NewUserLocks()

	release := locks.Lock("user-a")
	defer release()

	done := make(chan struct{})
	go func() {
		unlock := locks.Lock("user-b")
		unlock()
		close(done)
	}()
	<-done
}
