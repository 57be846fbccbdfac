package services

import "sync"

// UserLocks serializes all mutating engine operations for a single user.
// Different users never contend. Needed so at-most-once achievement awards
// and streak gap arithmetic see a consistent aggregate.
type UserLocks struct {
	locks sync.Map // user id → *sync.Mutex
}

func NewUserLocks() *UserLocks {
	return &UserLocks{}
}

// Lock acquires the user's mutex and returns the unlock func.
//
//	defer locks.Lock(userID)()
func (l *UserLocks) Lock(userID string) func() {
	v, _ := l.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
