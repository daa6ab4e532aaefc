// Package spin provides a busy-wait mutual exclusion lock for short critical
// sections that must never sleep.
package spin

import (
	"runtime"
	"sync/atomic"
)

// attemptsBeforeYield is the number of failed acquisition attempts after which
// Lock hands the processor to another goroutine, so a descheduled holder gets
// to run and release the lock.
const attemptsBeforeYield = 64

// Spinlock implements a lock where each goroutine trying to acquire it
// busy-waits till the lock becomes available. The zero value is unlocked.
//
// Spinlock is not reentrant: acquiring a lock already held by the caller
// deadlocks.
type Spinlock struct {
	state uint32
}

// Lock blocks until the lock can be acquired.
func (l *Spinlock) Lock() {
	for attempts := 1; ; attempts++ {
		if atomic.LoadUint32(&l.state) == 0 && atomic.CompareAndSwapUint32(&l.state, 0, 1) {
			return
		}
		if attempts%attemptsBeforeYield == 0 {
			runtime.Gosched()
		}
	}
}

// TryLock attempts to acquire the lock and returns true if the lock could
// be acquired or false otherwise.
func (l *Spinlock) TryLock() bool {
	return atomic.CompareAndSwapUint32(&l.state, 0, 1)
}

// Unlock relinquishes a held lock allowing other goroutines to acquire it.
// Calling Unlock while the lock is free has no effect.
func (l *Spinlock) Unlock() {
	atomic.StoreUint32(&l.state, 0)
}

// Locked reports whether the lock is currently held by anyone.
func (l *Spinlock) Locked() bool {
	return atomic.LoadUint32(&l.state) == 1
}
