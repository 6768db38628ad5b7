package service

import (
	"sync"
	"time"
)

// Scheduler arms a one-shot callback after a delay. The core never
// sleeps in a method call; every time-consuming transition is modeled
// as "schedule a callback, return immediately". Tests substitute a
// manual implementation and advance time by hand.
type Scheduler interface {
	After(d time.Duration, f func())
}

// Loop serializes all method invocations and timer callbacks onto a
// single goroutine, so object state needs no locking. It doubles as
// the production Scheduler: timer callbacks are posted back onto the
// same goroutine before they run.
type Loop struct {
	calls    chan func()
	stop     chan struct{}
	stopOnce sync.Once
}

// NewLoop creates a loop. Run must be called before Call will make
// progress.
func NewLoop() *Loop {
	return &Loop{
		calls: make(chan func()),
		stop:  make(chan struct{}),
	}
}

// Run executes posted calls until Stop. Run/Stop have the run.Group
// actor shape so the loop can be added to a run group directly.
func (l *Loop) Run() error {
	for {
		select {
		case f := <-l.calls:
			f()
		case <-l.stop:
			return nil
		}
	}
}

// Stop shuts the loop down. Safe to call multiple times.
func (l *Loop) Stop(_ error) {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Call runs f on the loop goroutine and waits for it to finish. After
// Stop, Call returns without running f. Must not be called from the
// loop goroutine itself.
func (l *Loop) Call(f func()) {
	select {
	case <-l.stop:
		return
	default:
	}
	done := make(chan struct{})
	select {
	case l.calls <- func() {
		f()
		close(done)
	}:
	case <-l.stop:
		return
	}
	select {
	case <-done:
	case <-l.stop:
	}
}

// After arms a one-shot timer; when it fires, f runs on the loop
// goroutine like any other call.
func (l *Loop) After(d time.Duration, f func()) {
	time.AfterFunc(d, func() {
		l.Call(f)
	})
}
