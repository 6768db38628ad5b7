package service

import (
	"time"

	"github.com/godbus/dbus/v5"
)

// fakeScheduler collects armed timers so tests can run transition
// callbacks by hand, in arm order, without sleeping.
type fakeScheduler struct {
	pending []func()
}

func (s *fakeScheduler) After(d time.Duration, f func()) {
	s.pending = append(s.pending, f)
}

// fire runs the oldest pending callback.
func (s *fakeScheduler) fire() {
	f := s.pending[0]
	s.pending = s.pending[1:]
	f()
}

// fireAll runs pending callbacks, including ones armed by earlier
// callbacks, until none remain.
func (s *fakeScheduler) fireAll() {
	for len(s.pending) > 0 {
		s.fire()
	}
}

// transition is one recorded StateChanged emission.
type transition struct {
	Old    int32
	New    int32
	Reason uint32
}

// recordBus records emitted signals, decoding modem state changes.
type recordBus struct {
	transitions []transition
}

func (b *recordBus) Emit(path dbus.ObjectPath, name string, values ...interface{}) {
	if len(values) == 3 {
		b.transitions = append(b.transitions, transition{
			Old:    values[0].(int32),
			New:    values[1].(int32),
			Reason: values[2].(uint32),
		})
	}
}

// newTestManager builds a manager with the stock fixture, a manual
// scheduler, and a signal recorder.
func newTestManager() (*Manager, *fakeScheduler, *recordBus) {
	sched := &fakeScheduler{}
	bus := &recordBus{}
	mgr := NewManager(DefaultConfig(), sched, bus)
	return mgr, sched, bus
}
