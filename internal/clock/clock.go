// internal/clock/clock.go
//
// Scheduling primitives for the single game actor.
//
// Everything the round controller does in time goes through a Scheduler:
//   - RequestFrame: run fn once on the next display refresh (the motion loop
//     reschedules itself frame by frame).
//   - AfterFunc: run fn once after d (the round timer's one-second steps).
//
// Both return a CancelFunc. Callbacks always run on the actor goroutine, and
// a cancelled callback never runs, even if its deadline already passed.
//
// Implementations:
//   - Loop:   real time, used by the binaries.
//   - Manual: stepped by hand, used by tests.

package clock

import "time"

// CancelFunc stops a pending callback. Calling it more than once is harmless.
type CancelFunc func()

// Scheduler queues callbacks on the game actor.
// Its methods must be called from the actor goroutine.
type Scheduler interface {
	RequestFrame(fn func()) CancelFunc
	AfterFunc(d time.Duration, fn func()) CancelFunc
}

// pending is one queued callback. cancelled is only touched on the actor.
type pending struct {
	fn        func()
	cancelled bool
}

func (p *pending) run() {
	if p.cancelled {
		return
	}
	p.cancelled = true
	p.fn()
}
