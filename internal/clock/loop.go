package clock

import (
	"context"
	"errors"
	"time"
)

// ErrStopped is returned by Call once the loop has exited.
var ErrStopped = errors.New("clock: loop stopped")

// DefaultFrameHz is the display refresh rate used when none is configured.
const DefaultFrameHz = 60

// Loop is the real-time actor. One goroutine (Run) owns all game state;
// input and timer expiries reach it through the inbox, frames through a
// ticker. A tick that arrives while the actor is busy is dropped, so a slow
// frame never causes a burst of catch-up frames.
type Loop struct {
	inbox      chan func()
	frameEvery time.Duration
	frames     []*pending
	done       chan struct{}
}

// NewLoop returns a loop refreshing at hz frames per second.
func NewLoop(hz int) *Loop {
	if hz <= 0 {
		hz = DefaultFrameHz
	}
	return &Loop{
		inbox:      make(chan func(), 256),
		frameEvery: time.Second / time.Duration(hz),
		done:       make(chan struct{}),
	}
}

// Run processes events until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.frameEvery)
	defer ticker.Stop()
	defer close(l.done)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.inbox:
			fn()
		case <-ticker.C:
			l.runFrames()
		}
	}
}

// runFrames runs the callbacks queued before this refresh. Callbacks that
// request another frame land in the next refresh.
func (l *Loop) runFrames() {
	if len(l.frames) == 0 {
		return
	}
	due := l.frames
	l.frames = nil
	for _, p := range due {
		p.run()
	}
}

// Do queues fn on the actor without waiting. It gives up if the loop stops.
func (l *Loop) Do(fn func()) {
	select {
	case l.inbox <- fn:
	case <-l.done:
	}
}

// Call runs fn on the actor and waits for it to finish.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		fn()
	}
	select {
	case l.inbox <- wrapped:
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RequestFrame implements Scheduler. Actor goroutine only.
func (l *Loop) RequestFrame(fn func()) CancelFunc {
	p := &pending{fn: fn}
	l.frames = append(l.frames, p)
	return func() { p.cancelled = true }
}

// AfterFunc implements Scheduler. The expiry is posted to the inbox so fn
// runs on the actor; the cancelled check happens there too. Actor
// goroutine only.
func (l *Loop) AfterFunc(d time.Duration, fn func()) CancelFunc {
	p := &pending{fn: fn}
	t := time.AfterFunc(d, func() {
		l.Do(p.run)
	})
	return func() {
		p.cancelled = true
		t.Stop()
	}
}
