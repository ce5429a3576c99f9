// internal/timer/timer.go
//
// RoundTimer: whole-second countdown on a clock.Scheduler.
//
// Rules:
//   - onTick(remaining) fires once per elapsed second.
//   - onExpire fires exactly once when remaining reaches 0; the timer is
//     stopped by then and schedules nothing else.
//   - Pause cancels the pending step and keeps remaining as-is; Resume
//     schedules a fresh one-second step from there.
//   - Start on a live timer stops it first, so two countdowns never overlap.
//
// Each scheduled step carries the generation it was issued under; a step
// from an older generation is ignored even if it somehow runs.

package timer

import (
	"time"

	"github.com/robalobadob/fallingwords/internal/clock"
)

type status int

const (
	stopped status = iota
	running
	paused
)

// RoundTimer is not safe for concurrent use; drive it from the actor.
type RoundTimer struct {
	sched     clock.Scheduler
	step      time.Duration
	remaining int
	status    status
	gen       uint64
	cancel    clock.CancelFunc
	onTick    func(remaining int)
	onExpire  func()
}

// New returns a stopped timer ticking every second on sched.
func New(sched clock.Scheduler) *RoundTimer {
	return &RoundTimer{sched: sched, step: time.Second}
}

// Start begins a countdown of seconds (minimum 1), replacing any running one.
func (t *RoundTimer) Start(seconds int, onTick func(remaining int), onExpire func()) {
	t.Stop()
	if seconds < 1 {
		seconds = 1
	}
	t.remaining = seconds
	t.onTick = onTick
	t.onExpire = onExpire
	t.status = running
	t.schedule()
}

// Pause freezes the countdown. No-op unless running.
func (t *RoundTimer) Pause() {
	if t.status != running {
		return
	}
	t.unschedule()
	t.status = paused
}

// Resume continues a paused countdown. No-op unless paused.
func (t *RoundTimer) Resume() {
	if t.status != paused {
		return
	}
	t.status = running
	t.schedule()
}

// Stop cancels the countdown. Remaining is kept for inspection.
func (t *RoundTimer) Stop() {
	t.unschedule()
	t.status = stopped
}

// Remaining is the number of whole seconds left.
func (t *RoundTimer) Remaining() int { return t.remaining }

// Running reports whether the countdown is active.
func (t *RoundTimer) Running() bool { return t.status == running }

// Paused reports whether the countdown is frozen.
func (t *RoundTimer) Paused() bool { return t.status == paused }

func (t *RoundTimer) schedule() {
	t.unschedule()
	gen := t.gen
	t.cancel = t.sched.AfterFunc(t.step, func() {
		if gen != t.gen || t.status != running {
			return
		}
		t.cancel = nil
		t.tick()
	})
}

func (t *RoundTimer) unschedule() {
	t.gen++
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

func (t *RoundTimer) tick() {
	t.remaining--
	if t.remaining < 0 {
		t.remaining = 0
	}
	if t.onTick != nil {
		t.onTick(t.remaining)
	}
	// onTick may have stopped or paused us.
	if t.status != running {
		return
	}
	if t.remaining == 0 {
		t.Stop()
		if t.onExpire != nil {
			t.onExpire()
		}
		return
	}
	t.schedule()
}
