package clock

import (
	"sort"
	"time"
)

// Manual is a Scheduler driven by the caller: Frame runs one display
// refresh, Advance moves virtual time forward and fires due timers in
// deadline order. Not safe for concurrent use.
type Manual struct {
	now    time.Duration
	frames []*pending
	timers []*manualTimer
	seq    int
}

type manualTimer struct {
	at  time.Duration
	seq int
	p   *pending
}

// NewManual returns a scheduler at virtual time zero.
func NewManual() *Manual { return &Manual{} }

// Now is the virtual time elapsed since creation.
func (m *Manual) Now() time.Duration { return m.now }

// RequestFrame implements Scheduler.
func (m *Manual) RequestFrame(fn func()) CancelFunc {
	p := &pending{fn: fn}
	m.frames = append(m.frames, p)
	return func() { p.cancelled = true }
}

// AfterFunc implements Scheduler.
func (m *Manual) AfterFunc(d time.Duration, fn func()) CancelFunc {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{at: m.now + d, seq: m.seq, p: &pending{fn: fn}}
	m.timers = append(m.timers, t)
	return func() { t.p.cancelled = true }
}

// Frame runs one refresh and returns how many callbacks ran.
func (m *Manual) Frame() int {
	due := m.frames
	m.frames = nil
	ran := 0
	for _, p := range due {
		if !p.cancelled {
			ran++
		}
		p.run()
	}
	return ran
}

// Frames runs n refreshes.
func (m *Manual) Frames(n int) {
	for i := 0; i < n; i++ {
		m.Frame()
	}
}

// PendingFrames counts live frame callbacks.
func (m *Manual) PendingFrames() int {
	n := 0
	for _, p := range m.frames {
		if !p.cancelled {
			n++
		}
	}
	return n
}

// PendingTimers counts live timers.
func (m *Manual) PendingTimers() int {
	n := 0
	for _, t := range m.timers {
		if !t.p.cancelled {
			n++
		}
	}
	return n
}

// Advance moves time forward by d, firing every timer that comes due,
// including timers scheduled by callbacks within the window.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for {
		t := m.nextDue(target)
		if t == nil {
			break
		}
		m.now = t.at
		t.p.run()
	}
	m.now = target
}

// nextDue pops the earliest live timer at or before target.
func (m *Manual) nextDue(target time.Duration) *manualTimer {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.p.cancelled {
			live = append(live, t)
		}
	}
	m.timers = live
	if len(m.timers) == 0 {
		return nil
	}
	sort.Slice(m.timers, func(i, j int) bool {
		if m.timers[i].at == m.timers[j].at {
			return m.timers[i].seq < m.timers[j].seq
		}
		return m.timers[i].at < m.timers[j].at
	})
	first := m.timers[0]
	if first.at > target {
		return nil
	}
	m.timers = m.timers[1:]
	return first
}
