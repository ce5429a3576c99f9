// internal/motion/mover.go
//
// Kinematics of the single falling word.
//
// Each tick moves the word down by vy and sideways by vx in its current
// direction. Leaving [0, maxX] flips the direction and clamps x back onto
// the edge; the overshoot is dropped rather than reflected. The word has
// exited once y reaches the bottom margin.

package motion

import "math"

// Direction is the horizontal heading of a word.
type Direction int

const (
	Left  Direction = -1
	Right Direction = 1
)

// Bounds is the drawable scene size.
type Bounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MaxX is the largest left offset a word of wordWidth may take without
// running into the button strip. Never negative.
func (b Bounds) MaxX(wordWidth float64) float64 {
	return math.Max(0, b.Width-wordWidth-ButtonArea)
}

// Floor is the y at which a word counts as having left the scene.
func (b Bounds) Floor() float64 {
	return b.Height - BottomMargin
}

// FallingWord is the live word and where it is.
type FallingWord struct {
	Text      string    `json:"text"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Direction Direction `json:"direction"`
	Width     float64   `json:"width"`
}

// Frame is the outcome of one tick.
type Frame struct {
	X         float64
	Y         float64
	Direction Direction
	Exited    bool
}

// Mover advances a FallingWord. Speeds are set once per round.
type Mover struct {
	word   FallingWord
	vx, vy float64
}

// NewMover returns a mover with the given per-tick speeds.
func NewMover(vx, vy float64) *Mover {
	return &Mover{vx: vx, vy: vy}
}

// SetSpeed replaces the per-tick speeds.
func (m *Mover) SetSpeed(vx, vy float64) {
	m.vx, m.vy = vx, vy
}

// Speed returns (vx, vy).
func (m *Mover) Speed() (vx, vy float64) { return m.vx, m.vy }

// Reset places a new word at (x, y) heading dir.
func (m *Mover) Reset(text string, width, x, y float64, dir Direction) {
	if dir != Left {
		dir = Right
	}
	m.word = FallingWord{Text: text, X: x, Y: y, Direction: dir, Width: width}
}

// Word returns a copy of the current word.
func (m *Mover) Word() FallingWord { return m.word }

// Tick advances the word by dt ticks inside b.
func (m *Mover) Tick(dt float64, b Bounds) Frame {
	w := &m.word
	w.Y += m.vy * dt
	w.X += m.vx * float64(w.Direction) * dt

	maxX := b.MaxX(w.Width)
	if w.X < 0 || w.X > maxX {
		w.Direction = -w.Direction
		w.X = clamp(w.X, 0, maxX)
	}

	return Frame{
		X:         w.X,
		Y:         w.Y,
		Direction: w.Direction,
		Exited:    w.Y >= b.Floor(),
	}
}

// Clamp pulls x back inside b without touching the direction.
// Used when the scene shrinks under a live word.
func (m *Mover) Clamp(b Bounds) {
	m.word.X = clamp(m.word.X, 0, b.MaxX(m.word.Width))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
