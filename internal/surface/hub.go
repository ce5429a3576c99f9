// internal/surface/hub.go
//
// Hub is a game.Surface that encodes each presentation command once and
// fans the frame out to every subscribed display.
//
// Publish never blocks: a subscriber whose buffer is full misses that frame.
// Move frames are superseded by the next one and state frames are resent on
// connect, so a slow display catches up on its own.

package surface

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/robalobadob/fallingwords/internal/game"
	"github.com/robalobadob/fallingwords/internal/motion"
)

const subscriberBuffer = 64

// Hub is a game.Surface for remote displays. Each command is encoded as a
// surface.Envelope and published to every subscriber.
type Hub struct {
	mu   sync.Mutex
	subs map[chan []byte]struct{}
	log  zerolog.Logger
}

// NewHub returns a hub with no subscribers.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		subs: make(map[chan []byte]struct{}),
		log:  log,
	}
}

// Subscribe registers a display and returns its frame channel.
func (h *Hub) Subscribe() chan []byte {
	ch := make(chan []byte, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes ch. Safe to call twice.
func (h *Hub) Unsubscribe(ch chan []byte) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Subscribers counts connected displays.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Publish sends an already encoded frame to every subscriber.
func (h *Hub) Publish(frame []byte) {
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- frame:
		default:
		}
	}
	h.mu.Unlock()
}

func (h *Hub) send(t string, payload any) {
	b, err := Encode(t, payload)
	if err != nil {
		h.log.Error().Err(err).Str("type", t).Msg("encode frame")
		return
	}
	h.Publish(b)
}

// --- game.Surface ---

func (h *Hub) ShowLevels(levels []int) {
	if levels == nil {
		levels = []int{}
	}
	h.send(MsgLevels, Levels{Levels: levels})
}

func (h *Hub) ShowRound(level, players, seconds int) {
	h.send(MsgRound, Round{Level: level, Players: players, Seconds: seconds})
}

func (h *Hub) ShowWord(w motion.FallingWord) { h.send(MsgWord, w) }

func (h *Hub) MoveWord(x, y float64) { h.send(MsgMove, Move{X: x, Y: y}) }

func (h *Hub) HideWord() { h.send(MsgHide, empty{}) }

func (h *Hub) SetScore(player, score int) {
	h.send(MsgScore, Score{Player: player, Score: score})
}

func (h *Hub) SetClock(remaining int) { h.send(MsgClock, Clock{Remaining: remaining}) }

func (h *Hub) SetPaused(paused bool) { h.send(MsgPaused, Paused{Paused: paused}) }

func (h *Hub) ShowGameOver(scores, winners []int, text string) {
	h.send(MsgGameOver, GameOver{Scores: scores, Winners: winners, Text: text})
}

func (h *Hub) Play(c game.Cue) { h.send(MsgSound, Sound{Cue: c}) }

var _ game.Surface = (*Hub)(nil)

// Multi fans every command out to several surfaces in order. The terminal
// uses it to mirror its scene to browser displays.
type Multi []game.Surface

func (m Multi) ShowLevels(levels []int) {
	for _, s := range m {
		s.ShowLevels(levels)
	}
}

func (m Multi) ShowRound(level, players, seconds int) {
	for _, s := range m {
		s.ShowRound(level, players, seconds)
	}
}

func (m Multi) ShowWord(w motion.FallingWord) {
	for _, s := range m {
		s.ShowWord(w)
	}
}

func (m Multi) MoveWord(x, y float64) {
	for _, s := range m {
		s.MoveWord(x, y)
	}
}

func (m Multi) HideWord() {
	for _, s := range m {
		s.HideWord()
	}
}

func (m Multi) SetScore(player, score int) {
	for _, s := range m {
		s.SetScore(player, score)
	}
}

func (m Multi) SetClock(remaining int) {
	for _, s := range m {
		s.SetClock(remaining)
	}
}

func (m Multi) SetPaused(paused bool) {
	for _, s := range m {
		s.SetPaused(paused)
	}
}

func (m Multi) ShowGameOver(scores, winners []int, text string) {
	for _, s := range m {
		s.ShowGameOver(scores, winners, text)
	}
}

func (m Multi) Play(c game.Cue) {
	for _, s := range m {
		s.Play(c)
	}
}
