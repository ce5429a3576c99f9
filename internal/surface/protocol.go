// internal/surface/protocol.go
//
// Wire protocol between the controller's presentation commands and remote
// displays (the browser page over /ws).
//
// Every frame is an Envelope {"t": type, "p": payload}. Server → client
// types mirror game.Surface one-to-one; client → server types carry input.

package surface

import (
	"encoding/json"

	"github.com/robalobadob/fallingwords/internal/game"
	"github.com/robalobadob/fallingwords/internal/motion"
)

// Server → client.
const (
	MsgLevels   = "levels"
	MsgRound    = "round"
	MsgWord     = "word"
	MsgMove     = "move"
	MsgHide     = "hide"
	MsgScore    = "score"
	MsgClock    = "clock"
	MsgPaused   = "paused"
	MsgGameOver = "gameOver"
	MsgSound    = "sound"
	MsgState    = "state"
)

// Client → server.
const (
	MsgKey    = "key"
	MsgGuess  = "guess"
	MsgStart  = "start"
	MsgPause  = "pause"
	MsgQuit   = "quit"
	MsgReset  = "reset"
	MsgResize = "resize"
)

// Envelope is one frame: T names the type, P is its JSON payload.
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"`
}

// Levels lists the playable levels (MsgLevels).
type Levels struct {
	Levels []int `json:"levels"`
}

// Round opens the playing view (MsgRound).
type Round struct {
	Level   int `json:"level"`
	Players int `json:"players"`
	Seconds int `json:"seconds"`
}

// Word is a freshly spawned word (MsgWord).
type Word = motion.FallingWord

// Move is the live word's new position (MsgMove).
type Move struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Score is one player's total (MsgScore).
type Score struct {
	Player int `json:"player"`
	Score  int `json:"score"`
}

// Clock is the remaining whole seconds (MsgClock).
type Clock struct {
	Remaining int `json:"remaining"`
}

// Paused toggles the pause indicator (MsgPaused).
type Paused struct {
	Paused bool `json:"paused"`
}

// GameOver carries final scores and the winner line (MsgGameOver).
type GameOver struct {
	Scores  []int  `json:"scores"`
	Winners []int  `json:"winners"`
	Text    string `json:"text"`
}

// Sound asks the display to play a cue (MsgSound).
type Sound struct {
	Cue game.Cue `json:"cue"`
}

// Key is a key press looked up in the server's bindings (MsgKey).
type Key struct {
	Key string `json:"key"`
}

// Guess claims the word for Player (MsgGuess).
type Guess struct {
	Player int `json:"player"`
}

// Start begins a round at Level (MsgStart).
type Start struct {
	Level int `json:"level"`
}

// Resize reports the display's scene size (MsgResize).
type Resize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// empty is the payload of commands that carry nothing; the codec refuses nil.
type empty struct{}
