// internal/game/types.go
//
// Core type definitions for the round controller.
// Defines:
//   - State: round lifecycle (idle → running ⇄ paused → ended).
//   - Cue: named sound effects the surface should play.
//   - Surface: write-only presentation collaborator.
//   - Result / Snapshot: what a finished round and the live round look like.

package game

import (
	"time"

	"github.com/robalobadob/fallingwords/internal/motion"
)

// State is the round lifecycle phase.
type State int

const (
	Idle State = iota
	Running
	Paused
	Ended
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Cue names a sound effect.
type Cue string

const (
	CueScore      Cue = "score"
	CueGameOver   Cue = "gameOver"
	CueMusicStart Cue = "musicStart"
	CueMusicStop  Cue = "musicStop"
)

// Surface receives presentation commands. The controller never reads
// anything back from it.
type Surface interface {
	// ShowLevels switches to level selection with the playable levels.
	ShowLevels(levels []int)
	// ShowRound switches to the playing view: timer, controls, zeroed scores.
	ShowRound(level, players, seconds int)
	// ShowWord draws a newly spawned word.
	ShowWord(w motion.FallingWord)
	// MoveWord moves the current word.
	MoveWord(x, y float64)
	// HideWord removes the current word.
	HideWord()
	SetScore(player, score int)
	SetClock(remaining int)
	// SetPaused toggles the pause indicator.
	SetPaused(paused bool)
	// ShowGameOver shows final scores and the winner line.
	ShowGameOver(scores, winners []int, text string)
	Play(c Cue)
}

// NopSurface discards every command.
type NopSurface struct{}

func (NopSurface) ShowLevels([]int)                  {}
func (NopSurface) ShowRound(int, int, int)           {}
func (NopSurface) ShowWord(motion.FallingWord)       {}
func (NopSurface) MoveWord(float64, float64)         {}
func (NopSurface) HideWord()                         {}
func (NopSurface) SetScore(int, int)                 {}
func (NopSurface) SetClock(int)                      {}
func (NopSurface) SetPaused(bool)                    {}
func (NopSurface) ShowGameOver([]int, []int, string) {}
func (NopSurface) Play(Cue)                          {}

// EndReason says why a round ended.
type EndReason string

const (
	ReasonExpired EndReason = "expired"
	ReasonQuit    EndReason = "quit"
)

// Result is a finished round.
type Result struct {
	ID        string    `json:"id"`
	Level     int       `json:"level"`
	Scores    []int     `json:"scores"`
	Winners   []int     `json:"winners"`
	Text      string    `json:"text"`
	Reason    EndReason `json:"reason"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`
}

// Snapshot is a consistent view of the controller for rendering.
type Snapshot struct {
	State     State               `json:"state"`
	RoundID   string              `json:"roundId,omitempty"`
	Level     int                 `json:"level,omitempty"`
	Levels    []int               `json:"levels"`
	Players   int                 `json:"players"`
	Scores    []int               `json:"scores"`
	Remaining int                 `json:"remaining"`
	Word      *motion.FallingWord `json:"word,omitempty"`
	Winners   []int               `json:"winners,omitempty"`
	Text      string              `json:"text,omitempty"`
	Bounds    motion.Bounds       `json:"bounds"`
}
