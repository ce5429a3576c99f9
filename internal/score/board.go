// internal/score/board.go
//
// Per-player point counters and the end-of-round winner set.

package score

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxPlayers is the number of player slots on the board.
const MaxPlayers = 4

// ErrIndexOutOfRange is returned when a player index has no slot.
var ErrIndexOutOfRange = errors.New("score: player index out of range")

// Board holds one non-negative counter per player.
type Board struct {
	scores []int
}

// NewBoard returns a zeroed board for n players.
func NewBoard(n int) *Board {
	b := &Board{}
	b.Reset(n)
	return b
}

// Reset zeroes every counter and resizes the board to n players
// (clamped to 1..MaxPlayers).
func (b *Board) Reset(n int) {
	if n < 1 {
		n = 1
	}
	if n > MaxPlayers {
		n = MaxPlayers
	}
	b.scores = make([]int, n)
}

// Players is the number of slots.
func (b *Board) Players() int { return len(b.scores) }

// Increment adds one point to player i.
func (b *Board) Increment(i int) error {
	if i < 0 || i >= len(b.scores) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, i, len(b.scores))
	}
	b.scores[i]++
	return nil
}

// Score returns player i's points, 0 for an unknown index.
func (b *Board) Score(i int) int {
	if i < 0 || i >= len(b.scores) {
		return 0
	}
	return b.scores[i]
}

// Scores returns a copy of the counters in player order.
func (b *Board) Scores() []int {
	return append([]int(nil), b.scores...)
}

// Winners returns every index holding the top score, ascending.
// An all-zero board is a tie between everyone.
func (b *Board) Winners() []int {
	if len(b.scores) == 0 {
		return nil
	}
	top := b.scores[0]
	for _, s := range b.scores[1:] {
		if s > top {
			top = s
		}
	}
	out := make([]int, 0, len(b.scores))
	for i, s := range b.scores {
		if s == top {
			out = append(out, i)
		}
	}
	return out
}

// Announce renders the game-over line with 1-based player numbers:
// "Player 2 Wins!" or "Players 1 & 3 Tie!".
func Announce(winners []int) string {
	switch len(winners) {
	case 0:
		return ""
	case 1:
		return "Player " + strconv.Itoa(winners[0]+1) + " Wins!"
	}
	names := make([]string, len(winners))
	for i, w := range winners {
		names[i] = strconv.Itoa(w + 1)
	}
	return "Players " + strings.Join(names, " & ") + " Tie!"
}
