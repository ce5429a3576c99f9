// internal/terminal/surface.go
//
// game.Surface drawn on a tcell screen.
//
// Layout:
//   - row 0: HUD (level, remaining time, pause marker)
//   - rows 1..h-2: the scene; world units map to cells at CellWidth x CellHeight
//   - row h-1: player scores and key hints
//
// The surface keeps a small model of what it was told and redraws the whole
// screen from it on every command. Sound cues become terminal beeps.

package terminal

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/robalobadob/fallingwords/internal/game"
	"github.com/robalobadob/fallingwords/internal/motion"
)

// World units per terminal cell.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

type view int

const (
	viewLevels view = iota
	viewRound
	viewOver
)

var (
	styleHUD    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleWord   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleScores = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
	styleBanner = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorMaroon).Bold(true)
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// Surface is not safe for concurrent use; drive it from the actor.
type Surface struct {
	screen tcell.Screen

	view    view
	levels  []int
	level   int
	players int
	clock   int
	paused  bool
	word    *motion.FallingWord
	scores  []int
	over    string
	entry   string
}

// NewSurface returns a surface drawing on screen. Call Bounds for the
// matching controller scene size.
func NewSurface(screen tcell.Screen) *Surface {
	return &Surface{screen: screen, players: 4, scores: make([]int, 4)}
}

// Bounds is the scene size in world units for the current screen size.
func (s *Surface) Bounds() motion.Bounds {
	w, h := s.screen.Size()
	rows := h - 2
	if rows < 1 {
		rows = 1
	}
	return motion.Bounds{Width: float64(w) * CellWidth, Height: float64(rows) * CellHeight}
}

// Measure is the world width of text as drawn on this surface.
func Measure(text string) float64 {
	return float64(utf8.RuneCountInString(text)) * CellWidth
}

// SetEntry shows the level number being typed at level selection.
func (s *Surface) SetEntry(entry string) {
	s.entry = entry
	if s.view == viewLevels {
		s.draw()
	}
}

// --- game.Surface ---

func (s *Surface) ShowLevels(levels []int) {
	s.view = viewLevels
	s.levels = append([]int(nil), levels...)
	s.word = nil
	s.paused = false
	s.over = ""
	s.draw()
}

func (s *Surface) ShowRound(level, players, seconds int) {
	s.view = viewRound
	s.level = level
	s.players = players
	s.scores = make([]int, players)
	s.clock = seconds
	s.paused = false
	s.over = ""
	s.draw()
}

func (s *Surface) ShowWord(w motion.FallingWord) {
	s.word = &w
	s.draw()
}

func (s *Surface) MoveWord(x, y float64) {
	if s.word != nil {
		s.word.X, s.word.Y = x, y
	}
	s.draw()
}

func (s *Surface) HideWord() {
	s.word = nil
	s.draw()
}

func (s *Surface) SetScore(player, score int) {
	if player >= 0 && player < len(s.scores) {
		s.scores[player] = score
	}
	s.draw()
}

func (s *Surface) SetClock(remaining int) {
	s.clock = remaining
	s.draw()
}

func (s *Surface) SetPaused(paused bool) {
	s.paused = paused
	s.draw()
}

func (s *Surface) ShowGameOver(scores, winners []int, text string) {
	s.view = viewOver
	s.scores = append([]int(nil), scores...)
	s.over = text
	s.draw()
}

func (s *Surface) Play(c game.Cue) {
	switch c {
	case game.CueScore, game.CueGameOver:
		_ = s.screen.Beep()
	}
}

var _ game.Surface = (*Surface)(nil)

// Redraw repaints from the model, e.g. after a terminal resize.
func (s *Surface) Redraw() {
	s.screen.Sync()
	s.draw()
}

// ------------------------------- drawing -----------------------------------

func (s *Surface) draw() {
	sc := s.screen
	sc.Clear()
	w, h := sc.Size()

	switch s.view {
	case viewLevels:
		drawCentered(sc, w/2, h/2-1, "FALLING WORDS", styleBanner)
		drawCentered(sc, w/2, h/2+1, "Choose a level: "+levelList(s.levels), styleText)
		drawCentered(sc, w/2, h/2+2, "Level: "+s.entry+"_", styleText)
		drawCentered(sc, w/2, h/2+3, "Type a number, Enter to start   Esc: exit", styleText)

	case viewRound, viewOver:
		hud := fmt.Sprintf(" Level %d   Time %d ", s.level, s.clock)
		if s.paused {
			hud += "  [PAUSED]"
		}
		fill(sc, 0, w, styleHUD)
		drawText(sc, 0, 0, hud, styleHUD)

		if s.word != nil {
			col := int(s.word.X / CellWidth)
			row := 1 + int(s.word.Y/CellHeight)
			if row >= 1 && row < h-1 {
				drawText(sc, col, row, s.word.Text, styleWord)
			}
		}

		fill(sc, h-1, w, styleScores)
		drawText(sc, 0, h-1, scoreLine(s.scores), styleScores)

		if s.view == viewOver {
			drawCentered(sc, w/2, h/2-1, " "+s.over+" ", styleBanner)
			drawCentered(sc, w/2, h/2+1, "Enter: play again   Esc: exit", styleText)
		}
	}
	sc.Show()
}

func levelList(levels []int) string {
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = "[" + strconv.Itoa(l) + "]"
	}
	return strings.Join(parts, " ")
}

func scoreLine(scores []int) string {
	var b strings.Builder
	for i, s := range scores {
		fmt.Fprintf(&b, " P%d: %d ", i+1, s)
	}
	return b.String()
}

func fill(s tcell.Screen, y, w int, st tcell.Style) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, st)
	}
}

func drawText(s tcell.Screen, x, y int, text string, st tcell.Style) {
	i := 0
	for _, ch := range text {
		s.SetContent(x+i, y, ch, nil, st)
		i++
	}
}

func drawCentered(s tcell.Screen, cx, cy int, text string, st tcell.Style) {
	x := cx - utf8.RuneCountInString(text)/2
	drawText(s, x, cy, text, st)
}
