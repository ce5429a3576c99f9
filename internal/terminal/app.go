// internal/terminal/app.go
//
// Keyboard loop for the terminal front end.
//
// Keys:
//   - bound keys (input.Bindings) act on the running round
//   - digits type a level number at level selection; the level starts as
//     soon as no longer loaded level begins with the digits, or on Enter
//   - Backspace edits the typed level number
//   - Enter returns to level selection after a round
//   - Escape quits a round, or exits from level selection / game over
//   - Ctrl+C exits at any time

package terminal

import (
	"context"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/robalobadob/fallingwords/internal/game"
	"github.com/robalobadob/fallingwords/internal/input"
)

// Actor runs functions on the goroutine that owns the controller.
type Actor interface {
	Call(ctx context.Context, fn func()) error
}

// App connects a tcell screen to a controller drawing on Surface.
type App struct {
	Screen   tcell.Screen
	Surface  *Surface
	Game     *game.Controller
	Bindings input.Bindings
	Actor    Actor
	Log      zerolog.Logger

	entry string // level number typed so far
}

// Run polls terminal events until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.Bindings == nil {
		a.Bindings = input.DefaultBindings()
	}
	events := make(chan tcell.Event, 32)
	quit := make(chan struct{})
	go a.Screen.ChannelEvents(events, quit)
	defer close(quit)

	if err := a.Actor.Call(ctx, func() {
		a.Game.Resize(a.Surface.Bounds().Width, a.Surface.Bounds().Height)
		a.Game.Show()
	}); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			exit := false
			if err := a.Actor.Call(ctx, func() { exit = a.Handle(ev) }); err != nil {
				return err
			}
			if exit {
				return nil
			}
		}
	}
}

// Handle applies one terminal event to the controller and reports whether
// the program should exit. Actor goroutine only.
func (a *App) Handle(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventResize:
		b := a.Surface.Bounds()
		a.Game.Resize(b.Width, b.Height)
		a.Surface.Redraw()
	case *tcell.EventKey:
		return a.handleKey(e)
	}
	return false
}

func (a *App) handleKey(e *tcell.EventKey) bool {
	switch e.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyEscape:
		if !a.Game.Active() {
			return true
		}
	case tcell.KeyEnter:
		if a.Game.State() == game.Idle {
			if a.entry != "" {
				a.startEntry()
			}
			return false
		}
		a.Game.Reset()
		return false
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if a.Game.State() == game.Idle && a.entry != "" {
			a.setEntry(a.entry[:len(a.entry)-1])
			return false
		}
	case tcell.KeyRune:
		if r := e.Rune(); r >= '0' && r <= '9' && a.Game.State() == game.Idle {
			a.typeDigit(r)
			return false
		}
	}
	a.Bindings.Dispatch(keyName(e), a.Game)
	return false
}

// typeDigit extends the level entry and starts the level once the digits
// cannot be the prefix of another loaded level.
func (a *App) typeDigit(r rune) {
	entry := a.entry + string(r)
	exact, longer := false, false
	for _, l := range a.Game.Levels() {
		ls := strconv.Itoa(l)
		switch {
		case ls == entry:
			exact = true
		case strings.HasPrefix(ls, entry):
			longer = true
		}
	}
	switch {
	case !exact && !longer:
		a.Log.Debug().Str("entry", entry).Msg("no such level")
		a.setEntry("")
	case exact && !longer:
		a.entry = entry
		a.startEntry()
	default:
		a.setEntry(entry)
	}
}

func (a *App) startEntry() {
	level, _ := strconv.Atoi(a.entry)
	a.setEntry("")
	if err := a.Game.Start(level); err != nil {
		a.Log.Debug().Err(err).Msg("level entry")
	}
}

func (a *App) setEntry(entry string) {
	a.entry = entry
	a.Surface.SetEntry(entry)
}

// keyName is the binding name of a key: the rune itself, or a lower-case
// tcell key name ("escape", "space", "tab", ...).
func keyName(e *tcell.EventKey) string {
	if e.Key() == tcell.KeyRune {
		if e.Rune() == ' ' {
			return "space"
		}
		return strings.ToLower(string(e.Rune()))
	}
	switch e.Key() {
	case tcell.KeyEscape:
		return "escape"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyTab:
		return "tab"
	}
	return strings.ToLower(tcell.KeyNames[e.Key()])
}
