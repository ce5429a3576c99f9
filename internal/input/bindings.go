// internal/input/bindings.go
//
// Declarative key bindings for the shared keyboard.
//
// A binding maps a key name ("q", "p", "escape") to an Action. Keys are
// matched case-insensitively. Bindings are only honoured while a round is
// active; level selection and play-again are explicit actions elsewhere.

package input

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind is what a key does.
type Kind int

const (
	Guess Kind = iota
	TogglePause
	Quit
)

func (k Kind) String() string {
	switch k {
	case Guess:
		return "guess"
	case TogglePause:
		return "pause"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

// Action is a bound command. Player is the 0-based slot for Guess.
type Action struct {
	Kind   Kind
	Player int
}

// Target receives dispatched actions. *game.Controller satisfies it.
type Target interface {
	Guess(player int)
	TogglePause()
	Quit()
	Active() bool
}

// ErrBadBinding is wrapped by every ParseBindings failure.
var ErrBadBinding = errors.New("input: bad key binding")

// Bindings maps lower-case key names to actions.
type Bindings map[string]Action

// DefaultBindings: Q/W/E/R guess for players 1-4, P toggles pause,
// Escape quits.
func DefaultBindings() Bindings {
	return Bindings{
		"q":      {Kind: Guess, Player: 0},
		"w":      {Kind: Guess, Player: 1},
		"e":      {Kind: Guess, Player: 2},
		"r":      {Kind: Guess, Player: 3},
		"p":      {Kind: TogglePause},
		"escape": {Kind: Quit},
	}
}

// ParseBindings reads a comma separated list of key=action pairs, where
// action is guessN (1-based player), pause or quit:
//
//	a=guess1,l=guess2,space=pause
//
// Blank input yields an empty map.
func ParseBindings(s string) (Bindings, error) {
	out := Bindings{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, ok := strings.Cut(part, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		val = strings.ToLower(strings.TrimSpace(val))
		if !ok || key == "" || val == "" {
			return nil, fmt.Errorf("%w: %q", ErrBadBinding, part)
		}
		a, err := parseAction(val)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrBadBinding, part, err)
		}
		out[key] = a
	}
	return out, nil
}

func parseAction(s string) (Action, error) {
	switch s {
	case "pause":
		return Action{Kind: TogglePause}, nil
	case "quit":
		return Action{Kind: Quit}, nil
	}
	n, ok := strings.CutPrefix(s, "guess")
	if !ok {
		return Action{}, fmt.Errorf("unknown action %q", s)
	}
	p, err := strconv.Atoi(n)
	if err != nil || p < 1 {
		return Action{}, fmt.Errorf("bad player in %q", s)
	}
	return Action{Kind: Guess, Player: p - 1}, nil
}

// With returns a copy of b with overrides applied on top.
func (b Bindings) With(overrides Bindings) Bindings {
	out := make(Bindings, len(b)+len(overrides))
	for k, a := range b {
		out[k] = a
	}
	for k, a := range overrides {
		out[k] = a
	}
	return out
}

// Lookup finds the action bound to key.
func (b Bindings) Lookup(key string) (Action, bool) {
	a, ok := b[strings.ToLower(key)]
	return a, ok
}

// Dispatch applies the action bound to key to t. It reports whether an
// action ran; unbound keys and keys pressed outside a round return false.
func (b Bindings) Dispatch(key string, t Target) bool {
	a, ok := b.Lookup(key)
	if !ok || !t.Active() {
		return false
	}
	switch a.Kind {
	case Guess:
		t.Guess(a.Player)
	case TogglePause:
		t.TogglePause()
	case Quit:
		t.Quit()
	default:
		return false
	}
	return true
}
