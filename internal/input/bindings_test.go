package input

import (
	"errors"
	"reflect"
	"testing"
)

type fakeTarget struct {
	active  bool
	guesses []int
	toggles int
	quits   int
}

func (f *fakeTarget) Guess(p int)  { f.guesses = append(f.guesses, p) }
func (f *fakeTarget) TogglePause() { f.toggles++ }
func (f *fakeTarget) Quit()        { f.quits++ }
func (f *fakeTarget) Active() bool { return f.active }

func TestDispatch_Defaults(t *testing.T) {
	tg := &fakeTarget{active: true}
	b := DefaultBindings()
	for _, k := range []string{"q", "W", "e", "r", "P", "Escape"} {
		if !b.Dispatch(k, tg) {
			t.Errorf("Dispatch(%q) = false", k)
		}
	}
	if want := []int{0, 1, 2, 3}; !reflect.DeepEqual(tg.guesses, want) {
		t.Errorf("guesses = %v, want %v", tg.guesses, want)
	}
	if tg.toggles != 1 || tg.quits != 1 {
		t.Errorf("toggles=%d quits=%d, want 1 and 1", tg.toggles, tg.quits)
	}
}

func TestDispatch_IgnoredWhenInactive(t *testing.T) {
	tg := &fakeTarget{}
	if DefaultBindings().Dispatch("q", tg) {
		t.Error("Dispatch ran while inactive")
	}
	if len(tg.guesses) != 0 {
		t.Errorf("guesses = %v", tg.guesses)
	}
}

func TestDispatch_Unbound(t *testing.T) {
	tg := &fakeTarget{active: true}
	if DefaultBindings().Dispatch("z", tg) {
		t.Error("unbound key dispatched")
	}
}

func TestParseBindings(t *testing.T) {
	got, err := ParseBindings(" A=guess1, l=GUESS4 ,space=pause,x=quit,")
	if err != nil {
		t.Fatalf("ParseBindings: %v", err)
	}
	want := Bindings{
		"a":     {Kind: Guess, Player: 0},
		"l":     {Kind: Guess, Player: 3},
		"space": {Kind: TogglePause},
		"x":     {Kind: Quit},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseBindings_Errors(t *testing.T) {
	for _, s := range []string{"q", "=pause", "q=jump", "q=guess0", "q=guessx"} {
		if _, err := ParseBindings(s); !errors.Is(err, ErrBadBinding) {
			t.Errorf("ParseBindings(%q) err = %v, want ErrBadBinding", s, err)
		}
	}
}

func TestWith_OverridesWithoutMutating(t *testing.T) {
	base := DefaultBindings()
	b := base.With(Bindings{"q": {Kind: Quit}, "z": {Kind: Guess, Player: 1}})
	if a, _ := b.Lookup("q"); a.Kind != Quit {
		t.Errorf("q = %v, want quit", a.Kind)
	}
	if _, ok := b.Lookup("z"); !ok {
		t.Error("z not added")
	}
	if a, _ := base.Lookup("q"); a.Kind != Guess {
		t.Error("base bindings mutated")
	}
}
