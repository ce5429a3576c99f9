package words

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestPoolNext_NeverRepeatsPrevious(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for level, p := range Default() {
		if len(p) < 2 {
			continue
		}
		prev := p[0]
		for i := 0; i < 500; i++ {
			got := p.Next(rng, prev)
			if got == prev {
				t.Fatalf("level %d: Next returned previous word %q", level, prev)
			}
			prev = got
		}
	}
}

func TestPoolNext_SingleWord(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	p := Pool{"solo"}
	for _, prev := range []string{"", "solo", "other"} {
		if got := p.Next(rng, prev); got != "solo" {
			t.Errorf("Next(%q) = %q, want solo", prev, got)
		}
	}
}

func TestPoolNext_CoversOtherWords(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	p := Pool{"a", "b", "c"}
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[p.Next(rng, "a")] = true
	}
	if seen["a"] {
		t.Error("previous word was selected")
	}
	if !seen["b"] || !seen["c"] {
		t.Errorf("expected both remaining words, got %v", seen)
	}
}

func TestPoolNext_DuplicateSlotsNeverRepeat(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	p := Pool{"a", "a", "b"}
	for i := 0; i < 1000; i++ {
		if got := p.Next(rng, "a"); got != "b" {
			t.Fatalf("draw %d: Next(a) = %q, want b", i, got)
		}
	}
	if got := (Pool{"a", "a"}).Next(rng, "a"); got != "a" {
		t.Errorf("all-duplicate pool = %q, want a", got)
	}
}

func TestPoolNext_UnknownPreviousUsesWholePool(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	p := Pool{"a", "b"}
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		seen[p.Next(rng, "zzz")] = true
	}
	if !seen["a"] || !seen["b"] {
		t.Errorf("expected both words, got %v", seen)
	}
}

func TestSource_ConfigureUnknownLevel(t *testing.T) {
	s := NewSource(Default())
	for _, level := range []int{0, -1, 10, 99} {
		_, err := s.Configure(level)
		if !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("Configure(%d) err = %v, want ErrInvalidLevel", level, err)
		}
		var le *LevelError
		if !errors.As(err, &le) || le.Level != level {
			t.Errorf("Configure(%d) err = %v, want *LevelError{%d}", level, err, level)
		}
	}
}

func TestSource_ConfigureReturnsCopy(t *testing.T) {
	s := NewSource(map[int]Pool{1: {"cat", "dog"}})
	p, err := s.Configure(1)
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	p[0] = "mutated"
	again, _ := s.Configure(1)
	if again[0] != "cat" {
		t.Errorf("pool mutated through returned slice: %v", again)
	}
}

func TestSource_SkipsEmptyAndNonPositive(t *testing.T) {
	s := NewSource(map[int]Pool{0: {"x"}, 1: {}, 2: {"a", "a", "b"}})
	if got, want := s.Levels(), []int{2}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Levels() = %v, want %v", got, want)
	}
	p, _ := s.Configure(2)
	if want := (Pool{"a", "b"}); !reflect.DeepEqual(p, want) {
		t.Errorf("pool = %v, want %v", p, want)
	}
}

func TestDefault_Verbatim(t *testing.T) {
	want := map[int]Pool{
		1: {"cat", "dog", "sun", "hat", "pen", "box", "red", "leg", "eye", "arm"},
		2: {"apple", "house", "water", "queen", "juice", "train", "frog", "kite"},
		3: {"orange", "garden", "rabbit", "window", "butter", "yellow", "jacket"},
		4: {"elephant", "computer", "birthday", "mountain", "hospital", "friendly"},
		5: {"adventure", "beautiful", "dangerous", "education", "furniture"},
		6: {"government", "helicopter", "immediately", "knowledge", "laboratory"},
		7: {"magnificent", "neighborhood", "opportunity", "photograph", "qualification"},
		8: {"revolution", "significant", "temperature", "university", "vegetarian"},
		9: {"accommodation", "communication", "determination", "entertainment", "frustration"},
	}
	if got := Default(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Default() = %v, want %v", got, want)
	}
}

func TestLoadJSON_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":    `{"1": [`,
		"bad key":     `{"one": ["cat"]}`,
		"zero level":  `{"0": ["cat"]}`,
		"empty pool":  `{"1": []}`,
		"blank words": `{"1": ["  ", ""]}`,
		"no levels":   `{}`,
		"wrong shape": `{"1": "cat"}`,
	}
	for name, doc := range cases {
		_, err := LoadJSON(strings.NewReader(doc))
		var le *LoadError
		if !errors.As(err, &le) {
			t.Errorf("%s: err = %v, want *LoadError", name, err)
		}
	}
}

func TestLoad_MergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wordlists.json")
	if err := os.WriteFile(path, []byte(`{"1": ["zebra", " yak ", "zebra"], "12": ["quokka"]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	pools := Load(context.Background(), Options{File: path}, zerolog.Nop())
	if got, want := pools[1], (Pool{"zebra", "yak"}); !reflect.DeepEqual(got, want) {
		t.Errorf("level 1 = %v, want %v", got, want)
	}
	if got, want := pools[12], (Pool{"quokka"}); !reflect.DeepEqual(got, want) {
		t.Errorf("level 12 = %v, want %v", got, want)
	}
	if got, want := pools[2], Default()[2]; !reflect.DeepEqual(got, want) {
		t.Errorf("level 2 = %v, want default %v", got, want)
	}
}

func TestLoad_MissingFileFallsBack(t *testing.T) {
	pools := Load(context.Background(), Options{File: filepath.Join(t.TempDir(), "missing.json")}, zerolog.Nop())
	if !reflect.DeepEqual(pools, Default()) {
		t.Errorf("expected defaults after failed load, got %v", pools)
	}
}

func TestLoadFile_ErrorNamesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"x": ["a"]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFile(path)
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v, want *LoadError", err)
	}
	if le.Source != path {
		t.Errorf("Source = %q, want %q", le.Source, path)
	}
}
