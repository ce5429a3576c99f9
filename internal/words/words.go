// internal/words/words.go
//
// Word pools per level and the selection rule used by the round controller.
//
// Responsibilities:
//   - Hold one immutable Pool per configured level (Source).
//   - Reject unknown levels with ErrInvalidLevel instead of falling through.
//   - Pick the next falling word uniformly at random, never repeating the
//     previous word unless the pool only has one entry (Pool.Next).
//
// Pools come from Load (external file / database, merged over the embedded
// defaults). See loader.go.

package words

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"sort"
)

// ErrInvalidLevel is returned (wrapped in *LevelError) when a level has no pool.
var ErrInvalidLevel = errors.New("words: invalid level")

// LevelError reports the level that was requested but not configured.
type LevelError struct {
	Level int
}

func (e *LevelError) Error() string {
	return fmt.Sprintf("words: level %d is not configured", e.Level)
}

// Unwrap lets errors.Is(err, ErrInvalidLevel) match.
func (e *LevelError) Unwrap() error { return ErrInvalidLevel }

// Pool is the ordered list of distinct words for one level.
type Pool []string

// Next returns a uniformly random word from the pool that differs from
// previous whenever the pool holds another word. Slots equal to previous
// are all skipped, so a pool with duplicates still never repeats.
// If previous is not part of the pool every word is a candidate.
// An empty pool yields "".
func (p Pool) Next(rng *rand.Rand, previous string) string {
	switch len(p) {
	case 0:
		return ""
	case 1:
		return p[0]
	}
	others := len(p)
	for _, w := range p {
		if w == previous {
			others--
		}
	}
	switch others {
	case len(p):
		return p[rng.Intn(len(p))]
	case 0:
		return previous
	}
	// Pick the k-th slot that is not previous.
	k := rng.Intn(others)
	for _, w := range p {
		if w == previous {
			continue
		}
		if k == 0 {
			return w
		}
		k--
	}
	return previous
}

// Source holds the pools for every configured level.
// It is read-only after construction and safe to share.
type Source struct {
	pools map[int]Pool
}

// NewSource builds a Source from level → pool. Non-positive levels and
// empty pools are skipped so every configured level is playable.
func NewSource(pools map[int]Pool) *Source {
	s := &Source{pools: make(map[int]Pool, len(pools))}
	for level, p := range pools {
		if level < 1 || len(p) == 0 {
			continue
		}
		s.pools[level] = dedupe(p)
	}
	return s
}

// Configure returns the pool for level or a *LevelError wrapping ErrInvalidLevel.
func (s *Source) Configure(level int) (Pool, error) {
	p, ok := s.pools[level]
	if !ok {
		return nil, &LevelError{Level: level}
	}
	return slices.Clone(p), nil
}

// Has reports whether level has a pool.
func (s *Source) Has(level int) bool {
	_, ok := s.pools[level]
	return ok
}

// Levels returns the configured levels in ascending order.
func (s *Source) Levels() []int {
	out := make([]int, 0, len(s.pools))
	for level := range s.pools {
		out = append(out, level)
	}
	sort.Ints(out)
	return out
}

// Stats returns (levels, total words).
func (s *Source) Stats() (levels int, total int) {
	for _, p := range s.pools {
		total += len(p)
	}
	return len(s.pools), total
}

// dedupe drops repeated words keeping the first occurrence.
func dedupe(p Pool) Pool {
	seen := make(map[string]struct{}, len(p))
	out := make(Pool, 0, len(p))
	for _, w := range p {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
