// internal/words/loader.go
//
// Loading word lists from outside the binary.
//
// Initialization behavior (Load):
//   1. Start from the embedded defaults (assets/wordlists.json, levels 1–9).
//   2. If Options.File is set, read it as JSON ({"1": ["cat", ...], ...})
//      and merge it over the defaults level by level.
//   3. If Options.DB is set, read the word_lists table and merge it too.
//
// Any failure in steps 2–3 is a *LoadError: it is logged and that source is
// skipped, the game keeps running on whatever was loaded before it.

package words

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/robalobadob/fallingwords/assets"
)

// LoadError wraps a failure to read an external word-list source.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("words: load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

var (
	errEmptyPool = errors.New("empty pool")
	errNoLevels  = errors.New("no levels")
)

var (
	defaultOnce  sync.Once
	defaultPools map[int]Pool
)

// Default returns a copy of the embedded level → pool table.
func Default() map[int]Pool {
	defaultOnce.Do(func() {
		p, err := LoadJSON(strings.NewReader(string(assets.DefaultWordLists())))
		if err != nil {
			panic("words: embedded defaults: " + err.Error())
		}
		defaultPools = p
	})
	return clonePools(defaultPools)
}

// Options selects the external sources Load consults.
type Options struct {
	File string  // JSON file path, optional
	DB   *sql.DB // database with a word_lists table, optional
}

// Load returns the defaults merged with every external source that loads
// cleanly. It never fails; broken sources are logged and skipped.
func Load(ctx context.Context, opts Options, logger zerolog.Logger) map[int]Pool {
	pools := Default()

	if opts.File != "" {
		loaded, err := LoadFile(opts.File)
		if err != nil {
			logger.Warn().Err(err).Str("source", opts.File).Msg("word list unavailable, using defaults")
		} else {
			pools = Merge(pools, loaded)
			logger.Info().Str("source", opts.File).Int("levels", len(loaded)).Msg("word list loaded")
		}
	}

	if opts.DB != nil {
		loaded, err := LoadDB(ctx, opts.DB)
		if err != nil {
			logger.Warn().Err(err).Str("source", "db").Msg("word list unavailable, using defaults")
		} else {
			pools = Merge(pools, loaded)
			logger.Info().Str("source", "db").Int("levels", len(loaded)).Msg("word list loaded")
		}
	}
	return pools
}

// LoadFile reads a JSON word-list file.
func LoadFile(path string) (map[int]Pool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer f.Close()
	pools, err := LoadJSON(f)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Source = path
		}
		return nil, err
	}
	return pools, nil
}

// LoadJSON decodes {"<level>": ["word", ...]}.
// Level keys must be positive integers and every pool must keep at least
// one non-blank word, otherwise the whole document is rejected.
func LoadJSON(r io.Reader) (map[int]Pool, error) {
	var raw map[string][]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, &LoadError{Source: "json", Err: err}
	}
	out := make(map[int]Pool, len(raw))
	for key, list := range raw {
		level, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || level < 1 {
			return nil, &LoadError{Source: "json", Err: fmt.Errorf("bad level key %q", key)}
		}
		p := normalize(list)
		if len(p) == 0 {
			return nil, &LoadError{Source: "json", Err: fmt.Errorf("level %d: %w", level, errEmptyPool)}
		}
		out[level] = p
	}
	if len(out) == 0 {
		return nil, &LoadError{Source: "json", Err: errNoLevels}
	}
	return out, nil
}

// LoadDB reads the word_lists table, ordered by level then position.
func LoadDB(ctx context.Context, db *sql.DB) (map[int]Pool, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT level, word FROM word_lists ORDER BY level ASC, position ASC`)
	if err != nil {
		return nil, &LoadError{Source: "db", Err: err}
	}
	defer rows.Close()

	raw := make(map[int][]string)
	for rows.Next() {
		var level int
		var word string
		if err := rows.Scan(&level, &word); err != nil {
			return nil, &LoadError{Source: "db", Err: err}
		}
		if level < 1 {
			return nil, &LoadError{Source: "db", Err: fmt.Errorf("bad level %d", level)}
		}
		raw[level] = append(raw[level], word)
	}
	if err := rows.Err(); err != nil {
		return nil, &LoadError{Source: "db", Err: err}
	}

	out := make(map[int]Pool, len(raw))
	for level, list := range raw {
		if p := normalize(list); len(p) > 0 {
			out[level] = p
		}
	}
	if len(out) == 0 {
		return nil, &LoadError{Source: "db", Err: errNoLevels}
	}
	return out, nil
}

// Merge returns base with every level of over replacing base's pool.
func Merge(base, over map[int]Pool) map[int]Pool {
	out := clonePools(base)
	for level, p := range over {
		out[level] = append(Pool(nil), p...)
	}
	return out
}

// normalize trims words, drops blanks and repeated entries.
func normalize(list []string) Pool {
	p := make(Pool, 0, len(list))
	for _, w := range list {
		if w = strings.TrimSpace(w); w != "" {
			p = append(p, w)
		}
	}
	return dedupe(p)
}

func clonePools(in map[int]Pool) map[int]Pool {
	out := make(map[int]Pool, len(in))
	for level, p := range in {
		out[level] = append(Pool(nil), p...)
	}
	return out
}
