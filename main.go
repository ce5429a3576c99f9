// main.go
//
// Falling-words display server.
// Wiring:
//   - config from .env / environment (internal/config)
//   - word lists: embedded defaults, optional WORDS_FILE and WORDS_DB
//   - one actor loop (internal/clock) owning the round controller
//   - presentation fanned out to /ws displays through surface.Hub
//   - finished rounds kept in the in-memory store
//
// Flags:
//   -seed-words  write the configured word lists into WORDS_DB and exit
package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/fallingwords/internal/clock"
	"github.com/robalobadob/fallingwords/internal/config"
	"github.com/robalobadob/fallingwords/internal/database"
	"github.com/robalobadob/fallingwords/internal/game"
	"github.com/robalobadob/fallingwords/internal/httpserver"
	"github.com/robalobadob/fallingwords/internal/motion"
	"github.com/robalobadob/fallingwords/internal/store"
	"github.com/robalobadob/fallingwords/internal/surface"
	"github.com/robalobadob/fallingwords/internal/words"
)

func main() {
	seed := flag.Bool("seed-words", false, "write the configured word lists into WORDS_DB and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("bad configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if cfg.WordsDB != "" {
		db, err = database.Open(cfg.WordsDB)
		if err != nil {
			log.Fatal().Err(err).Str("dsn", cfg.WordsDB).Msg("open word database")
		}
		defer db.Close()
		if err := database.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("migrate word database")
		}
	}

	wordsLog := log.With().Str("component", "words").Logger()
	if *seed {
		if db == nil {
			log.Fatal().Msg("-seed-words needs WORDS_DB")
		}
		pools := words.Load(ctx, words.Options{File: cfg.WordsFile}, wordsLog)
		lists := make(map[int][]string, len(pools))
		for level, p := range pools {
			lists[level] = p
		}
		if err := database.SeedPools(ctx, db, lists); err != nil {
			log.Fatal().Err(err).Msg("seed word database")
		}
		logSeeded(ctx, db, log.Logger)
		return
	}

	src := words.NewSource(words.Load(ctx, words.Options{File: cfg.WordsFile, DB: db}, wordsLog))
	levels, total := src.Stats()
	log.Info().Int("levels", levels).Int("words", total).Msg("word lists ready")

	loop := clock.NewLoop(cfg.FrameHz)
	hub := surface.NewHub(log.With().Str("component", "hub").Logger())
	mem := store.NewMemoryStore()
	charWidth := cfg.CharWidth

	ctl := game.New(game.Config{
		Words:        src,
		Scheduler:    loop,
		Surface:      hub,
		RoundSeconds: cfg.RoundSeconds,
		Players:      cfg.Players,
		Bounds:       motion.Bounds{Width: cfg.SceneWidth, Height: cfg.SceneHeight},
		Measure: func(text string) float64 {
			return float64(utf8.RuneCountInString(text)) * charWidth
		},
		OnRoundEnd: func(r game.Result) {
			if err := mem.Save(context.Background(), r); err != nil {
				log.Warn().Err(err).Str("round", r.ID).Msg("save round")
			}
		},
	})

	go func() {
		if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("game loop stopped")
		}
	}()

	srv := httpserver.New(httpserver.Deps{
		Actor:        loop,
		Game:         ctl,
		Hub:          hub,
		Store:        mem,
		Bindings:     cfg.Bindings,
		ClientOrigin: cfg.ClientOrigin,
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("port", cfg.Port).Msg("starting fallingwords server")
	if err := srv.Start(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// logSeeded reports the per-level word counts after -seed-words.
func logSeeded(ctx context.Context, db *sql.DB, logger zerolog.Logger) {
	counts, err := database.CountWords(ctx, db)
	if err != nil {
		logger.Warn().Err(err).Msg("count seeded words")
		return
	}
	logger.Info().Interface("words", counts).Msg("word database seeded")
}
