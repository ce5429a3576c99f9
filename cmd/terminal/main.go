// cmd/terminal/main.go
//
// Falling words in a terminal: one shared keyboard, up to four players.
// Uses the same configuration as the server; logs go to LOG_FILE (or are
// discarded) so they do not draw over the screen.
//
// With MIRROR_PORT set the round is also served to browser displays. The
// terminal owns the scene size there; browser resizes are ignored.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/fallingwords/internal/clock"
	"github.com/robalobadob/fallingwords/internal/config"
	"github.com/robalobadob/fallingwords/internal/database"
	"github.com/robalobadob/fallingwords/internal/game"
	"github.com/robalobadob/fallingwords/internal/httpserver"
	"github.com/robalobadob/fallingwords/internal/surface"
	"github.com/robalobadob/fallingwords/internal/terminal"
	"github.com/robalobadob/fallingwords/internal/words"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fallingwords:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var logOut io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	log.Logger = zerolog.New(logOut).With().Timestamp().Logger()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if cfg.WordsDB != "" {
		if db, err = database.Open(cfg.WordsDB); err != nil {
			return fmt.Errorf("open word database: %w", err)
		}
		defer db.Close()
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migrate word database: %w", err)
		}
	}
	src := words.NewSource(words.Load(ctx, words.Options{File: cfg.WordsFile, DB: db},
		log.With().Str("component", "words").Logger()))

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.HideCursor()

	loop := clock.NewLoop(cfg.FrameHz)
	surf := terminal.NewSurface(screen)
	var out game.Surface = surf
	var hub *surface.Hub
	if cfg.MirrorAddr() != "" {
		hub = surface.NewHub(log.With().Str("component", "hub").Logger())
		out = surface.Multi{surf, hub}
	}
	ctl := game.New(game.Config{
		Words:        src,
		Scheduler:    loop,
		Surface:      out,
		RoundSeconds: cfg.RoundSeconds,
		Players:      cfg.Players,
		Bounds:       surf.Bounds(),
		Measure:      terminal.Measure,
	})

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { _ = loop.Run(loopCtx) }()

	if hub != nil {
		srv := httpserver.New(httpserver.Deps{
			Actor:        loop,
			Game:         ctl,
			Hub:          hub,
			Bindings:     cfg.Bindings,
			ClientOrigin: cfg.ClientOrigin,
			LockBounds:   true,
		})
		go func() {
			if err := srv.Start(cfg.MirrorAddr()); err != nil {
				log.Error().Err(err).Msg("mirror server exited")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		log.Info().Str("addr", cfg.MirrorAddr()).Msg("mirroring to browser displays")
	}

	app := &terminal.App{
		Screen:   screen,
		Surface:  surf,
		Game:     ctl,
		Bindings: cfg.Bindings,
		Actor:    loop,
		Log:      log.With().Str("component", "terminal").Logger(),
	}
	if err := app.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
