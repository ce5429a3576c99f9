// internal/httpserver/server.go
//
// HTTP server wiring for the falling-words display.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/" (display page), "/static/*", "/health", "/levels".
//   - Game endpoints: POST /game/* and POST /input, answered with a snapshot.
//   - Round history: GET /rounds, GET /rounds/{id}.
//   - Live display channel: GET /ws (see ws.go).
//
// Notes:
//   - The controller is only ever touched on the actor goroutine: every
//     handler goes through Actor.Call (or Actor.Do for fire-and-forget input).
//   - The request timeout is applied to the REST group only; /ws is
//     long-lived.

package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/fallingwords/assets"
	"github.com/robalobadob/fallingwords/internal/game"
	"github.com/robalobadob/fallingwords/internal/input"
	"github.com/robalobadob/fallingwords/internal/store"
	"github.com/robalobadob/fallingwords/internal/surface"
	"github.com/robalobadob/fallingwords/internal/views"
)

// Actor runs functions on the goroutine that owns the controller.
// *clock.Loop satisfies it.
type Actor interface {
	Call(ctx context.Context, fn func()) error
	Do(fn func())
}

// Deps are the collaborators a Server needs. Actor, Game and Hub are required.
type Deps struct {
	Actor        Actor
	Game         *game.Controller
	Hub          *surface.Hub
	Store        store.Store
	Bindings     input.Bindings
	ClientOrigin string // CORS origin; empty disables CORS headers
	// LockBounds ignores display resizes, for a scene sized by another
	// surface (the terminal).
	LockBounds bool
	Logger     *zerolog.Logger
}

// Server bundles router and game collaborators.
type Server struct {
	r        *chi.Mux
	actor    Actor
	game     *game.Controller
	hub      *surface.Hub
	store    store.Store
	bindings input.Bindings
	locked   bool
	log      zerolog.Logger
	http     *http.Server
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		actor:    d.Actor,
		game:     d.Game,
		hub:      d.Hub,
		store:    d.Store,
		bindings: d.Bindings,
		locked:   d.LockBounds,
	}
	s.http = &http.Server{Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	if s.store == nil {
		s.store = store.NewMemoryStore()
	}
	if s.bindings == nil {
		s.bindings = input.DefaultBindings()
	}
	if d.Logger != nil {
		s.log = *d.Logger
	} else {
		s.log = log.With().Str("component", "http").Logger()
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)         // add X-Request-ID
	s.r.Use(chimw.RealIP)            // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)         // recover from panics
	s.r.Use(corsFor(d.ClientOrigin)) // single-origin CORS for remote displays

	// --- page + live channel ---
	s.r.Get("/", s.handleIndex)
	s.r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(assets.Static()))))
	s.r.Get("/ws", s.handleWS)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		// --- diagnostics ---
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		s.mountGame(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr and blocks until Shutdown.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	err = s.http.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFor enables CORS for a single origin. An empty origin is a no-op.
func corsFor(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if origin == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------- page --------------------------------------

// handleIndex renders the display page with a button per loaded level.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var levels []int
	if err := s.actor.Call(r.Context(), func() { levels = s.game.Levels() }); err != nil {
		http.Error(w, "game unavailable", http.StatusServiceUnavailable)
		return
	}
	render(w, r, views.Index(levels))
}

func render(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		http.Error(w, "failed to render", http.StatusInternalServerError)
	}
}
