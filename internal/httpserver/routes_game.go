// internal/httpserver/routes_game.go
//
// REST control of the single shared round.
//
//   GET  /levels             → {"levels":[1,2,...]}
//   GET  /state              → game.Snapshot
//   GET  /rounds             → finished rounds, newest first
//   GET  /rounds/{id}        → one finished round
//   POST /game/start         {level}          → snapshot | 400 invalid_level | 409 round_active
//   POST /game/guess         {player}         → snapshot
//   POST /game/pause|resume|toggle-pause|quit|reset → snapshot
//   POST /game/resize        {width,height}   → snapshot
//   POST /input              {key}            → {"handled":bool,"state":snapshot}
//
// Actions outside their valid state succeed with an unchanged snapshot,
// mirroring the controller's no-op semantics.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/fallingwords/internal/game"
	"github.com/robalobadob/fallingwords/internal/store"
	"github.com/robalobadob/fallingwords/internal/words"
)

func (s *Server) mountGame(r chi.Router) {
	r.Get("/levels", s.handleLevels)
	r.Get("/state", s.handleState)
	r.Get("/rounds", s.handleRounds)
	r.Get("/rounds/{id}", s.handleRound)

	r.Route("/game", func(r chi.Router) {
		r.Post("/start", s.handleStart)
		r.Post("/guess", s.handleGuess)
		r.Post("/pause", s.action(func(g *game.Controller) { g.Pause() }))
		r.Post("/resume", s.action(func(g *game.Controller) { g.Resume() }))
		r.Post("/toggle-pause", s.action(func(g *game.Controller) { g.TogglePause() }))
		r.Post("/quit", s.action(func(g *game.Controller) { g.Quit() }))
		r.Post("/reset", s.action(func(g *game.Controller) { g.Reset() }))
		r.Post("/resize", s.handleResize)
	})
	r.Post("/input", s.handleInput)
}

// call runs fn on the actor and answers 503 if the actor is gone.
func (s *Server) call(w http.ResponseWriter, r *http.Request, fn func()) bool {
	if err := s.actor.Call(r.Context(), fn); err != nil {
		s.log.Warn().Err(err).Str("path", r.URL.Path).Msg("actor unavailable")
		http.Error(w, `{"error":"unavailable"}`, http.StatusServiceUnavailable)
		return false
	}
	return true
}

// action wraps a body-less controller action that answers with a snapshot.
func (s *Server) action(fn func(*game.Controller)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var snap game.Snapshot
		if !s.call(w, r, func() {
			fn(s.game)
			snap = s.game.Snapshot()
		}) {
			return
		}
		_ = json.NewEncoder(w).Encode(snap)
	}
}

func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	var levels []int
	if !s.call(w, r, func() { levels = s.game.Levels() }) {
		return
	}
	_ = json.NewEncoder(w).Encode(map[string][]int{"levels": levels})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.action(func(*game.Controller) {})(w, r)
}

// startReq is the payload for POST /game/start.
type startReq struct {
	Level int `json:"level"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	var (
		snap   game.Snapshot
		err    error
		active bool
	)
	if !s.call(w, r, func() {
		if active = s.game.State() != game.Idle; active {
			return
		}
		err = s.game.Start(req.Level)
		snap = s.game.Snapshot()
	}) {
		return
	}
	switch {
	case active:
		http.Error(w, `{"error":"round_active"}`, http.StatusConflict)
	case errors.Is(err, words.ErrInvalidLevel):
		http.Error(w, `{"error":"invalid_level"}`, http.StatusBadRequest)
	case err != nil:
		http.Error(w, `{"error":"start_failed"}`, http.StatusInternalServerError)
	default:
		_ = json.NewEncoder(w).Encode(snap)
	}
}

// guessReq is the payload for POST /game/guess. Player is 0-based.
type guessReq struct {
	Player int `json:"player"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	s.action(func(g *game.Controller) { g.Guess(req.Player) })(w, r)
}

// resizeReq is the payload for POST /game/resize.
type resizeReq struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req resizeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		http.Error(w, `{"error":"bad_size"}`, http.StatusBadRequest)
		return
	}
	if s.locked {
		http.Error(w, `{"error":"bounds_locked"}`, http.StatusConflict)
		return
	}
	s.action(func(g *game.Controller) { g.Resize(req.Width, req.Height) })(w, r)
}

// inputReq is the payload for POST /input: a key name as bound in KEY_BINDINGS.
type inputReq struct {
	Key string `json:"key"`
}

type inputRes struct {
	Handled bool          `json:"handled"`
	State   game.Snapshot `json:"state"`
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	var req inputReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	var res inputRes
	if !s.call(w, r, func() {
		res.Handled = s.bindings.Dispatch(req.Key, s.game)
		res.State = s.game.Snapshot()
	}) {
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

// ------------------------------ history ------------------------------------

func (s *Server) handleRounds(w http.ResponseWriter, r *http.Request) {
	rounds, err := s.store.List(r.Context())
	if err != nil {
		http.Error(w, `{"error":"store_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(rounds)
}

func (s *Server) handleRound(w http.ResponseWriter, r *http.Request) {
	res, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"store_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}
