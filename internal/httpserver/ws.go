// internal/httpserver/ws.go
//
// GET /ws: live channel for display pages.
//
// Server → client: first a "state" frame with the full snapshot, then every
// presentation command the controller issues (surface.Msg* types).
// Client → server: "key", "guess", "start", "pause", "quit", "reset",
// "resize". Client frames are applied on the actor without waiting; their
// effects come back as ordinary presentation frames.
//
// One writer goroutine owns the connection for writes (frames + pings); the
// handler goroutine reads.

package httpserver

import (
	"fmt"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/robalobadob/fallingwords/internal/surface"
)

const (
	wsReadLimit    = 1 << 16
	wsPongWait     = 60 * time.Second
	wsPingEvery    = 25 * time.Second
	wsWriteTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	// Displays are usually opened from the same host; CORS policy lives in
	// the REST middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("ws upgrade")
		return
	}
	defer conn.Close()

	// Subscribe and snapshot in the same actor turn so no frame is lost or
	// duplicated between them.
	var (
		sub    chan []byte
		state  []byte
		encErr error
	)
	if err := s.actor.Call(r.Context(), func() {
		sub = s.hub.Subscribe()
		state, encErr = surface.Encode(surface.MsgState, s.game.Snapshot())
	}); err != nil {
		s.log.Warn().Err(err).Msg("ws: actor unavailable")
		return
	}
	defer s.hub.Unsubscribe(sub)
	if encErr != nil {
		s.log.Error().Err(encErr).Msg("ws: encode state")
		return
	}

	wsLog := s.log.With().Str("req", chimw.GetReqID(r.Context())).Str("remote", r.RemoteAddr).Logger()
	wsLog.Debug().Int("displays", s.hub.Subscribers()).Msg("ws connected")
	defer wsLog.Debug().Msg("ws disconnected")

	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go s.wsWriter(conn, state, sub, done)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Debug().Err(err).Msg("ws read")
			}
			return
		}
		if err := s.applyClientFrame(msg); err != nil {
			wsLog.Debug().Err(err).Msg("ws: bad client frame")
		}
	}
}

// wsWriter sends the initial state, then hub frames and pings until the
// subscription closes, done fires or a write fails.
func (s *Server) wsWriter(conn *websocket.Conn, state []byte, sub chan []byte, done chan struct{}) {
	ticker := time.NewTicker(wsPingEvery)
	defer ticker.Stop()

	write := func(kind int, b []byte) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteMessage(kind, b); err != nil {
			_ = conn.Close() // unblocks the reader
			return false
		}
		return true
	}

	if !write(websocket.TextMessage, state) {
		return
	}
	for {
		select {
		case frame, ok := <-sub:
			if !ok {
				return
			}
			if !write(websocket.TextMessage, frame) {
				return
			}
		case <-ticker.C:
			if !write(websocket.PingMessage, nil) {
				return
			}
		case <-done:
			return
		}
	}
}

// applyClientFrame decodes one input frame and queues it on the actor.
func (s *Server) applyClientFrame(msg []byte) error {
	env, err := surface.DecodeEnvelope(msg)
	if err != nil {
		return err
	}
	g := s.game
	switch env.T {
	case surface.MsgKey:
		k, err := surface.DecodePayload[surface.Key](env)
		if err != nil {
			return err
		}
		s.actor.Do(func() { s.bindings.Dispatch(k.Key, g) })
	case surface.MsgGuess:
		p, err := surface.DecodePayload[surface.Guess](env)
		if err != nil {
			return err
		}
		s.actor.Do(func() { g.Guess(p.Player) })
	case surface.MsgStart:
		p, err := surface.DecodePayload[surface.Start](env)
		if err != nil {
			return err
		}
		s.actor.Do(func() { _ = g.Start(p.Level) })
	case surface.MsgPause:
		s.actor.Do(g.TogglePause)
	case surface.MsgQuit:
		s.actor.Do(g.Quit)
	case surface.MsgReset:
		s.actor.Do(g.Reset)
	case surface.MsgResize:
		p, err := surface.DecodePayload[surface.Resize](env)
		if err != nil {
			return err
		}
		if s.locked {
			return nil
		}
		s.actor.Do(func() { g.Resize(p.Width, p.Height) })
	default:
		return fmt.Errorf("unknown frame type %q", env.T)
	}
	return nil
}
