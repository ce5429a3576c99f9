package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/robalobadob/fallingwords/internal/clock"
	"github.com/robalobadob/fallingwords/internal/game"
	"github.com/robalobadob/fallingwords/internal/store"
	"github.com/robalobadob/fallingwords/internal/surface"
	"github.com/robalobadob/fallingwords/internal/words"
)

type testEnv struct {
	srv   *Server
	ts    *httptest.Server
	store store.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, nil)
}

// newTestEnvWith lets a test adjust Deps before the server is built.
func newTestEnvWith(t *testing.T, adjust func(*Deps)) *testEnv {
	t.Helper()
	nop := zerolog.Nop()
	loop := clock.NewLoop(60)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = loop.Run(ctx) }()
	t.Cleanup(cancel)

	hub := surface.NewHub(nop)
	st := store.NewMemoryStore()
	ctl := game.New(game.Config{
		Words: words.NewSource(map[int]words.Pool{
			1: {"alpha", "bravo", "charlie"},
			2: {"delta", "echo"},
		}),
		Scheduler: loop,
		Surface:   hub,
		Rand:      rand.New(rand.NewSource(7)),
		Logger:    &nop,
		OnRoundEnd: func(r game.Result) {
			_ = st.Save(context.Background(), r)
		},
	})
	d := Deps{Actor: loop, Game: ctl, Hub: hub, Store: st, Logger: &nop}
	if adjust != nil {
		adjust(&d)
	}
	srv := New(d)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return &testEnv{srv: srv, ts: ts, store: st}
}

// snapshot mirrors game.Snapshot with the state decoded as text.
type snapshot struct {
	State     string `json:"state"`
	RoundID   string `json:"roundId"`
	Level     int    `json:"level"`
	Levels    []int  `json:"levels"`
	Scores    []int  `json:"scores"`
	Remaining int    `json:"remaining"`
	Word      *struct {
		Text string `json:"text"`
	} `json:"word"`
	Winners []int  `json:"winners"`
	Text    string `json:"text"`
}

func (e *testEnv) post(t *testing.T, path, body string) (*http.Response, []byte) {
	t.Helper()
	res, err := http.Post(e.ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer res.Body.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(res.Body)
	return res, buf.Bytes()
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, []byte) {
	t.Helper()
	res, err := http.Get(e.ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer res.Body.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(res.Body)
	return res, buf.Bytes()
}

func decodeSnap(t *testing.T, b []byte) snapshot {
	t.Helper()
	var s snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		t.Fatalf("decode %s: %v", b, err)
	}
	return s
}

func TestHealthAndIndex(t *testing.T) {
	e := newTestEnv(t)
	res, body := e.get(t, "/health")
	if res.StatusCode != http.StatusOK || string(body) != `{"ok":true}` {
		t.Errorf("/health = %d %s", res.StatusCode, body)
	}
	res, body = e.get(t, "/")
	if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("/ content-type = %q", ct)
	}
	if !bytes.Contains(body, []byte("<html")) {
		t.Error("/ did not serve the display page")
	}
	for _, want := range []string{`data-level="1"`, `data-level="2"`, `src="/static/display.js"`} {
		if !bytes.Contains(body, []byte(want)) {
			t.Errorf("/ missing %s", want)
		}
	}
	if bytes.Contains(body, []byte(`data-level="3"`)) {
		t.Error("/ rendered a button for a level that was not loaded")
	}
	res, body = e.get(t, "/static/display.js")
	if res.StatusCode != http.StatusOK || !bytes.Contains(body, []byte("/ws")) {
		t.Errorf("/static/display.js = %d", res.StatusCode)
	}
	res, _ = e.get(t, "/nope")
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("/nope = %d, want 404", res.StatusCode)
	}
}

func TestLevels(t *testing.T) {
	e := newTestEnv(t)
	_, body := e.get(t, "/levels")
	if string(bytes.TrimSpace(body)) != `{"levels":[1,2]}` {
		t.Errorf("/levels = %s", body)
	}
}

func TestStartGuessQuit(t *testing.T) {
	e := newTestEnv(t)

	res, body := e.post(t, "/game/start", `{"level":1}`)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("start = %d %s", res.StatusCode, body)
	}
	s := decodeSnap(t, body)
	if s.State != "running" || s.Level != 1 || s.Remaining != 60 || s.Word == nil {
		t.Fatalf("after start: %+v", s)
	}

	res, _ = e.post(t, "/game/start", `{"level":2}`)
	if res.StatusCode != http.StatusConflict {
		t.Errorf("second start = %d, want 409", res.StatusCode)
	}

	_, body = e.post(t, "/game/guess", `{"player":1}`)
	if s := decodeSnap(t, body); s.Scores[1] != 1 {
		t.Errorf("scores after guess = %v", s.Scores)
	}
	_, body = e.post(t, "/game/guess", `{"player":9}`)
	if s := decodeSnap(t, body); s.Scores[1] != 1 || s.State != "running" {
		t.Errorf("out-of-range guess changed state: %+v", s)
	}

	_, body = e.post(t, "/game/pause", ``)
	if s := decodeSnap(t, body); s.State != "paused" {
		t.Errorf("state after pause = %q", s.State)
	}
	_, body = e.post(t, "/game/guess", `{"player":1}`)
	if s := decodeSnap(t, body); s.Scores[1] != 1 {
		t.Errorf("guess while paused scored: %v", s.Scores)
	}

	_, body = e.post(t, "/game/quit", ``)
	s = decodeSnap(t, body)
	if s.State != "ended" || s.Text != "Player 2 Wins!" {
		t.Errorf("after quit: %+v", s)
	}

	_, body = e.get(t, "/rounds")
	var rounds []game.Result
	if err := json.Unmarshal(body, &rounds); err != nil || len(rounds) != 1 {
		t.Fatalf("/rounds = %s (%v)", body, err)
	}
	if rounds[0].Reason != game.ReasonQuit || rounds[0].ID != s.RoundID {
		t.Errorf("round = %+v", rounds[0])
	}
	res, _ = e.get(t, "/rounds/"+s.RoundID)
	if res.StatusCode != http.StatusOK {
		t.Errorf("/rounds/{id} = %d", res.StatusCode)
	}
	res, _ = e.get(t, "/rounds/missing")
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("/rounds/missing = %d", res.StatusCode)
	}

	_, body = e.post(t, "/game/reset", ``)
	if s := decodeSnap(t, body); s.State != "idle" || s.Word != nil {
		t.Errorf("after reset: %+v", s)
	}
}

func TestStartInvalidLevel(t *testing.T) {
	e := newTestEnv(t)
	res, body := e.post(t, "/game/start", `{"level":42}`)
	if res.StatusCode != http.StatusBadRequest || !bytes.Contains(body, []byte("invalid_level")) {
		t.Errorf("start(42) = %d %s", res.StatusCode, body)
	}
	res, _ = e.post(t, "/game/start", `{nope`)
	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("bad json = %d", res.StatusCode)
	}
	_, body = e.get(t, "/state")
	if s := decodeSnap(t, body); s.State != "idle" {
		t.Errorf("state = %q, want idle", s.State)
	}
}

func TestInputKeys(t *testing.T) {
	e := newTestEnv(t)

	_, body := e.post(t, "/input", `{"key":"q"}`)
	var res struct {
		Handled bool     `json:"handled"`
		State   snapshot `json:"state"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatal(err)
	}
	if res.Handled {
		t.Error("key handled while idle")
	}

	e.post(t, "/game/start", `{"level":2}`)
	_, body = e.post(t, "/input", `{"key":"E"}`)
	_ = json.Unmarshal(body, &res)
	if !res.Handled || res.State.Scores[2] != 1 {
		t.Errorf("E key: %+v", res)
	}
	_, body = e.post(t, "/input", `{"key":"p"}`)
	_ = json.Unmarshal(body, &res)
	if res.State.State != "paused" {
		t.Errorf("p key state = %q", res.State.State)
	}
}

func TestResize(t *testing.T) {
	e := newTestEnv(t)
	res, _ := e.post(t, "/game/resize", `{"width":0,"height":10}`)
	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("zero resize = %d", res.StatusCode)
	}
	_, body := e.post(t, "/game/resize", `{"width":640,"height":480}`)
	var s struct {
		Bounds struct{ Width, Height float64 } `json:"bounds"`
	}
	_ = json.Unmarshal(body, &s)
	if s.Bounds.Width != 640 || s.Bounds.Height != 480 {
		t.Errorf("bounds = %+v", s.Bounds)
	}
}

func TestResize_LockedBounds(t *testing.T) {
	e := newTestEnvWith(t, func(d *Deps) { d.LockBounds = true })
	res, _ := e.post(t, "/game/resize", `{"width":640,"height":480}`)
	if res.StatusCode != http.StatusConflict {
		t.Errorf("locked resize = %d, want 409", res.StatusCode)
	}
	url := "ws" + strings.TrimPrefix(e.ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"t":"resize","p":{"width":320,"height":200}}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	// A later frame on the same connection is applied after the resize
	// would have been, so the snapshot below reflects it.
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"t":"start","p":{"level":1}}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for {
		_, body := e.get(t, "/state")
		var s struct {
			State  string                         `json:"state"`
			Bounds struct{ Width, Height float64 } `json:"bounds"`
		}
		_ = json.Unmarshal(body, &s)
		if s.State == "running" {
			if s.Bounds.Width != 1280 || s.Bounds.Height != 720 {
				t.Errorf("bounds = %+v, want the default scene", s.Bounds)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("round never started: %s", body)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWebSocket_StateThenCommands(t *testing.T) {
	e := newTestEnv(t)
	url := "ws" + strings.TrimPrefix(e.ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	read := func() surface.Envelope {
		t.Helper()
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		env, err := surface.DecodeEnvelope(msg)
		if err != nil {
			t.Fatalf("decode %s: %v", msg, err)
		}
		return env
	}

	first := read()
	if first.T != surface.MsgState {
		t.Fatalf("first frame = %q, want state", first.T)
	}
	if s := decodeSnap(t, first.P); s.State != "idle" {
		t.Errorf("initial state = %q", s.State)
	}

	start, _ := surface.Encode(surface.MsgStart, surface.Start{Level: 1})
	if err := conn.WriteMessage(websocket.TextMessage, start); err != nil {
		t.Fatal(err)
	}
	guess, _ := surface.Encode(surface.MsgGuess, surface.Guess{Player: 3})
	if err := conn.WriteMessage(websocket.TextMessage, guess); err != nil {
		t.Fatal(err)
	}

	seen := map[string]bool{}
	for i := 0; i < 500 && !seen["scored"]; i++ {
		env := read()
		seen[env.T] = true
		if env.T == surface.MsgScore {
			sc, err := surface.DecodePayload[surface.Score](env)
			if err == nil && sc.Player == 3 && sc.Score == 1 {
				seen["scored"] = true
			}
		}
	}
	for _, want := range []string{surface.MsgRound, surface.MsgWord, surface.MsgClock, surface.MsgSound, "scored"} {
		if !seen[want] {
			t.Errorf("never saw %q frame (saw %v)", want, seen)
		}
	}
}
