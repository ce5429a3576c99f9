// internal/game/engine.go
//
// Round controller: the state machine that owns one falling-words round.
// Responsibilities:
//   - Validate the level and configure the word pool and speed tier.
//   - Drive the motion loop (one frame chain) and the round countdown.
//   - Apply player actions: start, guess, pause/resume, quit, reset, resize.
//   - Compute the winner set when the round ends and report the Result.
//
// Notes:
//   - The controller is not safe for concurrent use. Every method, and every
//     callback it schedules, runs on the single actor behind the Scheduler.
//   - Actions outside their valid state are silent no-ops; only Start reports
//     an error (unknown level).
//   - The motion chain carries a generation number. Pausing, replacing the
//     word or ending the round bumps it, so a frame from an older chain that
//     still fires does nothing.

package game

import (
	"math"
	"math/rand"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/fallingwords/internal/clock"
	"github.com/robalobadob/fallingwords/internal/motion"
	"github.com/robalobadob/fallingwords/internal/score"
	"github.com/robalobadob/fallingwords/internal/timer"
	"github.com/robalobadob/fallingwords/internal/words"
)

const (
	DefaultRoundSeconds = 60
	DefaultCharWidth    = 14.0 // display units per rune for the default measure
)

// DefaultBounds is the scene size assumed until the surface reports one.
var DefaultBounds = motion.Bounds{Width: 1280, Height: 720}

// Config wires the controller to its collaborators. Words and Scheduler
// are required; everything else has a default.
type Config struct {
	Words        *words.Source
	Scheduler    clock.Scheduler
	Surface      Surface
	Tiers        motion.Tiers
	RoundSeconds int
	Players      int
	Bounds       motion.Bounds
	Measure      func(text string) float64 // word width in display units
	Rand         *rand.Rand
	Now          func() time.Time
	Logger       *zerolog.Logger
	OnRoundEnd   func(Result)
}

// Controller runs rounds. Create with New.
type Controller struct {
	words    *words.Source
	sched    clock.Scheduler
	surface  Surface
	tiers    motion.Tiers
	seconds  int
	players  int
	measure  func(string) float64
	rng      *rand.Rand
	now      func() time.Time
	log      zerolog.Logger
	onEnd    func(Result)
	bounds   motion.Bounds
	board    *score.Board
	timer    *timer.RoundTimer
	mover    *motion.Mover
	state    State
	level    int
	pool     words.Pool
	previous string
	live     bool // a word is on screen

	frameCancel clock.CancelFunc
	chain       uint64

	music     bool // music is playing right now
	roundID   string
	startedAt time.Time
	winners   []int
}

// New builds an idle controller.
func New(cfg Config) *Controller {
	c := &Controller{
		words:   cfg.Words,
		sched:   cfg.Scheduler,
		surface: cfg.Surface,
		tiers:   cfg.Tiers,
		seconds: cfg.RoundSeconds,
		players: cfg.Players,
		measure: cfg.Measure,
		rng:     cfg.Rand,
		now:     cfg.Now,
		onEnd:   cfg.OnRoundEnd,
		bounds:  cfg.Bounds,
	}
	if c.surface == nil {
		c.surface = NopSurface{}
	}
	if len(c.tiers) == 0 {
		c.tiers = motion.DefaultTiers
	}
	if c.seconds < 1 {
		c.seconds = DefaultRoundSeconds
	}
	if c.players < 1 || c.players > score.MaxPlayers {
		c.players = score.MaxPlayers
	}
	if c.measure == nil {
		c.measure = func(text string) float64 {
			return float64(utf8.RuneCountInString(text)) * DefaultCharWidth
		}
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.bounds.Width <= 0 || c.bounds.Height <= 0 {
		c.bounds = DefaultBounds
	}
	if cfg.Logger != nil {
		c.log = *cfg.Logger
	} else {
		c.log = log.With().Str("component", "game").Logger()
	}
	c.board = score.NewBoard(c.players)
	c.timer = timer.New(c.sched)
	c.mover = motion.NewMover(0, 0)
	return c
}

// State returns the current lifecycle phase.
func (c *Controller) State() State { return c.state }

// Active reports whether a round is in progress (running or paused).
func (c *Controller) Active() bool { return c.state == Running || c.state == Paused }

// Levels lists the levels that can be started.
func (c *Controller) Levels() []int { return c.words.Levels() }

// ------------------------------ lifecycle ----------------------------------

// Start begins a round at level. Only valid while Idle; an unknown level
// returns the word source's error and leaves the controller Idle.
func (c *Controller) Start(level int) error {
	if c.state != Idle {
		return nil
	}
	pool, err := c.words.Configure(level)
	if err != nil {
		c.log.Warn().Err(err).Int("level", level).Msg("start rejected")
		return err
	}

	tier := c.tiers.For(level)
	c.mover.SetSpeed(tier.VX, tier.VY)
	c.level = level
	c.pool = pool
	c.previous = ""
	c.board.Reset(c.players)
	c.roundID = uuid.NewString()
	c.startedAt = c.now()
	c.winners = nil
	c.state = Running

	c.surface.ShowRound(level, c.players, c.seconds)
	c.surface.SetClock(c.seconds)
	for i := 0; i < c.players; i++ {
		c.surface.SetScore(i, 0)
	}
	c.music = true
	c.surface.Play(CueMusicStart)

	c.timer.Start(c.seconds, c.onSecond, c.onExpire)
	c.spawn()

	c.log.Debug().Str("round", c.roundID).Int("level", level).
		Float64("vy", tier.VY).Float64("vx", tier.VX).Msg("round started")
	return nil
}

// Guess awards the current word to player. Ignored unless Running;
// an out-of-range player is logged and ignored.
func (c *Controller) Guess(player int) {
	if c.state != Running {
		return
	}
	if err := c.board.Increment(player); err != nil {
		c.log.Debug().Err(err).Int("player", player).Msg("guess ignored")
		return
	}
	c.surface.SetScore(player, c.board.Score(player))
	c.surface.Play(CueScore)
	c.spawn()
}

// Pause freezes the countdown and the falling word. Only valid while Running.
func (c *Controller) Pause() {
	if c.state != Running {
		return
	}
	c.state = Paused
	c.timer.Pause()
	c.stopMotion()
	c.surface.SetPaused(true)
	if c.music {
		c.surface.Play(CueMusicStop)
		c.music = false
	}
	c.log.Debug().Int("remaining", c.timer.Remaining()).Msg("paused")
}

// Resume continues a paused round from exactly where it stopped.
func (c *Controller) Resume() {
	if c.state != Paused {
		return
	}
	c.state = Running
	c.timer.Resume()
	c.surface.SetPaused(false)
	if !c.music {
		c.surface.Play(CueMusicStart)
		c.music = true
	}
	if c.live {
		c.startMotion()
	}
	c.log.Debug().Int("remaining", c.timer.Remaining()).Msg("resumed")
}

// TogglePause pauses a running round or resumes a paused one.
func (c *Controller) TogglePause() {
	switch c.state {
	case Running:
		c.Pause()
	case Paused:
		c.Resume()
	}
}

// Quit ends a running or paused round.
func (c *Controller) Quit() {
	if !c.Active() {
		return
	}
	c.end(ReasonQuit)
}

// Reset returns an ended round to level selection.
func (c *Controller) Reset() {
	if c.state != Ended {
		return
	}
	c.timer.Stop()
	c.stopMotion()
	if c.live {
		c.surface.HideWord()
		c.live = false
	}
	c.board.Reset(c.players)
	c.state = Idle
	c.level = 0
	c.pool = nil
	c.previous = ""
	c.roundID = ""
	c.winners = nil
	c.surface.ShowLevels(c.words.Levels())
}

// Resize updates the scene size and pulls a live word back inside it.
// Valid in every state.
func (c *Controller) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	c.bounds = motion.Bounds{Width: width, Height: height}
	if c.live {
		c.mover.Clamp(c.bounds)
		w := c.mover.Word()
		c.surface.MoveWord(w.X, w.Y)
	}
}

// Show replays the current view to the surface, for a freshly attached one.
func (c *Controller) Show() {
	if c.state == Idle {
		c.surface.ShowLevels(c.words.Levels())
		return
	}
	c.surface.ShowRound(c.level, c.players, c.seconds)
	c.surface.SetClock(c.timer.Remaining())
	for i, s := range c.board.Scores() {
		c.surface.SetScore(i, s)
	}
	if c.live {
		c.surface.ShowWord(c.mover.Word())
	}
	c.surface.SetPaused(c.state == Paused)
	if c.state == Ended {
		c.surface.ShowGameOver(c.board.Scores(), c.winners, score.Announce(c.winners))
	}
}

// Snapshot captures the state for rendering or JSON.
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		State:     c.state,
		RoundID:   c.roundID,
		Level:     c.level,
		Levels:    c.words.Levels(),
		Players:   c.players,
		Scores:    c.board.Scores(),
		Remaining: c.timer.Remaining(),
		Bounds:    c.bounds,
	}
	if c.state == Idle {
		s.Remaining = c.seconds
	}
	if c.live {
		w := c.mover.Word()
		s.Word = &w
	}
	if c.state == Ended {
		s.Winners = append([]int(nil), c.winners...)
		s.Text = score.Announce(c.winners)
	}
	return s
}

// ------------------------------- internals ---------------------------------

// spawn replaces the live word with the next one from the pool and starts
// it moving if the round is running.
func (c *Controller) spawn() {
	c.stopMotion()
	if c.live {
		c.surface.HideWord()
	}

	text := c.pool.Next(c.rng, c.previous)
	c.previous = text
	width := c.measure(text)
	maxX := c.bounds.MaxX(width)
	x := math.Min(math.Max(motion.SpawnMinX, math.Floor(c.rng.Float64()*maxX)), maxX)
	dir := motion.Left
	if c.rng.Float64() > 0.5 {
		dir = motion.Right
	}

	c.mover.Reset(text, width, x, 0, dir)
	c.live = true
	c.surface.ShowWord(c.mover.Word())

	if c.state == Running {
		c.startMotion()
	}
}

// startMotion schedules the next frame unless a chain is already pending.
func (c *Controller) startMotion() {
	if c.frameCancel != nil {
		return
	}
	c.chain++
	gen := c.chain
	c.frameCancel = c.sched.RequestFrame(func() { c.frame(gen) })
}

// stopMotion cancels the pending frame and invalidates the chain.
func (c *Controller) stopMotion() {
	if c.frameCancel != nil {
		c.frameCancel()
		c.frameCancel = nil
	}
	c.chain++
}

// frame is one motion step. It either reschedules itself or, once the word
// has left the scene, replaces the word.
func (c *Controller) frame(gen uint64) {
	if gen != c.chain || c.state != Running {
		return
	}
	c.frameCancel = nil

	f := c.mover.Tick(1, c.bounds)
	c.surface.MoveWord(f.X, f.Y)
	if f.Exited {
		c.log.Debug().Str("word", c.previous).Msg("word missed")
		c.spawn()
		return
	}
	c.startMotion()
}

func (c *Controller) onSecond(remaining int) {
	c.surface.SetClock(remaining)
}

func (c *Controller) onExpire() {
	if c.state != Running {
		return
	}
	c.end(ReasonExpired)
}

// end moves to Ended: everything time-based stops, winners are fixed.
func (c *Controller) end(reason EndReason) {
	c.state = Ended
	c.timer.Stop()
	c.stopMotion()
	if c.music {
		c.surface.Play(CueMusicStop)
		c.music = false
	}
	c.surface.Play(CueGameOver)

	scores := c.board.Scores()
	c.winners = c.board.Winners()
	text := score.Announce(c.winners)
	c.surface.ShowGameOver(scores, c.winners, text)

	c.log.Info().Str("round", c.roundID).Int("level", c.level).
		Ints("scores", scores).Ints("winners", c.winners).
		Str("reason", string(reason)).Msg("round ended")

	if c.onEnd != nil {
		c.onEnd(Result{
			ID:        c.roundID,
			Level:     c.level,
			Scores:    scores,
			Winners:   append([]int(nil), c.winners...),
			Text:      text,
			Reason:    reason,
			StartedAt: c.startedAt,
			EndedAt:   c.now(),
		})
	}
}
