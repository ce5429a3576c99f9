// internal/config/config.go
//
// Environment configuration shared by the server and terminal binaries.
//
// Load reads an optional .env file (godotenv) and then the process
// environment. Unset or unparsable numbers fall back to their defaults with
// a warning; only a malformed KEY_BINDINGS value is an error.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/fallingwords/internal/input"
)

// Config is the environment-derived setup for both binaries.
type Config struct {
	Port         string
	MirrorPort   string // terminal only: serve browser displays of the terminal round
	ClientOrigin string
	LogLevel     string
	LogFile      string
	WordsFile    string
	WordsDB      string
	FrameHz      int
	RoundSeconds int
	Players      int
	SceneWidth   float64
	SceneHeight  float64
	CharWidth    float64
	Bindings     input.Bindings
}

// Load reads .env (if present) then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment only.
func FromEnv() (Config, error) {
	c := Config{
		Port:         getEnv("PORT", "5175"),
		MirrorPort:   getEnv("MIRROR_PORT", ""),
		ClientOrigin: getEnv("CLIENT_ORIGIN", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFile:      getEnv("LOG_FILE", ""),
		WordsFile:    getEnv("WORDS_FILE", ""),
		WordsDB:      getEnv("WORDS_DB", ""),
		FrameHz:      getEnvInt("FRAME_HZ", 60),
		RoundSeconds: getEnvInt("ROUND_SECONDS", 60),
		Players:      getEnvInt("PLAYERS", 4),
		SceneWidth:   getEnvFloat("SCENE_WIDTH", 1280),
		SceneHeight:  getEnvFloat("SCENE_HEIGHT", 720),
		CharWidth:    getEnvFloat("WORD_CHAR_WIDTH", 14),
	}

	if c.FrameHz < 1 {
		c.FrameHz = 60
	}
	if c.RoundSeconds < 1 {
		c.RoundSeconds = 60
	}
	if c.Players < 1 || c.Players > 4 {
		log.Warn().Int("players", c.Players).Msg("PLAYERS out of range, using 4")
		c.Players = 4
	}
	if c.CharWidth <= 0 {
		c.CharWidth = 14
	}

	overrides, err := input.ParseBindings(getEnv("KEY_BINDINGS", ""))
	if err != nil {
		return c, fmt.Errorf("KEY_BINDINGS: %w", err)
	}
	c.Bindings = input.DefaultBindings().With(overrides)
	return c, nil
}

// Addr is the listen address for Port.
func (c Config) Addr() string { return listenAddr(c.Port) }

// MirrorAddr is the listen address for MirrorPort, empty when unset.
func (c Config) MirrorAddr() string {
	if c.MirrorPort == "" {
		return ""
	}
	return listenAddr(c.MirrorPort)
}

func listenAddr(port string) string {
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

// ------------------------------- small util --------------------------------

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	v := getEnv(k, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		return def
	}
	return n
}

func getEnvFloat(k string, def float64) float64 {
	v := getEnv(k, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		log.Warn().Str("key", k).Str("value", v).Msg("not a positive number, using default")
		return def
	}
	return f
}
