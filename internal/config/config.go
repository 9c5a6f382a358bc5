// Package config loads the bot settings from the environment (and .env).
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const AppName = "zara-music-bot"

// Store backends.
const (
	BackendAuto      = "auto"
	BackendFile      = "file"
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
)

// Sink modes.
const (
	SinkPerGuild = "per-guild"
	SinkShared   = "shared"
)

var knownParsers = []string{"kkdai-link", "ytdlp-link", "ffmpeg-link"}

type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,required"`
	ReservedName string `env:"BOT_RESERVED_NAME" envDefault:"zara-music-bot"`

	StoreBackend    string        `env:"STORE_BACKEND" envDefault:"auto"`
	StoragePath     string        `env:"STORAGE_PATH" envDefault:"datastore.json"`
	StorageAutosave time.Duration `env:"STORAGE_AUTOSAVE" envDefault:"10s"`

	FirebaseProjectID   string `env:"FIREBASE_PROJECTID"`
	FirebaseClientEmail string `env:"FIREBASE_CLIENTEMAIL"`
	FirebasePrivateKey  string `env:"FIREBASE_PRIVATEKEY"`

	SinkMode        string   `env:"SINK_MODE" envDefault:"per-guild"`
	YouTubeProxy    string   `env:"YOUTUBE_PROXY"`
	PlaybackParsers []string `env:"PLAYBACK_PARSERS" envSeparator:"," envDefault:"kkdai-link,ytdlp-link,ffmpeg-link"`

	GreetingTrigger  string        `env:"GREETING_TRIGGER" envDefault:"こんにちは"`
	GreetingReply    string        `env:"GREETING_REPLY" envDefault:"オイッスー！"`
	ReportRejections bool          `env:"REPORT_REJECTIONS" envDefault:"false"`
	CommandRate      time.Duration `env:"COMMAND_RATE" envDefault:"2s"`
	CommandBurst     int           `env:"COMMAND_BURST" envDefault:"5"`

	MetricsAddr string `env:"METRICS_ADDR"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"console"`
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, falling back to system environment variables")
	}
	return Parse()
}

// Parse builds a Config from the current environment and validates it.
func Parse() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	// Private keys pasted into a single env line carry literal \n sequences.
	c.FirebasePrivateKey = strings.ReplaceAll(c.FirebasePrivateKey, `\n`, "\n")

	parsers := c.PlaybackParsers[:0]
	for _, p := range c.PlaybackParsers {
		if p = strings.TrimSpace(p); p != "" {
			parsers = append(parsers, p)
		}
	}
	c.PlaybackParsers = parsers
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	c.SinkMode = strings.ToLower(strings.TrimSpace(c.SinkMode))
}

// Validate rejects settings the bot cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.DiscordToken) == "" {
		errs = append(errs, errors.New("DISCORD_TOKEN is not set"))
	}

	switch c.StoreBackend {
	case BackendAuto, BackendFile, BackendMemory:
	case BackendFirestore:
		if !c.firestoreComplete() {
			errs = append(errs, errors.New("STORE_BACKEND=firestore needs FIREBASE_PROJECTID, FIREBASE_CLIENTEMAIL and FIREBASE_PRIVATEKEY"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}
	if c.StoreBackend == BackendAuto && c.FirebaseProjectID != "" && !c.firestoreComplete() {
		errs = append(errs, errors.New("FIREBASE_PROJECTID is set but the service account is incomplete"))
	}
	if (c.StoreBackend == BackendFile || c.StoreBackend == BackendAuto) && c.StoragePath == "" {
		errs = append(errs, errors.New("STORAGE_PATH is empty"))
	}

	switch c.SinkMode {
	case SinkPerGuild, SinkShared:
	default:
		errs = append(errs, fmt.Errorf("unknown SINK_MODE %q", c.SinkMode))
	}

	if len(c.PlaybackParsers) == 0 {
		errs = append(errs, errors.New("PLAYBACK_PARSERS is empty"))
	}
	for _, p := range c.PlaybackParsers {
		if !slices.Contains(knownParsers, p) {
			errs = append(errs, fmt.Errorf("unknown parser %q in PLAYBACK_PARSERS", p))
		}
	}

	if c.CommandRate < 0 {
		errs = append(errs, errors.New("COMMAND_RATE must not be negative"))
	}
	if c.CommandBurst < 1 {
		errs = append(errs, errors.New("COMMAND_BURST must be at least 1"))
	}

	return errors.Join(errs...)
}

func (c *Config) firestoreComplete() bool {
	return c.FirebaseProjectID != "" && c.FirebaseClientEmail != "" && c.FirebasePrivateKey != ""
}
