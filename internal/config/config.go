package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/sukalov/hibiki/internal/hibiki"
	"github.com/sukalov/hibiki/internal/utils"
)

// DefaultPath is read when no config file is given explicitly.
const DefaultPath = "hibiki.toml"

// Config holds settings for the CLI, the bot and their backing services.
type Config struct {
	SectionBreaks int    `toml:"section_breaks"`
	LogLevel      string `toml:"log_level"`
	Development   bool   `toml:"development"`

	Redis    RedisConfig    `toml:"redis"`
	Database DatabaseConfig `toml:"database"`
	Bot      BotConfig      `toml:"bot"`
}

type RedisConfig struct {
	URL      string   `toml:"url"`
	Password string   `toml:"password"`
	TTL      Duration `toml:"ttl"`
}

type DatabaseConfig struct {
	URL       string `toml:"url"`
	AuthToken string `toml:"auth_token"`
}

type BotConfig struct {
	Token        string   `toml:"token"`
	LogChannelID int64    `toml:"log_channel_id"`
	Admins       []string `toml:"admins"`
}

// Duration is a time.Duration written as a string ("24h") in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		SectionBreaks: hibiki.DefaultSectionBreaks,
		LogLevel:      "info",
		Redis: RedisConfig{
			TTL: Duration{24 * time.Hour},
		},
	}
}

// Load reads the TOML file at path, if it exists, and then applies
// environment variables (including a .env file) on top of it.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	env := utils.LoadOptionalEnv([]string{
		"HIBIKI_SECTION_BREAKS", "LOG_LEVEL",
		"REDIS_URL", "REDIS_PASSWORD", "REDIS_TTL",
		"TURSO_DATABASE_URL", "TURSO_AUTH_TOKEN",
		"BOT_TOKEN", "LOG_CHANNEL_ID",
	})

	if v, ok := env["HIBIKI_SECTION_BREAKS"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid HIBIKI_SECTION_BREAKS %q", v)
		}
		c.SectionBreaks = n
	}
	if v, ok := env["LOG_LEVEL"]; ok {
		c.LogLevel = v
	}
	if v, ok := env["REDIS_URL"]; ok {
		c.Redis.URL = v
	}
	if v, ok := env["REDIS_PASSWORD"]; ok {
		c.Redis.Password = v
	}
	if v, ok := env["REDIS_TTL"]; ok {
		if err := c.Redis.TTL.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid REDIS_TTL %q: %w", v, err)
		}
	}
	if v, ok := env["TURSO_DATABASE_URL"]; ok {
		c.Database.URL = v
	}
	if v, ok := env["TURSO_AUTH_TOKEN"]; ok {
		c.Database.AuthToken = v
	}
	if v, ok := env["BOT_TOKEN"]; ok {
		c.Bot.Token = v
	}
	if v, ok := env["LOG_CHANNEL_ID"]; ok {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid LOG_CHANNEL_ID %q: %w", v, err)
		}
		c.Bot.LogChannelID = id
	}

	return nil
}

// RequireDatabase fails unless the songbook database is configured.
func (c Config) RequireDatabase() error {
	if c.Database.URL == "" {
		return errors.New("missing required setting: TURSO_DATABASE_URL")
	}
	return nil
}

// RequireBot fails unless a bot token is configured.
func (c Config) RequireBot() error {
	if c.Bot.Token == "" {
		return errors.New("missing required setting: BOT_TOKEN")
	}
	return nil
}

// RedisEnabled reports whether a render cache should be used.
func (c Config) RedisEnabled() bool {
	return c.Redis.URL != ""
}
