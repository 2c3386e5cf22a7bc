// Package config assembles the server configuration from defaults, an
// optional YAML file and NEUROSCREEN_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/neuroscreen/portal/internal/utils"
)

const (
	DefaultPath = "config/neuroscreen.yaml"
	envPrefix   = "NEUROSCREEN_"
)

const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type Config struct {
	Server        ServerConfig  `yaml:"server"`
	Backend       BackendConfig `yaml:"backend"`
	Gemini        GeminiConfig  `yaml:"gemini"`
	Session       SessionConfig `yaml:"session"`
	MigrationsDir string        `yaml:"migrations_dir"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	StaticDir       string        `yaml:"static_dir"`
	Commit          string        `yaml:"commit"`
	BuildTime       string        `yaml:"build_time"`
}

type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type GeminiConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type SessionConfig struct {
	Secret       string        `yaml:"secret"`
	TTL          time.Duration `yaml:"ttl"`
	Store        string        `yaml:"store"`
	SQLitePath   string        `yaml:"sqlite_path"`
	RedisAddr    string        `yaml:"redis_addr"`
	RedisPass    string        `yaml:"redis_password"`
	RedisDB      int           `yaml:"redis_db"`
	SecureCookie bool          `yaml:"secure_cookie"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    90 * time.Second,
			ShutdownTimeout: 20 * time.Second,
		},
		Backend: BackendConfig{
			BaseURL: "http://localhost:5000/api",
			Timeout: 15 * time.Second,
		},
		Gemini: GeminiConfig{
			Model:   "gemini-2.0-flash",
			BaseURL: "https://generativelanguage.googleapis.com/v1beta",
			Timeout: 60 * time.Second,
		},
		Session: SessionConfig{
			TTL:        7 * 24 * time.Hour,
			Store:      StoreSQLite,
			SQLitePath: "data/sessions.db",
			RedisAddr:  "localhost:6379",
		},
	}
}

// Load reads .env (if present), then the YAML file at path, then environment
// overrides. An empty path means NEUROSCREEN_CONFIG or DefaultPath; a missing
// file is only an error when the path was given explicitly.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	explicit := path != ""
	if !explicit {
		if p := os.Getenv(envPrefix + "CONFIG"); p != "" {
			path, explicit = p, true
		} else {
			path = DefaultPath
		}
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnv(c *Config) {
	c.Server.Addr = utils.SafeEnv(envPrefix+"ADDR", c.Server.Addr)
	c.Server.ReadTimeout = utils.EnvDuration(envPrefix+"READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = utils.EnvDuration(envPrefix+"WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.ShutdownTimeout = utils.EnvDuration(envPrefix+"SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Server.StaticDir = utils.SafeEnv(envPrefix+"STATIC_DIR", c.Server.StaticDir)
	c.Server.Commit = utils.SafeEnv(envPrefix+"COMMIT", c.Server.Commit)
	c.Server.BuildTime = utils.SafeEnv(envPrefix+"BUILD_TIME", c.Server.BuildTime)

	c.Backend.BaseURL = utils.SafeEnv(envPrefix+"BACKEND_URL", c.Backend.BaseURL)
	c.Backend.Timeout = utils.EnvDuration(envPrefix+"BACKEND_TIMEOUT", c.Backend.Timeout)

	c.Gemini.APIKey = utils.SafeEnv(envPrefix+"GEMINI_API_KEY", c.Gemini.APIKey)
	c.Gemini.Model = utils.SafeEnv(envPrefix+"GEMINI_MODEL", c.Gemini.Model)
	c.Gemini.BaseURL = utils.SafeEnv(envPrefix+"GEMINI_BASE_URL", c.Gemini.BaseURL)
	c.Gemini.Timeout = utils.EnvDuration(envPrefix+"GEMINI_TIMEOUT", c.Gemini.Timeout)

	c.Session.Secret = utils.SafeEnv(envPrefix+"SESSION_SECRET", c.Session.Secret)
	c.Session.TTL = utils.EnvDuration(envPrefix+"SESSION_TTL", c.Session.TTL)
	c.Session.Store = utils.SafeEnv(envPrefix+"SESSION_STORE", c.Session.Store)
	c.Session.SQLitePath = utils.SafeEnv(envPrefix+"SQLITE_PATH", c.Session.SQLitePath)
	c.Session.RedisAddr = utils.SafeEnv(envPrefix+"REDIS_ADDR", c.Session.RedisAddr)
	c.Session.RedisPass = utils.SafeEnv(envPrefix+"REDIS_PASSWORD", c.Session.RedisPass)
	c.Session.RedisDB = utils.EnvInt(envPrefix+"REDIS_DB", c.Session.RedisDB)
	c.Session.SecureCookie = utils.EnvBool(envPrefix+"SECURE_COOKIE", c.Session.SecureCookie)

	c.MigrationsDir = utils.SafeEnv(envPrefix+"MIGRATIONS_DIR", c.MigrationsDir)
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server.addr is required")
	}
	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		return errors.New("backend.base_url is required")
	}
	if len(c.Session.Secret) < 16 {
		return errors.New("session.secret must be at least 16 characters")
	}
	if c.Session.TTL <= 0 {
		return errors.New("session.ttl must be positive")
	}
	switch c.Session.Store {
	case StoreSQLite:
		if c.Session.SQLitePath == "" {
			return errors.New("session.sqlite_path is required for the sqlite store")
		}
	case StoreRedis:
		if c.Session.RedisAddr == "" {
			return errors.New("session.redis_addr is required for the redis store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown session.store %q", c.Session.Store)
	}
	return nil
}
