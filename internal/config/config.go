package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"jobboard/internal/board"
	"jobboard/internal/upstream"
)

type Config struct {
	App struct {
		Addr string `yaml:"addr" json:"addr"`
	} `yaml:"app" json:"app"`

	Upstream struct {
		Endpoint          string  `yaml:"endpoint" json:"endpoint"`
		NumJobs           int     `yaml:"num_jobs" json:"num_jobs"`
		TimeoutSeconds    int     `yaml:"timeout_seconds" json:"timeout_seconds"`
		RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
		Burst             int     `yaml:"burst" json:"burst"`
	} `yaml:"upstream" json:"upstream"`

	Board struct {
		RecentDays        int    `yaml:"recent_days" json:"recent_days"`
		FilterMode        string `yaml:"filter_mode" json:"filter_mode"`
		SessionTTLMinutes int    `yaml:"session_ttl_minutes" json:"session_ttl_minutes"`
	} `yaml:"board" json:"board"`
}

func Defaults() Config {
	var cfg Config
	cfg.App.Addr = "127.0.0.1:38471"
	cfg.Upstream.Endpoint = upstream.DefaultEndpoint
	cfg.Upstream.NumJobs = upstream.DefaultNumJobs
	cfg.Upstream.TimeoutSeconds = 20
	cfg.Upstream.RequestsPerSecond = 1
	cfg.Upstream.Burst = 2
	cfg.Board.RecentDays = board.DefaultRecentDays
	cfg.Board.FilterMode = string(board.FilterExclusive)
	cfg.Board.SessionTTLMinutes = 30
	return cfg
}

// Load reads path over the defaults, so keys missing from the file keep their default.
func Load(path string) (Config, error) {
	cfg := Defaults()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv lets the environment override the listen address.
func ApplyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("JOBBOARD_ADDR")); v != "" {
		cfg.App.Addr = v
	}
}

func (c Config) UpstreamConfig() upstream.Config {
	return upstream.Config{
		Endpoint: c.Upstream.Endpoint,
		NumJobs:  c.Upstream.NumJobs,
		Timeout:  time.Duration(c.Upstream.TimeoutSeconds) * time.Second,
	}
}

func (c Config) BoardOptions() board.Options {
	mode, err := board.ParseFilterMode(c.Board.FilterMode)
	if err != nil {
		mode = board.FilterExclusive
	}
	return board.Options{RecentDays: c.Board.RecentDays, Mode: mode}
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.Board.SessionTTLMinutes) * time.Minute
}
