package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds settings shared by the server, worker and scheduler.
type Config struct {
	DatabaseURL string `long:"database-url" env:"DATABASE_URL" description:"Postgres connection URL (not needed by the scheduler)"`
	RedisAddr   string `long:"redis-addr" env:"REDIS_ADDR" default:"127.0.0.1:6379" description:"Redis address for tasks and transients"`
	CachePrefix string `long:"cache-prefix" env:"CACHE_PREFIX" default:"" description:"Key prefix for transients"`
	NoCache     bool   `long:"no-cache" env:"NO_CACHE" description:"Keep transients in process memory instead of Redis"`

	Port    string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseURL string `long:"base-url" env:"BASE_URL" description:"Public base URL of the feed"`

	RateLimit float64 `long:"rate-limit" env:"RATE_LIMIT" default:"5" description:"Requests per second per client"`
	RateBurst int     `long:"rate-burst" env:"RATE_BURST" default:"10" description:"Burst size per client"`

	TrustedProxies []string `long:"trusted-proxy" env:"TRUSTED_PROXIES" env-delim:"," description:"IP or CIDR of a reverse proxy whose X-Forwarded-For is honoured (repeatable)"`

	FetchTimeout time.Duration `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"15s" description:"Timeout for media file size requests"`
	UserAgent    string        `long:"user-agent" env:"USER_AGENT" default:"podcaster/1.0" description:"User agent for media file requests"`

	LogLevel string `long:"log-level" env:"LOG_LEVEL" default:"info" description:"Log level"`
	LogJSON  bool   `long:"log-json" env:"LOG_JSON" description:"Log as JSON"`
}

// ErrHelp is returned when --help was requested and printed.
var ErrHelp = errors.New("help requested")

// Load reads .env (if present), then flags and environment variables.
func Load(args []string) (*Config, error) {
	var cfg Config
	if err := LoadInto(args, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadInto is Load for commands that embed Config in their own options.
func LoadInto(args []string, data interface{}) error {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file")
	}
	return Parse(args, data)
}

// Parse parses args and the environment into data, a pointer to a struct
// with go-flags tags.
func Parse(args []string, data interface{}) error {
	parser := flags.NewParser(data, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return ErrHelp
		}
		return fmt.Errorf("failed to parse configuration: %w", err)
	}
	return nil
}
