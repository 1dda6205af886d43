// Package config reads server settings from flags, falling back to
// CHESS_* environment variables and then to defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2/log"
)

type Config struct {
	Addr           string
	AllowedOrigins []string
	SearchDepth    int
	SearchWorkers  int
	LogLevel       log.Level
}

var logLevels = map[string]log.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

// Load parses args (without the program name). lookupEnv is os.LookupEnv in
// production.
func Load(args []string, lookupEnv func(string) (string, bool)) (*Config, error) {
	getenv := func(key, def string) string {
		if v, ok := lookupEnv(key); ok && v != "" {
			return v
		}
		return def
	}
	getenvInt := func(key string, def int) (int, error) {
		v := getenv(key, "")
		if v == "" {
			return def, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return n, nil
	}

	depth, err := getenvInt("CHESS_SEARCH_DEPTH", 3)
	if err != nil {
		return nil, err
	}
	workers, err := getenvInt("CHESS_SEARCH_WORKERS", 1)
	if err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	addr := fs.String("addr", getenv("CHESS_ADDR", ":3000"), "listen address")
	origins := fs.String("allowed-origins", getenv("CHESS_ALLOWED_ORIGINS", "http://localhost:5173"), "comma-separated CORS origins")
	fs.IntVar(&depth, "depth", depth, "engine search depth in plies")
	fs.IntVar(&workers, "workers", workers, "goroutines used to search root moves")
	level := fs.String("log-level", getenv("CHESS_LOG_LEVEL", "info"), "trace, debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{
		Addr:           *addr,
		AllowedOrigins: splitList(*origins),
		SearchDepth:    depth,
		SearchWorkers:  workers,
	}
	lvl, ok := logLevels[strings.ToLower(*level)]
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", *level)
	}
	cfg.LogLevel = lvl

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnvironment loads the configuration for the running process.
func FromEnvironment() (*Config, error) {
	return Load(os.Args[1:], os.LookupEnv)
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("listen address is required")
	}
	if c.SearchDepth < 1 {
		return fmt.Errorf("search depth must be at least 1, got %d", c.SearchDepth)
	}
	if c.SearchWorkers < 1 {
		return fmt.Errorf("search workers must be at least 1, got %d", c.SearchWorkers)
	}
	return nil
}

// OriginsHeader joins the allowed origins the way the CORS middleware expects.
func (c *Config) OriginsHeader() string {
	return strings.Join(c.AllowedOrigins, ", ")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
