package config

import (
	"testing"

	"github.com/gofiber/fiber/v2/log"
)

func env(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, env(nil))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":3000" || cfg.SearchDepth != 3 || cfg.SearchWorkers != 1 || cfg.LogLevel != log.LevelInfo {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:5173" {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
}

func TestLoadEnvironmentAndFlags(t *testing.T) {
	vars := env(map[string]string{
		"CHESS_ADDR":            ":9000",
		"CHESS_ALLOWED_ORIGINS": "http://a.test, http://b.test,",
		"CHESS_SEARCH_DEPTH":    "4",
		"CHESS_LOG_LEVEL":       "DEBUG",
	})

	cfg, err := Load(nil, vars)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.SearchDepth != 4 || cfg.LogLevel != log.LevelDebug {
		t.Fatalf("environment not applied: %+v", cfg)
	}
	if got := cfg.OriginsHeader(); got != "http://a.test, http://b.test" {
		t.Fatalf("OriginsHeader: got %q", got)
	}

	cfg, err = Load([]string{"-depth", "2", "-workers", "3", "-addr", ":1234"}, vars)
	if err != nil {
		t.Fatalf("Load with flags: %v", err)
	}
	if cfg.Addr != ":1234" || cfg.SearchDepth != 2 || cfg.SearchWorkers != 3 {
		t.Fatalf("flags should win over environment: %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"zero depth flag", []string{"-depth", "0"}, nil},
		{"negative workers", []string{"-workers", "-1"}, nil},
		{"depth not a number", nil, map[string]string{"CHESS_SEARCH_DEPTH": "deep"}},
		{"unknown log level", []string{"-log-level", "loud"}, nil},
		{"empty addr", []string{"-addr", ""}, nil},
		{"unknown flag", []string{"-colour", "red"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.args, env(tt.env)); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}
