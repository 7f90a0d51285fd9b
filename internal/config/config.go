// Package config reads server and client settings from the environment.
package config

import (
	"os"
	"strings"
	"time"
)

// Config holds settings shared by the CLI, the TUI and the API server.
type Config struct {
	// Addr is the listen address for `wordiz serve`.
	Addr string

	DBDriver string // "sqlite" (default) or "postgres"
	DBDSN    string // empty selects the default SQLite path

	// JWTSecret enables bearer-token learner identity. Empty means
	// single-learner mode.
	JWTSecret string
	TokenTTL  time.Duration

	// APIURL points the TUI at a remote server instead of the local store.
	APIURL   string
	APIToken string

	// Learner is the learner id used by local play.
	Learner string

	LogLevel string

	// CORSOrigins lists browser origins allowed to call the API. Empty
	// disables cross-origin access.
	CORSOrigins []string
}

// FromEnv reads WORDIZ_* variables, applying defaults for unset ones.
func FromEnv() Config {
	return Config{
		Addr:        envOr("WORDIZ_ADDR", ":8080"),
		DBDriver:    envOr("WORDIZ_DB_DRIVER", "sqlite"),
		DBDSN:       os.Getenv("WORDIZ_DB"),
		JWTSecret:   os.Getenv("WORDIZ_JWT_SECRET"),
		TokenTTL:    envDuration("WORDIZ_TOKEN_TTL", 0),
		APIURL:      strings.TrimSuffix(os.Getenv("WORDIZ_API_URL"), "/"),
		APIToken:    os.Getenv("WORDIZ_API_TOKEN"),
		Learner:     envOr("WORDIZ_LEARNER", "local"),
		LogLevel:    envOr("WORDIZ_LOG_LEVEL", "info"),
		CORSOrigins: csvOr("WORDIZ_CORS_ORIGINS", "http://localhost:3000"),
	}
}

// Remote reports whether the TUI should talk to an API server.
func (c Config) Remote() bool {
	return c.APIURL != ""
}

func envOr(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func csvOr(k, def string) []string {
	v := os.Getenv(k)
	if v == "" {
		v = def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
