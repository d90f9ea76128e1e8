package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// App
	Env string // dev / staging / prod
	// HTTP
	HTTPAddr string
	// Session / security
	SessionSecret string
	SessionTTL    time.Duration
	SecureCookies bool
	// Where unauthenticated browsers are sent
	SigninPath string
	// Post-login redirect policy. The default mirrors the original behavior of
	// always landing on BaseURL; enabling this honors the requested deep link.
	BaseURL                string
	PreserveRedirectTarget bool

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	OAuthStateTTL      time.Duration

	// Infrastructure
	DBAddr    string
	RedisAddr string
	RabbitURL string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
	}

	// required values
	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("missing required env var: SESSION_SECRET")
	}

	cfg.DBAddr = os.Getenv("DB_ADDR")
	if cfg.DBAddr == "" {
		return nil, fmt.Errorf("missing required env var: DB_ADDR")
	}

	// optional with defaults
	ttl, err := getDuration("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.SessionTTL = ttl

	stl, err := getDuration("OAUTH_STATE_TTL", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.OAuthStateTTL = stl

	cfg.SigninPath = getEnv("SIGNIN_PATH", "/login")
	if !strings.HasPrefix(cfg.SigninPath, "/") {
		return nil, fmt.Errorf("SIGNIN_PATH must start with /")
	}

	cfg.BaseURL = getEnv("BASE_URL", "http://localhost:8080")
	cfg.PreserveRedirectTarget = getBool("REDIRECT_PRESERVE_TARGET", false)
	cfg.SecureCookies = getBool("SECURE_COOKIES", cfg.Env == "prod")

	// Google OAuth is optional; credential login works without it.
	cfg.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURI = getEnv("GOOGLE_REDIRECT_URI",
		cfg.BaseURL+"/auth/v1/oauth/google/callback")

	// Redis and RabbitMQ are best-effort; in-memory fallbacks exist.
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RabbitURL = os.Getenv("RABBIT_URL")

	rt, err := getDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPReadTimeout = rt

	wt, err := getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPWriteTimeout = wt

	it, err := getDuration("HTTP_IDLE_TIMEOUT", time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.HTTPIdleTimeout = it

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}
