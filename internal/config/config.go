package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port   int
	APIURL string
	UserID string

	PollInterval       time.Duration
	PollJitter         time.Duration
	OAuthRedirectDelay time.Duration

	LinkedInUpstreamURL string

	ActionRateLimitRPS   float64
	ActionRateLimitBurst int

	SecureCookies bool
	LogLevel      string
	LogFormat     string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first, and CONFIG_FILE may name a YAML file whose keys
// (lower case env names, e.g. api_url) supply defaults beneath the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	src := source{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		file, err := readFile(path)
		if err != nil {
			return nil, err
		}
		src.file = file
	}

	port, err := src.getInt("PORT", 3000)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	pollInterval, err := src.getDuration("POLL_INTERVAL", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_INTERVAL: %w", err)
	}

	pollJitter, err := src.getDuration("POLL_JITTER", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_JITTER: %w", err)
	}

	redirectDelay, err := src.getDuration("OAUTH_REDIRECT_DELAY", 3*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid OAUTH_REDIRECT_DELAY: %w", err)
	}

	rps, err := src.getFloat("ACTION_RATE_LIMIT_RPS", 1.0)
	if err != nil {
		return nil, fmt.Errorf("invalid ACTION_RATE_LIMIT_RPS: %w", err)
	}

	burst, err := src.getInt("ACTION_RATE_LIMIT_BURST", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid ACTION_RATE_LIMIT_BURST: %w", err)
	}

	apiURL := strings.TrimRight(src.get("API_URL", "http://localhost:8000"), "/")

	return &Config{
		Port:                 port,
		APIURL:               apiURL,
		UserID:               src.get("USER_ID", "default_user"),
		PollInterval:         pollInterval,
		PollJitter:           pollJitter,
		OAuthRedirectDelay:   redirectDelay,
		LinkedInUpstreamURL:  src.get("LINKEDIN_UPSTREAM_URL", apiURL+"/api/linkedin/people-search"),
		ActionRateLimitRPS:   rps,
		ActionRateLimitBurst: burst,
		SecureCookies:        src.get("SECURE_COOKIES", "true") != "false",
		LogLevel:             strings.ToLower(src.get("LOG_LEVEL", "info")),
		LogFormat:            strings.ToLower(src.get("LOG_FORMAT", "text")),
	}, nil
}

func readFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var file map[string]string
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return file, nil
}

// source resolves a key from the environment, then the config file.
type source struct {
	file map[string]string
}

func (s source) lookup(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return s.file[strings.ToLower(key)]
}

func (s source) get(key, fallback string) string {
	if v := s.lookup(key); v != "" {
		return v
	}
	return fallback
}

func (s source) getInt(key string, fallback int) (int, error) {
	v := s.lookup(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func (s source) getFloat(key string, fallback float64) (float64, error) {
	v := s.lookup(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(v, 64)
}

func (s source) getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := s.lookup(key)
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}
