package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port        string
	Environment string

	MongoURI  string
	DBName    string
	DBTimeout time.Duration

	TokenSecret string
	TokenTTL    time.Duration

	StripeSecretKey     string
	PostmarkServerToken string
	EmailSender         string

	CORSAllowedOrigins []string
	// RoutePolicies overrides the authorization policy of named routes.
	RoutePolicies map[string]string
}

var (
	ErrMissingTokenSecret = errors.New("ACCESS_TOKEN_SECRET is not set")
	ErrMissingDatabase    = errors.New("MONGODB_URI or DB_USER, DB_PASSWORD and DB_HOST must be set")
)

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "5000"),
		Environment:         getEnv("ENVIRONMENT", "development"),
		DBName:              getEnv("DB_NAME", "MediEaseDB"),
		TokenSecret:         getEnv("ACCESS_TOKEN_SECRET", ""),
		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		PostmarkServerToken: getEnv("POSTMARK_SERVER_TOKEN", ""),
		EmailSender:         getEnv("EMAIL_SENDER", ""),
		CORSAllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	if cfg.TokenSecret == "" {
		return nil, ErrMissingTokenSecret
	}

	var err error
	if cfg.DBTimeout, err = getEnvAsDuration("DB_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.TokenTTL, err = getEnvAsDuration("TOKEN_TTL", 6*time.Hour); err != nil {
		return nil, err
	}

	uri, err := mongoURI()
	if err != nil {
		return nil, err
	}
	cfg.MongoURI = uri

	policies, err := parsePolicies(getEnv("ROUTE_POLICIES", ""))
	if err != nil {
		return nil, err
	}
	cfg.RoutePolicies = policies

	return cfg, nil
}

// mongoURI prefers an explicit MONGODB_URI and otherwise assembles an Atlas
// SRV connection string from credentials.
func mongoURI() (string, error) {
	if uri := getEnv("MONGODB_URI", ""); uri != "" {
		return uri, nil
	}
	user := getEnv("DB_USER", "")
	password := getEnv("DB_PASSWORD", "")
	host := getEnv("DB_HOST", "")
	if user == "" || password == "" || host == "" {
		return "", ErrMissingDatabase
	}
	u := url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(user, password),
		Host:     host,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority&appName=MediEase",
	}
	return u.String(), nil
}

// parsePolicies reads "name=policy,name=policy".
func parsePolicies(raw string) (map[string]string, error) {
	policies := make(map[string]string)
	for _, entry := range splitList(raw) {
		name, policy, ok := strings.Cut(entry, "=")
		name, policy = strings.TrimSpace(name), strings.TrimSpace(policy)
		if !ok || name == "" || policy == "" {
			return nil, fmt.Errorf("invalid ROUTE_POLICIES entry %q", entry)
		}
		policies[name] = policy
	}
	return policies, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsDuration parses key as a positive duration such as "90m". An unset
// or empty key yields defaultValue.
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, value)
	}
	return d, nil
}
