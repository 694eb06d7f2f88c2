package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DevJWTSecret is used when JWT_SECRET is unset outside production
const DevJWTSecret = "loginlab-development-only-signing-key"

type Config struct {
	Server  ServerConfig
	Auth    AuthConfig
	Lockout LockoutConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
	TrustedProxies []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
}

type AuthConfig struct {
	JWTSecret         string
	AccessTokenExpiry time.Duration
	BcryptCost        int
	TimingDelayBase   time.Duration
	TimingDelayRandom time.Duration
	SeedTestUser      bool
}

// LockoutConfig drives the per-username login guard and the per-IP limiter
type LockoutConfig struct {
	MaxFailures   int
	LockDuration  time.Duration
	SweepInterval time.Duration
	IPRateLimit   int // requests per minute per IP on /login, 0 = off
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "development")

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		if env == "production" {
			return nil, fmt.Errorf("JWT_SECRET is required")
		}
		jwtSecret = DevJWTSecret
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8000"),
			Env:            env,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "")),
			TrustedProxies: splitList(getEnv("TRUSTED_PROXIES", "")),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret:         jwtSecret,
			AccessTokenExpiry: getEnvAsDuration("ACCESS_TOKEN_EXPIRY", 15*time.Minute),
			BcryptCost:        getEnvAsInt("BCRYPT_COST", 12),
			TimingDelayBase:   time.Duration(getEnvAsInt("TIMING_DELAY_BASE_MS", 0)) * time.Millisecond,
			TimingDelayRandom: time.Duration(getEnvAsInt("TIMING_DELAY_RANDOM_MS", 0)) * time.Millisecond,
			SeedTestUser:      getEnvAsBool("SEED_TEST_USER", true),
		},
		Lockout: LockoutConfig{
			MaxFailures:   getEnvAsInt("LOGIN_MAX_FAILURES", 11),
			LockDuration:  getEnvAsDuration("LOGIN_LOCK_DURATION", 60*time.Second),
			SweepInterval: getEnvAsDuration("GUARD_SWEEP_INTERVAL", time.Minute),
			IPRateLimit:   getEnvAsInt("LOGIN_IP_RATE_LIMIT", 0),
		},
	}

	if err := validateJWTSecret(jwtSecret, env); err != nil {
		return nil, err
	}
	if err := cfg.Lockout.validate(); err != nil {
		return nil, err
	}
	if cfg.Auth.TimingDelayBase < 0 || cfg.Auth.TimingDelayRandom < 0 {
		return nil, fmt.Errorf("TIMING_DELAY_BASE_MS and TIMING_DELAY_RANDOM_MS cannot be negative")
	}

	return cfg, nil
}

func (c LockoutConfig) validate() error {
	if c.MaxFailures <= 0 {
		return fmt.Errorf("LOGIN_MAX_FAILURES must be positive (got %d)", c.MaxFailures)
	}
	if c.LockDuration <= 0 {
		return fmt.Errorf("LOGIN_LOCK_DURATION must be positive (got %s)", c.LockDuration)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("GUARD_SWEEP_INTERVAL must be positive (got %s)", c.SweepInterval)
	}
	if c.IPRateLimit < 0 {
		return fmt.Errorf("LOGIN_IP_RATE_LIMIT cannot be negative (got %d)", c.IPRateLimit)
	}
	return nil
}

// validateJWTSecret enforces minimum security standards for JWT secret
func validateJWTSecret(secret, env string) error {
	minLength := 16
	if env == "production" {
		minLength = 32
	}

	if len(secret) < minLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters in %s environment (got %d)",
			minLength, env, len(secret))
	}

	if env == "production" && secret == DevJWTSecret {
		return fmt.Errorf("JWT_SECRET cannot be the development default in production")
	}

	weakSecrets := []string{
		"secret", "test", "password", "12345", "changeme",
		"admin", "root", "default", "example",
	}
	secretLower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if secretLower == weak {
			return fmt.Errorf("JWT_SECRET cannot be a common weak value")
		}
	}

	return nil
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info
func (c ServerConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
