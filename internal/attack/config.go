package attack

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultDelay   = 20 * time.Millisecond
	DefaultTimeout = 10 * time.Second
)

// Config describes one recording run against a login endpoint
type Config struct {
	PasswordFile string
	BaseURL      string
	Username     string
	OutputCSV    string
	Delay        time.Duration // Pause between attempts
	Timeout      time.Duration // Per-request timeout
}

// LoginURL returns BaseURL with /login appended
func (c Config) LoginURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/login"
}

func (c Config) withDefaults() Config {
	if c.Delay < 0 {
		c.Delay = 0
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Validate checks that the required fields are present
func (c Config) Validate() error {
	if c.PasswordFile == "" {
		return errors.New("password file is required")
	}
	if c.Username == "" {
		return errors.New("username is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base URL %q", c.BaseURL)
	}
	return nil
}
