package auth

import (
	"fmt"
	"sync"
	"time"
)

// Clock supplies the current time to callers of LoginAttemptGuard
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time {
	return time.Now()
}

// GuardConfig holds lockout thresholds for LoginAttemptGuard
type GuardConfig struct {
	MaxFailures  int           // Failures that trigger a lockout
	LockDuration time.Duration // How long a triggered lockout lasts
}

// Decision is the guard's verdict for a single identity key
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration // Only set when Allowed is false
}

// AttemptRecord is the failure state tracked for one identity key
type AttemptRecord struct {
	Key           string
	FailureCount  int
	LockedUntil   time.Time // Zero means not locked
	LastAttemptAt time.Time
}

// GuardStats is a point-in-time summary of guard state
type GuardStats struct {
	Tracked int
	Locked  int
}

// LoginAttemptGuard tracks failed logins per identity key and applies a
// temporary lockout once MaxFailures is reached.
//
// Callers check before verifying credentials and report the outcome after:
//
//	d := guard.CheckAllowed(key, now)
//	if !d.Allowed { reject with d.RetryAfter }
//	verify, then ReportSuccess or ReportFailure
//
// The key must be the identity exactly as submitted, whether or not it maps to
// a real account, so probes against unknown usernames are throttled too.
type LoginAttemptGuard struct {
	config GuardConfig

	// mu protects records.
	mu      sync.Mutex
	records map[string]*AttemptRecord
}

// NewLoginAttemptGuard creates a guard with the given thresholds
func NewLoginAttemptGuard(config GuardConfig) (*LoginAttemptGuard, error) {
	if config.MaxFailures <= 0 {
		return nil, fmt.Errorf("max failures must be positive (got %d)", config.MaxFailures)
	}
	if config.LockDuration <= 0 {
		return nil, fmt.Errorf("lock duration must be positive (got %s)", config.LockDuration)
	}

	return &LoginAttemptGuard{
		config:  config,
		records: make(map[string]*AttemptRecord),
	}, nil
}

// Config returns the thresholds the guard was built with
func (g *LoginAttemptGuard) Config() GuardConfig {
	return g.config
}

// CheckAllowed reports whether an attempt for key may proceed at now.
// It never creates or mutates a record.
func (g *LoginAttemptGuard) CheckAllowed(key string, now time.Time) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	return decide(g.records[key], now)
}

// ReportSuccess clears all failure and lock state for key
func (g *LoginAttemptGuard) ReportSuccess(key string, now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.records, key)
}

// ReportFailure counts a failed verification for key. Reaching MaxFailures
// starts a lockout of LockDuration and resets the counter, so counting
// starts fresh once the lockout expires.
func (g *LoginAttemptGuard) ReportFailure(key string, now time.Time) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.records[key]
	if !ok {
		rec = &AttemptRecord{Key: key}
		g.records[key] = rec
	}

	rec.FailureCount++
	rec.LastAttemptAt = now

	if rec.FailureCount >= g.config.MaxFailures {
		rec.LockedUntil = now.Add(g.config.LockDuration)
		rec.FailureCount = 0
	}

	return decide(rec, now)
}

// Sweep drops records that hold no failures and whose lock has expired.
// It returns the number of records removed.
func (g *LoginAttemptGuard) Sweep(now time.Time) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	removed := 0
	for key, rec := range g.records {
		if rec.FailureCount == 0 && !rec.LockedUntil.After(now) {
			delete(g.records, key)
			removed++
		}
	}
	return removed
}

// Record returns a copy of the state tracked for key
func (g *LoginAttemptGuard) Record(key string) (AttemptRecord, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.records[key]
	if !ok {
		return AttemptRecord{}, false
	}
	return *rec, true
}

// Stats counts tracked and currently locked keys
func (g *LoginAttemptGuard) Stats(now time.Time) GuardStats {
	g.mu.Lock()
	defer g.mu.Unlock()

	stats := GuardStats{Tracked: len(g.records)}
	for _, rec := range g.records {
		if rec.LockedUntil.After(now) {
			stats.Locked++
		}
	}
	return stats
}

// decide reads rec, so callers must hold the guard mutex.
func decide(rec *AttemptRecord, now time.Time) Decision {
	if rec == nil || !rec.LockedUntil.After(now) {
		return Decision{Allowed: true}
	}
	return Decision{Allowed: false, RetryAfter: rec.LockedUntil.Sub(now)}
}
