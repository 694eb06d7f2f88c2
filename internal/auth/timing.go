package auth

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// TimingConfig holds configuration for response time padding on login
type TimingConfig struct {
	BaseDelay      time.Duration // Minimum time a failed login takes
	RandomDelay    time.Duration // Upper bound of extra random jitter
	DelayOnSuccess bool          // Pad successful logins too
}

// TimingDelay pads login responses so "unknown user" and "wrong password"
// take about the same time
type TimingDelay struct {
	config TimingConfig
	sleep  func(time.Duration)
	since  func(time.Time) time.Duration
}

// NewTimingDelay creates a new TimingDelay instance
func NewTimingDelay(config TimingConfig) *TimingDelay {
	return &TimingDelay{
		config: config,
		sleep:  time.Sleep,
		since:  time.Since,
	}
}

// NewTimingDelayWithSleeper is NewTimingDelay with injectable time functions, for tests
func NewTimingDelayWithSleeper(config TimingConfig, sleep func(time.Duration), since func(time.Time) time.Duration) *TimingDelay {
	return &TimingDelay{
		config: config,
		sleep:  sleep,
		since:  since,
	}
}

// cryptoRandDuration returns a uniformly random duration in [0, max)
func cryptoRandDuration(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	return time.Duration(binary.BigEndian.Uint64(buf[:]) % uint64(max))
}

// Target returns the padded duration for one response
func (td *TimingDelay) Target() time.Duration {
	return td.config.BaseDelay + cryptoRandDuration(td.config.RandomDelay)
}

// WaitFrom sleeps until at least Target() has elapsed since start.
// Successful logins return immediately unless DelayOnSuccess is set.
func (td *TimingDelay) WaitFrom(start time.Time, success bool) {
	if success && !td.config.DelayOnSuccess {
		return
	}

	target := td.Target()
	if elapsed := td.since(start); elapsed < target {
		td.sleep(target - elapsed)
	}
}
