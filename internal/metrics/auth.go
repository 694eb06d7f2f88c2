package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Login outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeLocked  = "locked"
)

// AuthMetrics tracks login outcomes and lockout guard state
type AuthMetrics struct {
	LoginAttempts *prometheus.CounterVec
	Lockouts      prometheus.Counter
	GuardTracked  prometheus.Gauge
	GuardLocked   prometheus.Gauge
	GuardSwept    prometheus.Counter
}

// NewAuthMetrics creates and registers the login collectors
func NewAuthMetrics(opts Options) (*AuthMetrics, error) {
	opts = opts.withDefaults()

	attempts, err := register(opts.Registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: opts.Namespace,
		Subsystem: "auth",
		Name:      "login_attempts_total",
		Help:      "Login attempts partitioned by outcome (success, failure, locked).",
	}, []string{"outcome"}))
	if err != nil {
		return nil, err
	}

	lockouts, err := register(opts.Registerer, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: opts.Namespace,
		Subsystem: "auth",
		Name:      "lockouts_total",
		Help:      "Number of times a failure pushed an identity into lockout.",
	}))
	if err != nil {
		return nil, err
	}

	tracked, err := register(opts.Registerer, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: opts.Namespace,
		Subsystem: "guard",
		Name:      "tracked_keys",
		Help:      "Identity keys currently holding failure or lockout state.",
	}))
	if err != nil {
		return nil, err
	}

	locked, err := register(opts.Registerer, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: opts.Namespace,
		Subsystem: "guard",
		Name:      "locked_keys",
		Help:      "Identity keys currently locked out.",
	}))
	if err != nil {
		return nil, err
	}

	swept, err := register(opts.Registerer, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: opts.Namespace,
		Subsystem: "guard",
		Name:      "swept_records_total",
		Help:      "Stale guard records removed by the sweeper.",
	}))
	if err != nil {
		return nil, err
	}

	return &AuthMetrics{
		LoginAttempts: attempts,
		Lockouts:      lockouts,
		GuardTracked:  tracked,
		GuardLocked:   locked,
		GuardSwept:    swept,
	}, nil
}

// ObserveLogin counts one login attempt. Safe on a nil receiver.
func (m *AuthMetrics) ObserveLogin(outcome string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}

// ObserveLockout counts a newly triggered lockout
func (m *AuthMetrics) ObserveLockout() {
	if m == nil {
		return
	}
	m.Lockouts.Inc()
}

// SetGuardState publishes the guard's current size
func (m *AuthMetrics) SetGuardState(tracked, locked int) {
	if m == nil {
		return
	}
	m.GuardTracked.Set(float64(tracked))
	m.GuardLocked.Set(float64(locked))
}

// AddSwept counts records removed by a sweep
func (m *AuthMetrics) AddSwept(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.GuardSwept.Add(float64(n))
}
