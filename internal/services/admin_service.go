package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/BradenHooton/loginlab/internal/auth"
	"github.com/BradenHooton/loginlab/internal/models"
)

// AdminUserRepository is the subset of UserRepository methods needed by AdminService.
type AdminUserRepository interface {
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
}

// LockoutInspector is the read-only view of the login guard used by AdminService.
type LockoutInspector interface {
	Config() auth.GuardConfig
	CheckAllowed(key string, now time.Time) auth.Decision
	Record(key string) (auth.AttemptRecord, bool)
	Stats(now time.Time) auth.GuardStats
}

// DashboardStatsResponse contains aggregate user and lockout counts.
type DashboardStatsResponse struct {
	TotalUsers          int `json:"total_users"`
	ActiveUsers         int `json:"active_users"`
	InactiveUsers       int `json:"inactive_users"`
	TrackedIdentities   int `json:"tracked_identities"`
	LockedIdentities    int `json:"locked_identities"`
	MaxFailures         int `json:"max_failures"`
	LockDurationSeconds int `json:"lock_duration_seconds"`
}

// LockoutStatus is the guard state for one submitted username.
type LockoutStatus struct {
	Username      string
	FailureCount  int
	Locked        bool
	RetryAfter    time.Duration
	LastAttemptAt time.Time // Zero when nothing is tracked
}

// AdminService aggregates data for admin dashboard endpoints.
type AdminService struct {
	userRepo AdminUserRepository
	guard    LockoutInspector
	clock    auth.Clock
	logger   *slog.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(userRepo AdminUserRepository, guard LockoutInspector, clock auth.Clock, logger *slog.Logger) *AdminService {
	if clock == nil {
		clock = auth.SystemClock{}
	}
	return &AdminService{
		userRepo: userRepo,
		guard:    guard,
		clock:    clock,
		logger:   logger,
	}
}

// GetDashboardStats returns user counts alongside the guard's current state.
// All user counts come from one snapshot of the store.
func (s *AdminService) GetDashboardStats(ctx context.Context) (*DashboardStatsResponse, error) {
	users, err := s.userRepo.List(ctx, 0, 0)
	if err != nil {
		s.logger.Error("dashboard: failed to list users", slog.Any("error", err))
		return nil, err
	}

	total := len(users)
	active := 0
	for _, u := range users {
		if u.IsActive {
			active++
		}
	}

	stats := s.guard.Stats(s.clock.Now())
	cfg := s.guard.Config()

	return &DashboardStatsResponse{
		TotalUsers:          total,
		ActiveUsers:         active,
		InactiveUsers:       total - active,
		TrackedIdentities:   stats.Tracked,
		LockedIdentities:    stats.Locked,
		MaxFailures:         cfg.MaxFailures,
		LockDurationSeconds: int(cfg.LockDuration / time.Second),
	}, nil
}

// GetLockoutStatus reports the guard state for username as submitted at
// login. Usernames with no account are tracked the same way.
func (s *AdminService) GetLockoutStatus(ctx context.Context, username string) (*LockoutStatus, error) {
	now := s.clock.Now()
	status := &LockoutStatus{Username: username}

	if rec, ok := s.guard.Record(username); ok {
		status.FailureCount = rec.FailureCount
		status.LastAttemptAt = rec.LastAttemptAt
	}
	if d := s.guard.CheckAllowed(username, now); !d.Allowed {
		status.Locked = true
		status.RetryAfter = d.RetryAfter
	}

	return status, nil
}
