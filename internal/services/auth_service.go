package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/BradenHooton/loginlab/internal/auth"
	"github.com/BradenHooton/loginlab/internal/metrics"
	"github.com/BradenHooton/loginlab/internal/models"
	pkglogger "github.com/BradenHooton/loginlab/pkg/logger"
)

// LoginAttempt is one submitted login
type LoginAttempt struct {
	Username  string
	Password  string
	IPAddress string
	UserAgent string
}

// LoginResult is returned on a successful login
type LoginResult struct {
	UserID      string
	Username    string
	AccessToken string
}

// AuthService runs logins through the lockout guard
type AuthService struct {
	guard         *auth.LoginAttemptGuard
	authenticator Authenticator
	tm            *auth.TokenManager
	clock         auth.Clock
	timing        *auth.TimingDelay
	metrics       *metrics.AuthMetrics
	logger        *slog.Logger
	auditLogger   *pkglogger.AuditLogger
}

// NewAuthService creates a new AuthService. timing and authMetrics may be nil.
func NewAuthService(guard *auth.LoginAttemptGuard, authenticator Authenticator, tm *auth.TokenManager, clock auth.Clock, timing *auth.TimingDelay, authMetrics *metrics.AuthMetrics, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *AuthService {
	if clock == nil {
		clock = auth.SystemClock{}
	}
	return &AuthService{
		guard:         guard,
		authenticator: authenticator,
		tm:            tm,
		clock:         clock,
		timing:        timing,
		metrics:       authMetrics,
		logger:        logger,
		auditLogger:   auditLogger,
	}
}

// Login checks the guard for the submitted username, verifies the
// credentials and reports the outcome back to the guard.
//
// Errors: *models.LockoutError while the username is locked,
// models.ErrUnauthorized for any credential failure and
// models.ErrInternalServer otherwise.
func (s *AuthService) Login(ctx context.Context, attempt LoginAttempt) (*LoginResult, error) {
	start := time.Now()
	key := attempt.Username

	if d := s.guard.CheckAllowed(key, s.clock.Now()); !d.Allowed {
		s.metrics.ObserveLogin(metrics.OutcomeLocked)
		s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
			EventType:     pkglogger.EventLoginLocked,
			Username:      attempt.Username,
			IPAddress:     attempt.IPAddress,
			UserAgent:     attempt.UserAgent,
			FailureReason: "locked",
			RetryAfter:    d.RetryAfter,
		})
		return nil, &models.LockoutError{RetryAfter: d.RetryAfter}
	}

	user, err := s.authenticator.Authenticate(ctx, attempt.Username, attempt.Password)
	if err != nil {
		if !isCredentialFailure(err) {
			s.logger.Error("login failed: authenticator error", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}

		d := s.guard.ReportFailure(key, s.clock.Now())
		s.metrics.ObserveLogin(metrics.OutcomeFailure)
		if !d.Allowed {
			s.metrics.ObserveLockout()
			s.logger.Warn("login identity locked",
				slog.String("username", pkglogger.MaskUsername(attempt.Username)),
				slog.Duration("retry_after", d.RetryAfter))
		}
		s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
			EventType:     pkglogger.EventLoginFailed,
			Username:      attempt.Username,
			IPAddress:     attempt.IPAddress,
			UserAgent:     attempt.UserAgent,
			FailureReason: failureReason(err),
			RetryAfter:    d.RetryAfter,
		})

		s.pad(start, false)
		return nil, models.ErrUnauthorized
	}

	s.guard.ReportSuccess(key, s.clock.Now())

	token, err := s.tm.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		s.logger.Error("failed to generate access token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.metrics.ObserveLogin(metrics.OutcomeSuccess)
	s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
		EventType: pkglogger.EventLoginSuccess,
		UserID:    user.ID,
		Username:  user.Username,
		IPAddress: attempt.IPAddress,
		UserAgent: attempt.UserAgent,
		Success:   true,
	})

	s.pad(start, true)
	return &LoginResult{
		UserID:      user.ID,
		Username:    user.Username,
		AccessToken: token,
	}, nil
}

func (s *AuthService) pad(start time.Time, success bool) {
	if s.timing != nil {
		s.timing.WaitFrom(start, success)
	}
}
