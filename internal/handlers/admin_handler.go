package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/BradenHooton/loginlab/internal/services"
	pkghttp "github.com/BradenHooton/loginlab/pkg/http"
	"github.com/go-chi/chi/v5"
)

// AdminServiceInterface defines the dashboard service contract.
type AdminServiceInterface interface {
	GetDashboardStats(ctx context.Context) (*services.DashboardStatsResponse, error)
	GetLockoutStatus(ctx context.Context, username string) (*services.LockoutStatus, error)
}

// AdminHandler handles admin dashboard HTTP requests.
type AdminHandler struct {
	service AdminServiceInterface
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service AdminServiceInterface) *AdminHandler {
	return &AdminHandler{service: service}
}

// LockoutStatusResponse is the JSON view of services.LockoutStatus
type LockoutStatusResponse struct {
	Username          string     `json:"username"`
	FailureCount      int        `json:"failure_count"`
	Locked            bool       `json:"locked"`
	RetryAfterSeconds int        `json:"retry_after_seconds,omitempty"`
	LastAttemptAt     *time.Time `json:"last_attempt_at,omitempty"`
}

// RegisterRoutes mounts the dashboard under /admin. Callers add authentication.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Get("/dashboard/stats", h.GetDashboardStats)
		r.Get("/lockouts/{username}", h.GetLockoutStatus)
	})
}

// GetDashboardStats handles GET /admin/dashboard/stats
func (h *AdminHandler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetDashboardStats(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to retrieve dashboard stats")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, stats)
}

// GetLockoutStatus handles GET /admin/lockouts/{username}
func (h *AdminHandler) GetLockoutStatus(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		pkghttp.WriteBadRequest(w, "Username is required")
		return
	}

	status, err := h.service.GetLockoutStatus(r.Context(), username)
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to retrieve lockout status")
		return
	}

	resp := LockoutStatusResponse{
		Username:     status.Username,
		FailureCount: status.FailureCount,
		Locked:       status.Locked,
	}
	if status.Locked {
		resp.RetryAfterSeconds = pkghttp.RetryAfterSeconds(status.RetryAfter)
	}
	if !status.LastAttemptAt.IsZero() {
		t := status.LastAttemptAt.UTC()
		resp.LastAttemptAt = &t
	}

	pkghttp.WriteJSON(w, http.StatusOK, resp)
}
