package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/BradenHooton/loginlab/internal/auth"
	"github.com/BradenHooton/loginlab/internal/models"
	"github.com/BradenHooton/loginlab/internal/services"
	pkghttp "github.com/BradenHooton/loginlab/pkg/http"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Login(ctx context.Context, attempt services.LoginAttempt) (*services.LoginResult, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service  AuthServiceInterface
	users    UserService
	ipConfig *pkghttp.IPConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface, users UserService, ipConfig *pkghttp.IPConfig) *AuthHandler {
	return &AuthHandler{
		service:  service,
		users:    users,
		ipConfig: ipConfig,
	}
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned on successful login
type LoginResponse struct {
	Message     string `json:"message"`
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
}

const loginFailedMessage = "Login failed: invalid credentials"

// Login handles user login
//
// @Summary User login
// @Accept json
// @Param request body LoginRequest true "Login request"
// @Produce json
// @Success 200 {object} LoginResponse
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 401 {object} pkghttp.ErrorResponse
// @Failure 429 {object} pkghttp.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	// The username is the lockout key and is passed through untouched
	result, err := h.service.Login(r.Context(), services.LoginAttempt{
		Username:  req.Username,
		Password:  req.Password,
		IPAddress: pkghttp.ExtractClientIP(r, h.ipConfig),
		UserAgent: r.Header.Get("User-Agent"),
	})
	if err != nil {
		var lockErr *models.LockoutError
		switch {
		case errors.As(err, &lockErr):
			pkghttp.WriteTooManyRequests(w, "Too many failed login attempts. Please try again later.", lockErr.RetryAfter)
		case errors.Is(err, models.ErrRateLimitExceeded):
			pkghttp.WriteTooManyRequests(w, "Too many failed login attempts. Please try again later.", 0)
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, loginFailedMessage)
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, LoginResponse{
		Message:     "Login successful",
		UserID:      result.UserID,
		AccessToken: result.AccessToken,
	})
}

// Me returns the user behind the bearer token
//
// @Summary Current user
// @Security BearerAuth
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} pkghttp.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Missing authentication")
		return
	}

	user, err := h.users.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteUnauthorized(w, "Account no longer exists")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}
	if !user.IsActive {
		pkghttp.WriteUnauthorized(w, "Account is not active")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, userModelToResponse(user))
}
