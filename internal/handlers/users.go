package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/BradenHooton/loginlab/internal/models"
	"github.com/BradenHooton/loginlab/internal/services"
	pkghttp "github.com/BradenHooton/loginlab/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// UserService defines the interface for user business logic
type UserService interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ListActiveUsers(ctx context.Context) ([]*models.User, error)
	CreateUser(ctx context.Context, input services.NewUser) (*models.User, error)
	UpdateUser(ctx context.Context, id string, update models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	service UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Email    string `json:"email" validate:"omitempty,email"`
	IsActive *bool  `json:"is_active"`
}

// UpdateUserRequest represents the request body for updating a user.
// Omitted fields are left unchanged.
type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
	IsActive *bool   `json:"is_active"`
}

// UserResponse represents a user in the HTTP response
type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ListUsersResponse represents a list of users
type ListUsersResponse struct {
	Users []*UserResponse `json:"users"`
	Total int             `json:"total"`
}

// userModelToResponse converts a user model to a response DTO
func userModelToResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}

// RegisterRoutes registers all user routes with the chi router
func (h *UserHandler) RegisterRoutes(router chi.Router) {
	router.Route("/users", func(r chi.Router) {
		r.Post("/", h.CreateUser)       // POST /users
		r.Get("/", h.ListUsers)         // GET /users
		r.Get("/{id}", h.GetUser)       // GET /users/{id}
		r.Put("/{id}", h.UpdateUser)    // PUT /users/{id}
		r.Delete("/{id}", h.DeleteUser) // DELETE /users/{id}
	})
}

// userIDParam returns the {id} path parameter in canonical form, or false
// after writing a 400. Any spelling uuid.Parse accepts addresses the same user.
func userIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	parsed, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		pkghttp.WriteBadRequest(w, "User ID must be a valid UUID")
		return "", false
	}
	return parsed.String(), true
}

// GetUser retrieves a user by ID
//
// @Summary Get user by ID
// @Param id path string true "User ID"
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 404 {object} pkghttp.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetUserByID(r.Context(), id)
	if err != nil {
		writeUserError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, userModelToResponse(user))
}

// ListUsers returns all active users
//
// @Summary List active users
// @Produce json
// @Success 200 {object} ListUsersResponse
// @Failure 500 {object} pkghttp.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListActiveUsers(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	response := &ListUsersResponse{
		Users: make([]*UserResponse, len(users)),
		Total: len(users),
	}
	for i, user := range users {
		response.Users[i] = userModelToResponse(user)
	}

	pkghttp.WriteJSON(w, http.StatusOK, response)
}

// CreateUser creates a new user
//
// @Summary Create a new user
// @Accept json
// @Param request body CreateUserRequest true "Create user request"
// @Produce json
// @Success 201 {object} UserResponse
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 500 {object} pkghttp.ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	user, err := h.service.CreateUser(r.Context(), services.NewUser{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		IsActive: isActive,
	})
	if err != nil {
		writeUserError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, userModelToResponse(user))
}

// UpdateUser applies a partial update. The password cannot be changed here.
//
// @Summary Update user
// @Accept json
// @Param id path string true "User ID"
// @Param request body UpdateUserRequest true "Update user request"
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 404 {object} pkghttp.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user, err := h.service.UpdateUser(r.Context(), id, models.UserUpdate{
		Username: req.Username,
		Email:    req.Email,
		IsActive: req.IsActive,
	})
	if err != nil {
		writeUserError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, userModelToResponse(user))
}

// DeleteUser deletes a user
//
// @Summary Delete user
// @Param id path string true "User ID"
// @Success 204
// @Failure 404 {object} pkghttp.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		writeUserError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeUserError maps service errors to responses
func writeUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "User not found")
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteBadRequest(w, "Username already exists")
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, err.Error())
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}
