package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/loginlab/internal/auth"
	"github.com/BradenHooton/loginlab/internal/models"
	"github.com/BradenHooton/loginlab/internal/services"
	pkghttp "github.com/BradenHooton/loginlab/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAuthContext adds user claims to request context for testing authenticated endpoints
func WithAuthContext(req *http.Request, userID, username string) *http.Request {
	claims := &models.TokenClaims{
		UserID:   userID,
		Username: username,
		Type:     "access",
	}
	ctx := context.WithValue(req.Context(), auth.UserContextKey, claims)
	return req.WithContext(ctx)
}

// WithChiRouteContext sets chi URL params on a request that bypasses the router
func WithChiRouteContext(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"), "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) pkghttp.ErrorResponse {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
	return resp
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	LoginFunc func(ctx context.Context, attempt services.LoginAttempt) (*services.LoginResult, error)
}

func (m *MockAuthService) Login(ctx context.Context, attempt services.LoginAttempt) (*services.LoginResult, error) {
	if m.LoginFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.LoginFunc(ctx, attempt)
}

// MockUserService implements UserService for testing
type MockUserService struct {
	GetUserByIDFunc     func(ctx context.Context, id string) (*models.User, error)
	ListActiveUsersFunc func(ctx context.Context) ([]*models.User, error)
	CreateUserFunc      func(ctx context.Context, input services.NewUser) (*models.User, error)
	UpdateUserFunc      func(ctx context.Context, id string, update models.UserUpdate) (*models.User, error)
	DeleteUserFunc      func(ctx context.Context, id string) error
}

func (m *MockUserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetUserByIDFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetUserByIDFunc(ctx, id)
}

func (m *MockUserService) ListActiveUsers(ctx context.Context) ([]*models.User, error) {
	if m.ListActiveUsersFunc == nil {
		return []*models.User{}, nil
	}
	return m.ListActiveUsersFunc(ctx)
}

func (m *MockUserService) CreateUser(ctx context.Context, input services.NewUser) (*models.User, error) {
	if m.CreateUserFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.CreateUserFunc(ctx, input)
}

func (m *MockUserService) UpdateUser(ctx context.Context, id string, update models.UserUpdate) (*models.User, error) {
	if m.UpdateUserFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateUserFunc(ctx, id, update)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id string) error {
	if m.DeleteUserFunc == nil {
		return nil
	}
	return m.DeleteUserFunc(ctx, id)
}
