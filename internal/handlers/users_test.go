package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/BradenHooton/loginlab/internal/handlers"
	"github.com/BradenHooton/loginlab/internal/models"
	"github.com/BradenHooton/loginlab/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "3f1b5c9e-8a2d-4e6f-9b1c-2d3e4f5a6b7c"

func testUser() *models.User {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return &models.User{
		ID:           testUserID,
		Username:     "tester_brute",
		Email:        "test@brute.com",
		PasswordHash: "$2a$04$notarealhash",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func serveUsers(svc handlers.UserService, req *http.Request) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	handlers.NewUserHandler(svc).RegisterRoutes(router)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateUser_Success(t *testing.T) {
	var got services.NewUser
	svc := &handlers.MockUserService{
		CreateUserFunc: func(ctx context.Context, input services.NewUser) (*models.User, error) {
			got = input
			return testUser(), nil
		},
	}

	req := handlers.NewTestRequest(t, http.MethodPost, "/users", handlers.CreateUserRequest{
		Username: "tester_brute",
		Password: "123456",
		Email:    "test@brute.com",
	})
	w := serveUsers(svc, req)

	var resp handlers.UserResponse
	handlers.AssertJSONResponse(t, w, http.StatusCreated, &resp)
	assert.Equal(t, testUserID, resp.ID)
	assert.True(t, got.IsActive, "is_active defaults to true")
	assert.Equal(t, "123456", got.Password)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "$2a$")
}

func TestCreateUser_ExplicitlyInactive(t *testing.T) {
	var got services.NewUser
	svc := &handlers.MockUserService{
		CreateUserFunc: func(ctx context.Context, input services.NewUser) (*models.User, error) {
			got = input
			return testUser(), nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/users",
		strings.NewReader(`{"username":"sleepy","password":"secret1","is_active":false}`))
	w := serveUsers(svc, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.False(t, got.IsActive)
}

func TestCreateUser_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"username too short", `{"username":"ab","password":"123456"}`, "username"},
		{"username too long", `{"username":"` + strings.Repeat("a", 51) + `","password":"123456"}`, "username"},
		{"password too short", `{"username":"alice","password":"12345"}`, "password"},
		{"missing password", `{"username":"alice"}`, "password"},
		{"bad email", `{"username":"alice","password":"123456","email":"nope"}`, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &handlers.MockUserService{
				CreateUserFunc: func(ctx context.Context, input services.NewUser) (*models.User, error) {
					t.Fatal("service must not be called")
					return nil, nil
				},
			}

			req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(tt.body))
			w := serveUsers(svc, req)

			resp := handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
			assert.Contains(t, resp.Message, tt.field)
		})
	}
}

func TestCreateUser_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader("{"))
	w := serveUsers(&handlers.MockUserService{}, req)

	handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	svc := &handlers.MockUserService{
		CreateUserFunc: func(ctx context.Context, input services.NewUser) (*models.User, error) {
			return nil, models.ErrConflict
		},
	}

	req := handlers.NewTestRequest(t, http.MethodPost, "/users", handlers.CreateUserRequest{
		Username: "tester_brute",
		Password: "123456",
	})
	w := serveUsers(svc, req)

	resp := handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
	assert.Equal(t, "Username already exists", resp.Message)
}

func TestListUsers(t *testing.T) {
	svc := &handlers.MockUserService{
		ListActiveUsersFunc: func(ctx context.Context) ([]*models.User, error) {
			return []*models.User{testUser()}, nil
		},
	}

	w := serveUsers(svc, httptest.NewRequest(http.MethodGet, "/users", nil))

	var resp handlers.ListUsersResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Users, 1)
	assert.Equal(t, "tester_brute", resp.Users[0].Username)
}

func TestListUsers_EmptyIsArray(t *testing.T) {
	w := serveUsers(&handlers.MockUserService{}, httptest.NewRequest(http.MethodGet, "/users", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"users":[],"total":0}`, w.Body.String())
}

func TestGetUser(t *testing.T) {
	svc := &handlers.MockUserService{
		GetUserByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			if id == testUserID {
				return testUser(), nil
			}
			return nil, models.ErrNotFound
		},
	}

	w := serveUsers(svc, httptest.NewRequest(http.MethodGet, "/users/"+testUserID, nil))
	var resp handlers.UserResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, "test@brute.com", resp.Email)

	w = serveUsers(svc, httptest.NewRequest(http.MethodGet, "/users/0f1b5c9e-8a2d-4e6f-9b1c-2d3e4f5a6b7c", nil))
	handlers.AssertErrorResponse(t, w, http.StatusNotFound, "not_found")
}

func TestUserRoutes_RejectNonUUID(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/users/not-a-uuid", strings.NewReader(`{}`))
			w := serveUsers(&handlers.MockUserService{}, req)

			handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
		})
	}
}

func TestUserRoutes_AcceptAnyUUIDSpelling(t *testing.T) {
	spellings := map[string]string{
		"uppercase": strings.ToUpper(testUserID),
		"dashless":  strings.ReplaceAll(testUserID, "-", ""),
		"urn":       "urn:uuid:" + testUserID,
	}

	for name, id := range spellings {
		t.Run(name, func(t *testing.T) {
			var seen []string
			svc := &handlers.MockUserService{
				GetUserByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
					seen = append(seen, id)
					return testUser(), nil
				},
				UpdateUserFunc: func(ctx context.Context, id string, update models.UserUpdate) (*models.User, error) {
					seen = append(seen, id)
					return testUser(), nil
				},
				DeleteUserFunc: func(ctx context.Context, id string) error {
					seen = append(seen, id)
					return nil
				},
			}

			w := serveUsers(svc, httptest.NewRequest(http.MethodGet, "/users/"+id, nil))
			assert.Equal(t, http.StatusOK, w.Code)
			w = serveUsers(svc, httptest.NewRequest(http.MethodPut, "/users/"+id, strings.NewReader(`{"email":"a@b.co"}`)))
			assert.Equal(t, http.StatusOK, w.Code)
			w = serveUsers(svc, httptest.NewRequest(http.MethodDelete, "/users/"+id, nil))
			assert.Equal(t, http.StatusNoContent, w.Code)

			assert.Equal(t, []string{testUserID, testUserID, testUserID}, seen)
		})
	}
}

func TestCreateUser_OversizedBody(t *testing.T) {
	svc := &handlers.MockUserService{
		CreateUserFunc: func(ctx context.Context, input services.NewUser) (*models.User, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}

	body := `{"username":"` + strings.Repeat("a", 2<<20) + `","password":"123456"}`
	w := serveUsers(svc, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body)))

	handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
}

func TestUpdateUser_PartialFields(t *testing.T) {
	var got models.UserUpdate
	svc := &handlers.MockUserService{
		UpdateUserFunc: func(ctx context.Context, id string, update models.UserUpdate) (*models.User, error) {
			got = update
			u := testUser()
			u.IsActive = false
			return u, nil
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/users/"+testUserID, strings.NewReader(`{"is_active":false}`))
	w := serveUsers(svc, req)

	var resp handlers.UserResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.False(t, resp.IsActive)
	assert.Nil(t, got.Username)
	assert.Nil(t, got.Email)
	require.NotNil(t, got.IsActive)
	assert.False(t, *got.IsActive)
}

func TestUpdateUser_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
		code   string
	}{
		{"username taken", `{"username":"bob"}`, models.ErrConflict, http.StatusBadRequest, "bad_request"},
		{"missing user", `{"username":"bob"}`, models.ErrNotFound, http.StatusNotFound, "not_found"},
		{"username too short", `{"username":"b"}`, nil, http.StatusBadRequest, "bad_request"},
		{"store failure", `{"email":"a@b.co"}`, models.ErrInternalServer, http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &handlers.MockUserService{
				UpdateUserFunc: func(ctx context.Context, id string, update models.UserUpdate) (*models.User, error) {
					return nil, tt.err
				},
			}

			req := httptest.NewRequest(http.MethodPut, "/users/"+testUserID, strings.NewReader(tt.body))
			w := serveUsers(svc, req)

			handlers.AssertErrorResponse(t, w, tt.status, tt.code)
		})
	}
}

func TestDeleteUser(t *testing.T) {
	svc := &handlers.MockUserService{
		DeleteUserFunc: func(ctx context.Context, id string) error {
			if id == testUserID {
				return nil
			}
			return models.ErrNotFound
		},
	}

	w := serveUsers(svc, httptest.NewRequest(http.MethodDelete, "/users/"+testUserID, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = serveUsers(svc, httptest.NewRequest(http.MethodDelete, "/users/0f1b5c9e-8a2d-4e6f-9b1c-2d3e4f5a6b7c", nil))
	handlers.AssertErrorResponse(t, w, http.StatusNotFound, "not_found")
}
