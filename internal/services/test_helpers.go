package services

import (
	"context"
	"sync"
	"time"

	"github.com/BradenHooton/loginlab/internal/models"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc       func(ctx context.Context, id string) (*models.User, error)
	GetByUsernameFunc func(ctx context.Context, username string) (*models.User, error)
	ListFunc          func(ctx context.Context, limit, offset int) ([]*models.User, error)
	CreateFunc        func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateFunc        func(ctx context.Context, id string, user *models.User) (*models.User, error)
	DeleteFunc        func(ctx context.Context, id string) error
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockAuthenticator implements Authenticator for testing
type MockAuthenticator struct {
	AuthenticateFunc func(ctx context.Context, username, password string) (*models.User, error)

	mu    sync.Mutex
	calls int
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, username, password)
	}
	return nil, models.ErrUnknownIdentity
}

// Calls returns how many times Authenticate ran
func (m *MockAuthenticator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// FakeClock is a manually advanced auth.Clock
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock returns a clock stopped at start
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// NewTestUser creates an active user for testing
func NewTestUser(id, username string) *models.User {
	now := time.Now()
	return &models.User{
		ID:        id,
		Username:  username,
		Email:     username + "@example.com",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
