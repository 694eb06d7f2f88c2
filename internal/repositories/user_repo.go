package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/BradenHooton/loginlab/internal/models"
	"github.com/google/uuid"
)

// UserRepository is an in-process user store. Usernames are unique and
// compared exactly; List returns users in insertion order.
type UserRepository struct {
	mu         sync.RWMutex
	byID       map[string]*models.User
	byUsername map[string]string // username -> id
	order      []string
	now        func() time.Time
}

// NewUserRepository creates an empty store
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:       make(map[string]*models.User),
		byUsername: make(map[string]string),
		now:        time.Now,
	}
}

// GetByID returns a copy of the user with the given id
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneUser(user), nil
}

// GetByUsername returns a copy of the user with the given username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneUser(r.byID[id]), nil
}

// List returns up to limit users starting at offset. A limit <= 0 means no limit.
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*models.User, 0)
	if offset < 0 {
		offset = 0
	}
	for i := offset; i < len(r.order); i++ {
		if limit > 0 && len(users) >= limit {
			break
		}
		users = append(users, cloneUser(r.byID[r.order[i]]))
	}
	return users, nil
}

// Create stores user under a new UUID. Returns ErrConflict if the username is taken.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byUsername[user.Username]; taken {
		return nil, models.ErrConflict
	}

	stored := cloneUser(user)
	stored.ID = uuid.New().String()
	stored.CreatedAt = r.now()
	stored.UpdatedAt = stored.CreatedAt

	r.byID[stored.ID] = stored
	r.byUsername[stored.Username] = stored.ID
	r.order = append(r.order, stored.ID)

	return cloneUser(stored), nil
}

// Update replaces the stored fields of user id. Returns ErrConflict if the
// new username belongs to another user.
func (r *UserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}

	if user.Username != existing.Username {
		if owner, taken := r.byUsername[user.Username]; taken && owner != id {
			return nil, models.ErrConflict
		}
		delete(r.byUsername, existing.Username)
		r.byUsername[user.Username] = id
	}

	updated := cloneUser(user)
	updated.ID = id
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = r.now()
	r.byID[id] = updated

	return cloneUser(updated), nil
}

// Delete removes user id
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return models.ErrNotFound
	}

	delete(r.byID, id)
	delete(r.byUsername, user.Username)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}
