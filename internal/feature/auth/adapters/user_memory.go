package adapters

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"auth_backend/internal/feature/auth/domain/entity"
	"auth_backend/internal/feature/auth/usecase"
)

// userMemory is an in-memory implementation of the UserRepository interface.
// Username and email uniqueness is enforced under a single lock, so concurrent
// inserts of the same identity cannot both succeed.
type userMemory struct {
	mu     sync.RWMutex
	nextID uint
	byID   map[uint]entity.User
}

// Compile-time check to ensure userMemory implements UserRepository.
var _ usecase.UserRepository = (*userMemory)(nil)

// NewUserMemory creates an empty in-memory user store.
func NewUserMemory() *userMemory {
	return &userMemory{
		nextID: 1,
		byID:   make(map[uint]entity.User),
	}
}

// FindByUsername retrieves a user by exact username.
func (r *userMemory) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if u, ok := r.findLocked(func(u entity.User) bool { return u.Username == username }); ok {
		return &u, nil
	}
	return nil, usecase.ErrUserNotFound
}

// FindByEmail retrieves a user by email, compared in lowercase.
func (r *userMemory) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	email = strings.ToLower(email)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if u, ok := r.findLocked(func(u entity.User) bool { return u.Email == email }); ok {
		return &u, nil
	}
	return nil, usecase.ErrUserNotFound
}

// Insert stores a copy of the user and assigns the next ID.
func (r *userMemory) Insert(_ context.Context, u *entity.User) (*entity.User, error) {
	if u == nil {
		return nil, errors.New("user is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(u.Email)
	if _, taken := r.findLocked(func(existing entity.User) bool {
		return existing.Username == u.Username || existing.Email == email
	}); taken {
		return nil, usecase.ErrDuplicateUser
	}

	now := time.Now()
	u.ID = r.nextID
	u.Email = email
	u.CreatedAt = now
	u.UpdatedAt = now
	r.nextID++
	r.byID[u.ID] = *u

	out := *u
	return &out, nil
}

// UpdatePasswordHash replaces the password hash of the named user.
func (r *userMemory) UpdatePasswordHash(_ context.Context, username, hash string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.findLocked(func(u entity.User) bool { return u.Username == username })
	if !ok {
		return nil, usecase.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
	r.byID[u.ID] = u
	return &u, nil
}

// Delete removes the user with the given ID.
func (r *userMemory) Delete(_ context.Context, id uint) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, usecase.ErrUserNotFound
	}
	delete(r.byID, id)
	return &u, nil
}

// ListAll returns copies of every user ordered by ID.
func (r *userMemory) ListAll(_ context.Context) ([]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*entity.User, 0, len(r.byID))
	for _, u := range r.byID {
		u := u
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// findLocked must be called with r.mu held.
func (r *userMemory) findLocked(match func(entity.User) bool) (entity.User, bool) {
	for _, u := range r.byID {
		if match(u) {
			return u, true
		}
	}
	return entity.User{}, false
}
