// Package adapters provides repository implementations for the auth feature.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"auth_backend/internal/feature/auth/domain/entity"
	"auth_backend/internal/feature/auth/usecase"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

// userGorm is a GORM implementation of the UserRepository interface.
// It works with any dialect the platform/db package opens (PostgreSQL, SQLite).
type userGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure userGorm implements UserRepository.
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm creates a new instance of userGorm.
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// FindByUsername retrieves a user by exact username.
// It returns usecase.ErrUserNotFound if no user matches.
func (r *userGorm) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.first(ctx, "username = ?", username)
}

// FindByEmail retrieves a user by email. Emails are stored lowercased.
// It returns usecase.ErrUserNotFound if no user matches.
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", strings.ToLower(email))
}

// Insert adds the user to the database and fills in its ID and timestamps.
// Unique index violations are reported as usecase.ErrDuplicateUser.
func (r *userGorm) Insert(ctx context.Context, u *entity.User) (*entity.User, error) {
	if u == nil {
		return nil, errors.New("user is nil")
	}
	u.Email = strings.ToLower(u.Email)
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, usecase.ErrDuplicateUser
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// UpdatePasswordHash replaces the password hash of the named user and returns the updated record.
func (r *userGorm) UpdatePasswordHash(ctx context.Context, username, hash string) (*entity.User, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("username = ?", username).
		Update("password_hash", hash)
	if result.Error != nil {
		return nil, fmt.Errorf("update password hash: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, usecase.ErrUserNotFound
	}
	return r.FindByUsername(ctx, username)
}

// Delete removes the user with the given ID and returns the removed record.
func (r *userGorm) Delete(ctx context.Context, id uint) (*entity.User, error) {
	u, err := r.first(ctx, "id = ?", id)
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).Delete(&entity.User{}, "id = ?", id)
	if result.Error != nil {
		return nil, fmt.Errorf("delete user %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		// Deleted concurrently between the lookup and the delete.
		return nil, usecase.ErrUserNotFound
	}
	return u, nil
}

// ListAll returns every user ordered by ID.
func (r *userGorm) ListAll(ctx context.Context) ([]*entity.User, error) {
	var users []*entity.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *userGorm) first(ctx context.Context, query string, arg any) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// isDuplicateKey recognizes unique violations whether or not GORM translated the driver error.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
