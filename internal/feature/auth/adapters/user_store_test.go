package adapters

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"auth_backend/internal/feature/auth/domain/entity"
	"auth_backend/internal/feature/auth/usecase"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&entity.User{}), "failed to migrate table")
	return db
}

// stores runs every contract test against both UserRepository implementations.
func stores(t *testing.T) map[string]func(t *testing.T) usecase.UserRepository {
	t.Helper()
	return map[string]func(t *testing.T) usecase.UserRepository{
		"gorm":   func(t *testing.T) usecase.UserRepository { return NewUserGorm(setupTestDB(t)) },
		"memory": func(*testing.T) usecase.UserRepository { return NewUserMemory() },
	}
}

func newUser(username, email string) *entity.User {
	return &entity.User{Username: username, Email: email, PasswordHash: "hash-" + username}
}

func TestUserStore_InsertAndFind(t *testing.T) {
	for name, open := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)

			created, err := repo.Insert(ctx, newUser("alice", "A@x.io"))
			require.NoError(t, err)
			assert.NotZero(t, created.ID, "ID is not set")
			assert.Equal(t, "a@x.io", created.Email)
			assert.False(t, created.CreatedAt.IsZero(), "CreatedAt is not set")

			byName, err := repo.FindByUsername(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, created.ID, byName.ID)
			assert.Equal(t, "hash-alice", byName.PasswordHash)

			byEmail, err := repo.FindByEmail(ctx, "A@X.IO")
			require.NoError(t, err)
			assert.Equal(t, created.ID, byEmail.ID)

			_, err = repo.FindByUsername(ctx, "Alice")
			assert.ErrorIs(t, err, usecase.ErrUserNotFound, "usernames are case sensitive")

			_, err = repo.FindByEmail(ctx, "nobody@x.io")
			assert.ErrorIs(t, err, usecase.ErrUserNotFound)
		})
	}
}

func TestUserStore_InsertDuplicate(t *testing.T) {
	for name, open := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)

			_, err := repo.Insert(ctx, newUser("alice", "a@x.io"))
			require.NoError(t, err)

			_, err = repo.Insert(ctx, newUser("alice", "other@x.io"))
			assert.ErrorIs(t, err, usecase.ErrDuplicateUser, "duplicate username")

			_, err = repo.Insert(ctx, newUser("bob", "A@X.io"))
			assert.ErrorIs(t, err, usecase.ErrDuplicateUser, "duplicate email")

			users, err := repo.ListAll(ctx)
			require.NoError(t, err)
			assert.Len(t, users, 1)
		})
	}
}

func TestUserStore_UpdatePasswordHash(t *testing.T) {
	for name, open := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)

			_, err := repo.Insert(ctx, newUser("alice", "a@x.io"))
			require.NoError(t, err)

			updated, err := repo.UpdatePasswordHash(ctx, "alice", "new-hash")
			require.NoError(t, err)
			assert.Equal(t, "new-hash", updated.PasswordHash)

			found, err := repo.FindByUsername(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, "new-hash", found.PasswordHash)

			_, err = repo.UpdatePasswordHash(ctx, "ghost", "x")
			assert.ErrorIs(t, err, usecase.ErrUserNotFound)
		})
	}
}

func TestUserStore_Delete(t *testing.T) {
	for name, open := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)

			created, err := repo.Insert(ctx, newUser("alice", "a@x.io"))
			require.NoError(t, err)

			removed, err := repo.Delete(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, "alice", removed.Username)

			_, err = repo.FindByUsername(ctx, "alice")
			assert.ErrorIs(t, err, usecase.ErrUserNotFound)

			_, err = repo.Delete(ctx, created.ID)
			assert.ErrorIs(t, err, usecase.ErrUserNotFound)

			_, err = repo.Insert(ctx, newUser("alice", "a@x.io"))
			assert.NoError(t, err, "deleted identities can be registered again")
		})
	}
}

func TestUserStore_ListAllOrdered(t *testing.T) {
	for name, open := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)

			users, err := repo.ListAll(ctx)
			require.NoError(t, err)
			assert.Empty(t, users)

			for i := 0; i < 5; i++ {
				_, err := repo.Insert(ctx, newUser(fmt.Sprintf("user%d", i), fmt.Sprintf("u%d@x.io", i)))
				require.NoError(t, err)
			}

			users, err = repo.ListAll(ctx)
			require.NoError(t, err)
			require.Len(t, users, 5)
			for i := 1; i < len(users); i++ {
				assert.Less(t, users[i-1].ID, users[i].ID)
			}
			assert.Equal(t, "user0", users[0].Username)
		})
	}
}

func TestUserStore_ConcurrentInsertSameIdentity(t *testing.T) {
	for name, open := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)

			const attempts = 10
			var (
				wg sync.WaitGroup
				mu sync.Mutex
				ok int
			)
			for i := 0; i < attempts; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, err := repo.Insert(ctx, newUser("alice", "a@x.io")); err == nil {
						mu.Lock()
						ok++
						mu.Unlock()
					} else {
						assert.ErrorIs(t, err, usecase.ErrDuplicateUser)
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, 1, ok)
		})
	}
}

func TestUserMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewUserMemory()

	_, err := repo.Insert(ctx, newUser("alice", "a@x.io"))
	require.NoError(t, err)

	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	found.PasswordHash = "tampered"

	again, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "hash-alice", again.PasswordHash)
}

func TestUserStore_InsertNil(t *testing.T) {
	for name, open := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := open(t).Insert(context.Background(), nil)
			assert.Error(t, err)
			assert.NotErrorIs(t, err, usecase.ErrDuplicateUser)
		})
	}
}
