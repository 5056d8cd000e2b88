package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"auth_backend/internal/feature/auth/domain/entity"
	"auth_backend/internal/platform/config"
	"auth_backend/internal/platform/db/migrations"
)

// TestBuildDSN はPostgreSQL用のDSN文字列が正しく生成されることを検証します。
func TestBuildDSN(t *testing.T) {
	t.Parallel()

	cfg := config.DBConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "testuser",
		Password: "testpass",
		Name:     "testdb",
		SSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	assert.Equal(t, expected, BuildDSN(cfg))
}

// TestConnectWithRetry_SuccessOnFirstTry は初回接続成功時にリトライせずDBを返すことを検証します。
func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	attempts := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attempts++
		assert.Equal(t, "test-dsn", dsn)
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 1, attempts)
}

// TestConnectWithRetry_RetriesOnFailure は接続失敗時にリトライして最終的に成功することを検証します。
func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	// Not parallel because this test takes time due to retry sleeps
	mockDB := &gorm.DB{}
	attempts := 0
	opener := func(string) (*gorm.DB, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 10*time.Second, opener)

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 3, attempts)
}

// TestConnectWithRetry_TimeoutAfterRetries はタイムアウト後にエラーが返されることを検証します。
func TestConnectWithRetry_TimeoutAfterRetries(t *testing.T) {
	t.Parallel()

	attempts := 0
	opener := func(string) (*gorm.DB, error) {
		attempts++
		return nil, errors.New("connection refused")
	}

	_, err := ConnectWithRetry("test-dsn", 100*time.Millisecond, opener)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.GreaterOrEqual(t, attempts, 1)
}

// TestOpen_SQLite はSQLiteで接続とマイグレーションが行われることを検証します。
func TestOpen_SQLite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := Open(ctx, config.DBConfig{Driver: DriverSQLite, Path: ":memory:", RunMigrations: true})
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable(&entity.User{}))
	assert.NoError(t, Ping(ctx, db))

	require.NoError(t, db.Create(&entity.User{Username: "alice", Email: "a@x.io", PasswordHash: "h"}).Error)
	err = db.Create(&entity.User{Username: "alice", Email: "b@x.io", PasswordHash: "h"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

// TestOpen_UnsupportedDriver は未対応のドライバーでエラーが返されることを検証します。
func TestOpen_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), config.DBConfig{Driver: "oracle"})
	assert.Error(t, err)
}

// TestMigrationsEmbedded はgoose用のSQLが埋め込まれていることを検証します。
func TestMigrationsEmbedded(t *testing.T) {
	t.Parallel()

	data, err := migrations.FS.ReadFile("00001_create_users.sql")
	require.NoError(t, err)
	assert.Contains(t, string(data), "VARCHAR(10)")
	assert.Contains(t, string(data), "VARCHAR(20)")
	assert.Contains(t, string(data), "-- +goose Up")
}
