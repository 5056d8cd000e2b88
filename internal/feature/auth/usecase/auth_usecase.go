package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"auth_backend/internal/feature/auth/domain"
	"auth_backend/internal/feature/auth/domain/entity"
)

// dummyPassword is hashed once with the configured hasher. The result is verified when
// the user does not exist, so a login for an unknown username costs as much as a wrong password.
const dummyPassword = "unknown-user-timing-guard"

// fallbackDummyHash is used only when the hasher fails to hash dummyPassword.
const fallbackDummyHash = "$2a$12$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository abstracts the persistence layer for user entities.
// Interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// FindByUsername returns ErrUserNotFound when no user has the username.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByEmail returns ErrUserNotFound when no user has the email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Insert persists a new user and assigns its ID.
	// It returns ErrDuplicateUser when the username or email is already taken.
	Insert(ctx context.Context, user *entity.User) (*entity.User, error)

	// UpdatePasswordHash replaces the stored hash of the named user.
	// It returns ErrUserNotFound when the user does not exist.
	UpdatePasswordHash(ctx context.Context, username, hash string) (*entity.User, error)

	// Delete removes the user with the given ID and returns the removed record.
	// It returns ErrUserNotFound when the user does not exist.
	Delete(ctx context.Context, id uint) (*entity.User, error)

	// ListAll returns every stored user ordered by ID.
	ListAll(ctx context.Context) ([]*entity.User, error)
}

// PasswordHasher turns plaintext passwords into salted one-way hashes and checks candidates against them.
type PasswordHasher interface {
	// Hash returns an encoded hash with the salt embedded.
	Hash(password string) (string, error)

	// Verify reports whether password matches encodedHash.
	// Malformed hashes never match.
	Verify(encodedHash, password string) bool
}

// TokenIssuer issues signed bearer tokens for authenticated users.
type TokenIssuer interface {
	// IssueToken returns a signed token asserting the given identity.
	IssueToken(username, email string) (string, error)
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Profile entity.Profile
	Token   string
}

// authUsecase implements the authentication business logic.
// It holds no per-request state and is safe for concurrent use.
type authUsecase struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
	logger *slog.Logger

	dummyHash string
}

// NewAuthUsecase creates a new authUsecase. A nil logger falls back to slog.Default().
func NewAuthUsecase(users UserRepository, hasher PasswordHasher, tokens TokenIssuer, logger *slog.Logger) *authUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "auth_usecase")

	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		logger.Warn("failed to build dummy hash, using fixed bcrypt hash", "error", err)
		dummy = fallbackDummyHash
	}

	return &authUsecase{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
		dummyHash: dummy,
	}
}

// ListUsers returns the profiles of all registered users.
func (u *authUsecase) ListUsers(ctx context.Context) ([]entity.Profile, error) {
	log := u.logger.With("op", "list_users")
	log.DebugContext(ctx, "operation started")

	users, err := u.users.ListAll(ctx)
	if err != nil {
		return nil, u.internal(ctx, log, "list users", err)
	}

	profiles := make([]entity.Profile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, user.Profile())
	}
	log.InfoContext(ctx, "users listed", "count", len(profiles))
	return profiles, nil
}

// Register creates a new user with a hashed password. It does not issue a token.
func (u *authUsecase) Register(ctx context.Context, username, email, password string) (entity.Profile, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	log := u.logger.With("op", "register", "username", username)
	log.DebugContext(ctx, "operation started")

	if username == "" || email == "" || isBlank(password) {
		return entity.Profile{}, u.reject(ctx, log, domain.Wrap(domain.ErrValidation, "all fields are required"))
	}
	if err := validateLengths(username, email); err != nil {
		return entity.Profile{}, u.reject(ctx, log, err)
	}
	if err := validatePassword(password); err != nil {
		return entity.Profile{}, u.reject(ctx, log, err)
	}

	if _, err := u.users.FindByUsername(ctx, username); err == nil {
		return entity.Profile{}, u.reject(ctx, log, domain.ErrUsernameTaken)
	} else if !errors.Is(err, ErrUserNotFound) {
		return entity.Profile{}, u.internal(ctx, log, "find user by username", err)
	}

	if _, err := u.users.FindByEmail(ctx, email); err == nil {
		return entity.Profile{}, u.reject(ctx, log, domain.ErrEmailTaken)
	} else if !errors.Is(err, ErrUserNotFound) {
		return entity.Profile{}, u.internal(ctx, log, "find user by email", err)
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return entity.Profile{}, u.internal(ctx, log, "hash password", err)
	}

	created, err := u.users.Insert(ctx, &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			// Lost a race against a concurrent registration.
			return entity.Profile{}, u.reject(ctx, log, u.conflictFor(ctx, username))
		}
		return entity.Profile{}, u.internal(ctx, log, "insert user", err)
	}

	log.InfoContext(ctx, "user registered", "user_id", created.ID)
	return created.Profile(), nil
}

// Login authenticates a user and returns the profile together with a signed token.
// Unknown usernames and wrong passwords yield the same ErrUnauthenticated error.
func (u *authUsecase) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	log := u.logger.With("op", "login", "username", username)
	log.DebugContext(ctx, "operation started")

	if username == "" || isBlank(password) {
		return nil, u.reject(ctx, log, domain.Wrap(domain.ErrValidation, "username and password are required"))
	}

	user, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			u.hasher.Verify(u.dummyHash, password)
			return nil, u.reject(ctx, log, domain.ErrUnauthenticated, "reason", "unknown_user")
		}
		return nil, u.internal(ctx, log, "find user by username", err)
	}

	if user.PasswordHash == "" {
		return nil, u.reject(ctx, log, domain.ErrUnauthenticated, "reason", "no_password")
	}
	if !u.hasher.Verify(user.PasswordHash, password) {
		return nil, u.reject(ctx, log, domain.ErrUnauthenticated, "reason", "password_mismatch")
	}

	profile := user.Profile()
	profile.Email = strings.ToLower(profile.Email)

	token, err := u.tokens.IssueToken(profile.Username, profile.Email)
	if err != nil {
		return nil, u.internal(ctx, log, "issue token", err)
	}

	log.InfoContext(ctx, "user logged in", "user_id", profile.ID)
	return &LoginResult{Profile: profile, Token: token}, nil
}

// UpdatePassword replaces the password of an existing user. It does not issue a token.
func (u *authUsecase) UpdatePassword(ctx context.Context, username, newPassword string) error {
	username = strings.TrimSpace(username)
	log := u.logger.With("op", "update_password", "username", username)
	log.DebugContext(ctx, "operation started")

	if username == "" || isBlank(newPassword) {
		return u.reject(ctx, log, domain.Wrap(domain.ErrValidation, "username and password are required"))
	}
	if err := validatePassword(newPassword); err != nil {
		return u.reject(ctx, log, err)
	}

	if _, err := u.users.FindByUsername(ctx, username); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return u.reject(ctx, log, domain.ErrNotFound)
		}
		return u.internal(ctx, log, "find user by username", err)
	}

	hash, err := u.hasher.Hash(newPassword)
	if err != nil {
		return u.internal(ctx, log, "hash password", err)
	}

	if _, err := u.users.UpdatePasswordHash(ctx, username, hash); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return u.reject(ctx, log, domain.ErrNotFound)
		}
		return u.internal(ctx, log, "update password hash", err)
	}

	log.InfoContext(ctx, "password updated")
	return nil
}

// Delete removes a user permanently.
func (u *authUsecase) Delete(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	log := u.logger.With("op", "delete", "username", username)
	log.DebugContext(ctx, "operation started")

	if username == "" {
		return u.reject(ctx, log, domain.Wrap(domain.ErrValidation, "username is required"))
	}

	user, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return u.reject(ctx, log, domain.ErrNotFound)
		}
		return u.internal(ctx, log, "find user by username", err)
	}

	if _, err := u.users.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return u.reject(ctx, log, domain.ErrNotFound)
		}
		return u.internal(ctx, log, "delete user", err)
	}

	log.InfoContext(ctx, "user deleted", "user_id", user.ID)
	return nil
}

// conflictFor tells which unique field a rejected insert collided on.
func (u *authUsecase) conflictFor(ctx context.Context, username string) error {
	if _, err := u.users.FindByUsername(ctx, username); err == nil {
		return domain.ErrUsernameTaken
	}
	return domain.ErrEmailTaken
}

// reject logs an expected outcome at warn level and returns it unchanged.
func (u *authUsecase) reject(ctx context.Context, log *slog.Logger, err error, attrs ...any) error {
	log.WarnContext(ctx, "operation rejected", append([]any{"reason_error", err.Error()}, attrs...)...)
	return err
}

// internal logs an unexpected failure and wraps it as domain.ErrInternal.
func (u *authUsecase) internal(ctx context.Context, log *slog.Logger, step string, err error) error {
	log.ErrorContext(ctx, "operation failed", "step", step, "error", err)
	return fmt.Errorf("%w: %s: %w", domain.ErrInternal, step, err)
}

func validateLengths(username, email string) error {
	if utf8.RuneCountInString(username) > entity.UsernameMaxLength {
		return domain.Wrap(domain.ErrValidation,
			fmt.Sprintf("username must be at most %d characters", entity.UsernameMaxLength))
	}
	if utf8.RuneCountInString(email) > entity.EmailMaxLength {
		return domain.Wrap(domain.ErrValidation,
			fmt.Sprintf("email must be at most %d characters", entity.EmailMaxLength))
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) > entity.PasswordMaxBytes {
		return domain.Wrap(domain.ErrValidation,
			fmt.Sprintf("password must be at most %d bytes", entity.PasswordMaxBytes))
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
