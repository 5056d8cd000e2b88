// Package entity defines the domain entities for the auth feature.
package entity

import "time"

const (
	// UsernameMaxLength is the maximum number of characters in a username.
	UsernameMaxLength = 10

	// EmailMaxLength is the maximum number of characters in an email address.
	EmailMaxLength = 20

	// PasswordMaxBytes is the longest password every supported hasher accepts (bcrypt's limit).
	PasswordMaxBytes = 72
)

// User represents a registered user in the system.
// It is the only persistent entity of the auth feature.
type User struct {
	// ID is system-assigned and immutable after creation.
	ID uint `gorm:"primaryKey"`

	// Username must be unique across all users.
	Username string `gorm:"uniqueIndex;size:10;not null"`

	// Email is stored lowercased and must be unique across all users.
	Email string `gorm:"uniqueIndex;size:20;not null"`

	// PasswordHash is produced by a password hasher.
	// It never stores plaintext passwords.
	PasswordHash string `gorm:"size:255;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (User) TableName() string {
	return "users"
}

// Profile is the public projection of a User. It never carries the password hash.
type Profile struct {
	ID       uint
	Username string
	Email    string
}

// Profile returns the public projection of the user.
func (u *User) Profile() Profile {
	return Profile{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}
