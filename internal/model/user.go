package model

import (
	"context"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for user accounts.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
}

// User represents a stored account with its password verifier.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash []byte
	Salt         []byte
	KDF          []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// MinPasswordLength is the shortest password accepted at sign-up, in characters.
const MinPasswordLength = 6

// PasswordTooShort reports whether password has fewer than
// MinPasswordLength characters.
func PasswordTooShort(password string) bool {
	return utf8.RuneCountInString(password) < MinPasswordLength
}

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// ValidEmail reports whether email looks like an address.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// KDFParams are the argon2id cost parameters stored with each password hash.
type KDFParams struct {
	Time   uint32 `json:"time"`
	MemKiB uint32 `json:"mem_kib"`
	Par    uint8  `json:"par"`
}

// UserProfile is the record kept at users/{uid}.
type UserProfile struct {
	Name     string
	Age      string
	Username string
	Avatar   string
}

// DefaultAvatar is shown when a profile has no avatar.
const DefaultAvatar = "https://via.placeholder.com/150"

// UsersPath returns the profile path of uid.
func UsersPath(uid uuid.UUID) Path {
	return Path("users").Child(uid.String())
}

// ProfileFromSnapshot reads a profile record.
func ProfileFromSnapshot(s Snapshot) UserProfile {
	return UserProfile{
		Name:     s.Child("name").Text(),
		Age:      s.Child("age").Text(),
		Username: s.Child("username").Text(),
		Avatar:   s.Child("avatar").Text(),
	}
}

// NewProfileValue is the value written once at registration.
func NewProfileValue(name, age, username string) map[string]any {
	return map[string]any{
		"name":     name,
		"age":      age,
		"username": username,
	}
}
