package user

import (
	"time"

	"github.com/amirasaad/strides/pkg/domain"
	"github.com/amirasaad/strides/pkg/utils"
	"github.com/google/uuid"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 8

var (
	// ErrUserNotFound is returned when a user cannot be found in the
	// repository.
	ErrUserNotFound = domain.NewError(domain.ErrNotFound, "user not found")
	// ErrUserUnauthorized is returned when credentials or a token do not
	// identify a user.
	ErrUserUnauthorized = domain.NewError(domain.ErrUnauthorized, "user unauthorized")
	// ErrEmailTaken is returned when signing up with a registered email.
	ErrEmailTaken = domain.NewError(domain.ErrAlreadyExists, "email already registered")
	// ErrInvalidEmail is returned for a malformed email address.
	ErrInvalidEmail = domain.NewError(domain.ErrValidation, "invalid email address")
	// ErrWeakPassword is returned for a password shorter than MinPasswordLength.
	ErrWeakPassword = domain.NewError(domain.ErrValidation, "password must be at least 8 characters")
)

// User represents a user in the system.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New creates a new User with a normalized email, a hashed password and
// current timestamps.
func New(email, password string) (*User, error) {
	email = utils.NormalizeEmail(email)
	if !utils.IsEmail(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &User{
		ID:        uuid.New(),
		Email:     email,
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
