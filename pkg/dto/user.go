package dto

import (
	"time"

	"github.com/google/uuid"
)

// UserRead is a read-optimized DTO for user queries.
type UserRead struct {
	ID             uuid.UUID
	Email          string
	HashedPassword string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserCreate is a DTO for creating a user. Password is already hashed.
type UserCreate struct {
	ID       uuid.UUID
	Email    string
	Password string
}
