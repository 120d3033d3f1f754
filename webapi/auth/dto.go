package auth

import (
	"time"

	"github.com/amirasaad/strides/pkg/dto"
	"github.com/google/uuid"
)

// SignupInput represents the request body for registering a user.
type SignupInput struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required,min=8,max=72"`
}

// LoginInput represents the request body for user authentication. Form
// posts may send the email as username.
type LoginInput struct {
	Email    string `json:"email" form:"email" validate:"required_without=Username"`
	Username string `json:"username" form:"username" validate:"required_without=Email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// Identity returns the email the user logs in with.
func (in LoginInput) Identity() string {
	if in.Email != "" {
		return in.Email
	}
	return in.Username
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u *dto.UserRead) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}
