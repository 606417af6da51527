package dto

import (
	"time"

	"github.com/spec-kit/auth-service/internal/domain"
)

// SignUpRequest payload for registration.
type SignUpRequest struct {
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
}

// SignInRequest payload for login.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserPayload is the serialized account. Credential material never
// appears here.
type UserPayload struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionResponse is the shared response shape for sign-up and sign-in:
// nullable user, nullable token, and an error list that is never null.
type SessionResponse struct {
	User   *UserPayload `json:"user"`
	Token  *string      `json:"token"`
	Errors []string     `json:"errors"`
}

// SignOutResponse is the response shape for sign-out.
type SignOutResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// UserPayloadFrom maps a domain user onto the wire payload.
func UserPayloadFrom(user *domain.User) *UserPayload {
	if user == nil {
		return nil
	}
	return &UserPayload{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
