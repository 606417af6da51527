package domain

import "time"

// User is the domain model for registered accounts.
type User struct {
	ID              string
	Email           string
	FirstName       string
	LastName        string
	PasswordHash    string
	SignInCount     int
	CurrentSignInAt *time.Time
	LastSignInAt    *time.Time
	CurrentSignInIP string
	LastSignInIP    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
