package domain

import "time"

// Token holds the decoded contents of an issued bearer token. The token
// string itself lives only with the caller; this is the server-side view.
type Token struct {
	ID        string
	Subject   string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// Identity is the outcome of authenticating a request: the resolved user
// plus the decoded token that proved it. The token is carried so sign-out
// can revoke exactly the credential that was presented.
type Identity struct {
	User  *User
	Token *Token
}
