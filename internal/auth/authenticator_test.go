package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/repository"
)

func newTestAuthenticator(t *testing.T, ttl time.Duration) (*Authenticator, *TokenCodec, *repository.MemoryUserRepository, *repository.MemoryDenylist) {
	t.Helper()
	codec := NewTokenCodec("test-secret", ttl)
	users := repository.NewMemoryUserRepository()
	deny := repository.NewMemoryDenylist()
	return NewAuthenticator(codec, deny, users), codec, users, deny
}

func seedUser(t *testing.T, users *repository.MemoryUserRepository, email string) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:        email,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		PasswordHash: "irrelevant",
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		token  string
		ok     bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"empty header", "", "", false},
		{"missing prefix", "abc.def.ghi", "", false},
		{"lowercase prefix", "bearer abc.def.ghi", "", false},
		{"prefix only", "Bearer ", "", false},
		{"no space", "Bearerabc", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			token, ok := ExtractBearerToken(tc.header)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.token, token)
		})
	}
}

func TestAuthenticateHappyPath(t *testing.T) {
	authn, codec, users, _ := newTestAuthenticator(t, time.Hour)
	user := seedUser(t, users, "ada@example.com")

	signed, issued, err := codec.Issue(user.ID)
	require.NoError(t, err)

	identity, err := authn.Authenticate(context.Background(), "Bearer "+signed)
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, user.ID, identity.User.ID)
	assert.Equal(t, user.Email, identity.User.Email)
	assert.Equal(t, issued.ID, identity.Token.ID)
}

func TestAuthenticateAnonymousHeader(t *testing.T) {
	authn, _, _, _ := newTestAuthenticator(t, time.Hour)

	for _, header := range []string{"", "Basic dXNlcjpwYXNz", "bearer something"} {
		identity, err := authn.Authenticate(context.Background(), header)
		require.NoError(t, err)
		assert.Nil(t, identity, "header %q", header)
	}
}

func TestAuthenticateBadToken(t *testing.T) {
	authn, _, users, _ := newTestAuthenticator(t, time.Hour)
	seedUser(t, users, "ada@example.com")

	identity, err := authn.Authenticate(context.Background(), "Bearer not.a.token")
	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestAuthenticateExpiredToken(t *testing.T) {
	authn, codec, users, _ := newTestAuthenticator(t, -time.Minute)
	user := seedUser(t, users, "ada@example.com")

	signed, _, err := codec.Issue(user.ID)
	require.NoError(t, err)

	identity, err := authn.Authenticate(context.Background(), "Bearer "+signed)
	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestAuthenticateRevokedToken(t *testing.T) {
	authn, codec, users, deny := newTestAuthenticator(t, time.Hour)
	user := seedUser(t, users, "ada@example.com")

	signed, issued, err := codec.Issue(user.ID)
	require.NoError(t, err)
	require.NoError(t, deny.Add(context.Background(), issued.ID, issued.ExpiresAt))

	// Signature and expiry are still fine; the denylist alone rejects it.
	identity, err := authn.Authenticate(context.Background(), "Bearer "+signed)
	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestAuthenticateDeletedUser(t *testing.T) {
	authn, codec, users, _ := newTestAuthenticator(t, time.Hour)
	user := seedUser(t, users, "ada@example.com")

	signed, _, err := codec.Issue(user.ID)
	require.NoError(t, err)

	users.Delete(context.Background(), user.ID)

	identity, err := authn.Authenticate(context.Background(), "Bearer "+signed)
	require.NoError(t, err)
	assert.Nil(t, identity)
}
