package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/auth-service/internal/domain"
)

func TestMemoryDenylistAddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	deny := NewMemoryDenylist()
	exp := time.Now().Add(time.Hour)

	require.NoError(t, deny.Add(ctx, "jti-1", exp))
	require.NoError(t, deny.Add(ctx, "jti-1", exp.Add(time.Hour)))

	revoked, err := deny.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, 1, deny.Len())
}

func TestMemoryDenylistPurge(t *testing.T) {
	ctx := context.Background()
	deny := NewMemoryDenylist()
	now := time.Now()

	require.NoError(t, deny.Add(ctx, "expired", now.Add(-time.Minute)))
	require.NoError(t, deny.Add(ctx, "live", now.Add(time.Hour)))

	removed, err := deny.Purge(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	revoked, err := deny.Contains(ctx, "live")
	require.NoError(t, err)
	assert.True(t, revoked, "purge must never remove live entries")

	revoked, err = deny.Contains(ctx, "expired")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryUserRepositoryUniqueEmail(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUserRepository()

	first := &domain.User{Email: "a@x.com", FirstName: "A", LastName: "B", PasswordHash: "h"}
	require.NoError(t, users.Create(ctx, first))

	dup := &domain.User{Email: "a@x.com", FirstName: "C", LastName: "D", PasswordHash: "h"}
	err := users.Create(ctx, dup)
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, 1, users.Count())
}

func TestMemoryUserRepositoryTouchSignIn(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUserRepository()

	user := &domain.User{Email: "a@x.com", FirstName: "A", LastName: "B", PasswordHash: "h"}
	require.NoError(t, users.Create(ctx, user))

	firstAt := time.Now().Add(-time.Hour)
	require.NoError(t, users.TouchSignIn(ctx, user, "10.0.0.1", firstAt))
	assert.Equal(t, 1, user.SignInCount)
	require.NotNil(t, user.CurrentSignInAt)
	assert.Nil(t, user.LastSignInAt)

	secondAt := time.Now()
	require.NoError(t, users.TouchSignIn(ctx, user, "10.0.0.2", secondAt))
	assert.Equal(t, 2, user.SignInCount)
	require.NotNil(t, user.LastSignInAt)
	assert.Equal(t, firstAt, *user.LastSignInAt)
	assert.Equal(t, "10.0.0.1", user.LastSignInIP)
	assert.Equal(t, "10.0.0.2", user.CurrentSignInIP)
}
