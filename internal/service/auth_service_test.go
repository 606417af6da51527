package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/events"
	"github.com/spec-kit/auth-service/internal/repository"
)

func newTestService(t *testing.T) (*AuthService, *repository.MemoryUserRepository, *repository.MemoryDenylist) {
	t.Helper()
	users := repository.NewMemoryUserRepository()
	deny := repository.NewMemoryDenylist()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret",
			TokenTTLMinutes: 60,
			BcryptCost:      bcrypt.MinCost,
		},
	}
	svc := NewAuthService(cfg, AuthDependencies{
		UserRepo:   users,
		Denylist:   deny,
		Dispatcher: events.NewInMemoryDispatcher(),
	})
	return svc, users, deny
}

func validSignUp(email string) SignUpInput {
	return SignUpInput{
		Email:                email,
		Password:             "password123",
		PasswordConfirmation: "password123",
		FirstName:            "Ada",
		LastName:             "Lovelace",
	}
}

func TestSignUpSuccess(t *testing.T) {
	svc, users, _ := newTestService(t)

	result, err := svc.SignUp(context.Background(), validSignUp("a@x.com"))
	require.NoError(t, err)
	require.True(t, result.OK())
	assert.Empty(t, result.Errors)
	assert.NotEmpty(t, result.Token)
	require.NotNil(t, result.User)
	assert.Equal(t, "a@x.com", result.User.Email)
	assert.NotEmpty(t, result.User.PasswordHash, "hash must be stored")
	assert.Equal(t, 1, users.Count())

	token, err := svc.TokenCodec().Decode(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, token.Subject)
}

func TestSignUpPasswordMismatch(t *testing.T) {
	svc, users, _ := newTestService(t)

	input := validSignUp("a@x.com")
	input.PasswordConfirmation = "different123"

	result, err := svc.SignUp(context.Background(), input)
	require.NoError(t, err)
	assert.False(t, result.OK())
	assert.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors, "Password confirmation doesn't match password")
	assert.Empty(t, result.Token)
	assert.Nil(t, result.User)
	assert.Equal(t, 0, users.Count(), "no partial user may persist")
}

func TestSignUpFieldValidation(t *testing.T) {
	svc, users, _ := newTestService(t)

	result, err := svc.SignUp(context.Background(), SignUpInput{})
	require.NoError(t, err)
	assert.False(t, result.OK())
	assert.Contains(t, result.Errors, "Email cannot be blank")
	assert.Contains(t, result.Errors, "First name cannot be blank")
	assert.Contains(t, result.Errors, "Last name cannot be blank")
	assert.Equal(t, 0, users.Count())
}

func TestSignUpShortPassword(t *testing.T) {
	svc, _, _ := newTestService(t)

	input := validSignUp("a@x.com")
	input.Password = "abc"
	input.PasswordConfirmation = "abc"

	result, err := svc.SignUp(context.Background(), input)
	require.NoError(t, err)
	assert.False(t, result.OK())
	require.NotEmpty(t, result.Errors)
	joined := ""
	for _, msg := range result.Errors {
		joined += msg + "\n"
	}
	assert.Contains(t, joined, "length must be between 6 and 20")
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc, users, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.SignUp(ctx, validSignUp("a@x.com"))
	require.NoError(t, err)
	require.True(t, first.OK())

	second, err := svc.SignUp(ctx, validSignUp("a@x.com"))
	require.NoError(t, err)
	assert.False(t, second.OK())
	assert.Equal(t, []string{"Email has already been taken"}, second.Errors)
	assert.Empty(t, second.Token)
	assert.Equal(t, 1, users.Count())
}

func TestSignInWrongCredentialsIndistinguishable(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, validSignUp("a@x.com"))
	require.NoError(t, err)

	wrongPassword, err := svc.SignIn(ctx, "a@x.com", "not-the-password", "")
	require.NoError(t, err)
	noSuchUser, err := svc.SignIn(ctx, "nobody@x.com", "password123", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"Invalid email or password"}, wrongPassword.Errors)
	assert.Equal(t, wrongPassword, noSuchUser, "results must be indistinguishable")
	assert.Nil(t, wrongPassword.User)
	assert.Empty(t, wrongPassword.Token)
}

func TestSignInIssuesFreshToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	signUp, err := svc.SignUp(ctx, validSignUp("a@x.com"))
	require.NoError(t, err)

	signIn, err := svc.SignIn(ctx, "a@x.com", "password123", "10.0.0.1")
	require.NoError(t, err)
	require.True(t, signIn.OK())
	assert.NotEmpty(t, signIn.Token)

	codec := svc.TokenCodec()
	upToken, err := codec.Decode(signUp.Token)
	require.NoError(t, err)
	inToken, err := codec.Decode(signIn.Token)
	require.NoError(t, err)
	assert.NotEqual(t, upToken.ID, inToken.ID, "each sign-in issues a distinct token id")
	assert.Equal(t, upToken.Subject, inToken.Subject)

	assert.Equal(t, 1, signIn.User.SignInCount)
	require.NotNil(t, signIn.User.CurrentSignInAt)
	assert.Equal(t, "10.0.0.1", signIn.User.CurrentSignInIP)
}

func TestSignOutWithoutIdentity(t *testing.T) {
	svc, _, deny := newTestService(t)

	result, err := svc.SignOut(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Couldn't find an active session.", result.Message)
	assert.Equal(t, []string{"Not authenticated"}, result.Errors)
	assert.Equal(t, 0, deny.Len())
}

func TestSessionLifecycleScenario(t *testing.T) {
	svc, users, deny := newTestService(t)
	ctx := context.Background()
	codec := svc.TokenCodec()

	// Sign up.
	signUp, err := svc.SignUp(ctx, validSignUp("a@x.com"))
	require.NoError(t, err)
	require.True(t, signUp.OK())
	assert.Equal(t, 1, users.Count())

	// Sign in with the same credentials; a distinct token comes back.
	signIn, err := svc.SignIn(ctx, "a@x.com", "password123", "")
	require.NoError(t, err)
	require.True(t, signIn.OK())

	authn := auth.NewAuthenticator(codec, deny, users)
	identity, err := authn.Authenticate(ctx, "Bearer "+signIn.Token)
	require.NoError(t, err)
	require.NotNil(t, identity)

	// First sign-out succeeds and revokes the token.
	out1, err := svc.SignOut(ctx, identity)
	require.NoError(t, err)
	assert.True(t, out1.Success)
	assert.Equal(t, "Logged out successfully.", out1.Message)
	assert.Empty(t, out1.Errors)
	assert.Equal(t, 1, deny.Len())

	// A second sign-out with the same token is still a success and does
	// not grow the denylist.
	out2, err := svc.SignOut(ctx, identity)
	require.NoError(t, err)
	assert.True(t, out2.Success)
	assert.Equal(t, 1, deny.Len())

	// The revoked token no longer authenticates.
	gone, err := authn.Authenticate(ctx, "Bearer "+signIn.Token)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// The sign-up token was never revoked and still works.
	still, err := authn.Authenticate(ctx, "Bearer "+signUp.Token)
	require.NoError(t, err)
	assert.NotNil(t, still)
}

func TestSignUpPublishesEvent(t *testing.T) {
	users := repository.NewMemoryUserRepository()
	deny := repository.NewMemoryDenylist()
	dispatcher := events.NewInMemoryDispatcher()

	var seen []events.Event
	dispatcher.Subscribe(events.EventUserSignedUp, func(_ context.Context, e events.Event) error {
		seen = append(seen, e)
		return nil
	})

	cfg := config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret", TokenTTLMinutes: 60, BcryptCost: bcrypt.MinCost}}
	svc := NewAuthService(cfg, AuthDependencies{UserRepo: users, Denylist: deny, Dispatcher: dispatcher})

	result, err := svc.SignUp(context.Background(), validSignUp("a@x.com"))
	require.NoError(t, err)
	require.True(t, result.OK())

	require.Len(t, seen, 1)
	assert.Equal(t, events.EventUserSignedUp, seen[0].Type)
	assert.Equal(t, result.User.ID, seen[0].UserID)
}
