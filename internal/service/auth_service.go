package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/events"
	"github.com/spec-kit/auth-service/internal/repository"
)

// Fixed response strings. Clients depend on these exact values.
const (
	msgInvalidCredentials = "Invalid email or password"
	msgLoggedOut          = "Logged out successfully."
	msgNoActiveSession    = "Couldn't find an active session."
	msgNotAuthenticated   = "Not authenticated"
	msgEmailTaken         = "Email has already been taken"
)

// SessionResult is the outcome of sign-up and sign-in. Exactly one of the
// two shapes occurs: user+token with an empty error list, or a non-empty
// error list with neither. Errors is never nil.
type SessionResult struct {
	User   *domain.User
	Token  string
	Errors []string
}

// OK reports whether the operation succeeded.
func (r SessionResult) OK() bool { return len(r.Errors) == 0 }

// SignOutResult is the outcome of sign-out.
type SignOutResult struct {
	Success bool
	Message string
	Errors  []string
}

// SignUpInput carries the registration payload.
type SignUpInput struct {
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
}

// Validate runs the field rules. Email uniqueness is not checked here; the
// database constraint owns it so concurrent sign-ups cannot both pass.
func (i SignUpInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.FirstName, validation.Required),
		validation.Field(&i.LastName, validation.Required),
		validation.Field(&i.Email, validation.Required, is.Email),
		validation.Field(&i.Password, validation.Required, validation.Length(6, 20)),
		validation.Field(&i.PasswordConfirmation,
			validation.Required,
			validation.By(stringEquals(i.Password, "doesn't match password")),
		),
	)
}

func stringEquals(expected, message string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s != expected {
			return errors.New(message)
		}
		return nil
	}
}

// validationMessages flattens a validation error into sorted human-readable
// messages, one per failing field.
func validationMessages(err error) []string {
	verrs, ok := err.(validation.Errors)
	if !ok {
		return []string{err.Error()}
	}
	fields := make([]string, 0, len(verrs))
	for field := range verrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	messages := make([]string, 0, len(fields))
	for _, field := range fields {
		label := strings.ReplaceAll(field, "_", " ")
		if label != "" {
			label = strings.ToUpper(label[:1]) + label[1:]
		}
		messages = append(messages, label+" "+verrs[field].Error())
	}
	return messages
}

// AuthService implements the session lifecycle: sign-up, sign-in, sign-out.
type AuthService struct {
	users      repository.UserRepository
	deny       repository.Denylist
	codec      *auth.TokenCodec
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for the service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Denylist   repository.Denylist
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		deny:       deps.Denylist,
		codec:      auth.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// TokenCodec exposes the codec for wiring the request authenticator.
func (s *AuthService) TokenCodec() *auth.TokenCodec {
	return s.codec
}

// SignUp registers a new account and issues its first token. Validation
// failures come back in the result; nothing is persisted for them. An error
// return means the store or signer failed, not that the input was bad.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*SessionResult, error) {
	if err := input.Validate(); err != nil {
		return &SessionResult{Errors: validationMessages(err)}, nil
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return &SessionResult{Errors: []string{msgEmailTaken}}, nil
		}
		return nil, err
	}

	signed, token, err := s.codec.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserSignedUp, user.ID, events.SignedUpPayload{
		Email:   user.Email,
		TokenID: token.ID,
	})

	return &SessionResult{User: user, Token: signed, Errors: []string{}}, nil
}

// SignIn authenticates credentials and issues a fresh token. A missing user
// and a wrong password produce identical results so callers cannot probe
// which emails are registered. Outstanding tokens for the user stay valid.
func (s *AuthService) SignIn(ctx context.Context, email, password, remoteIP string) (*SessionResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &SessionResult{Errors: []string{msgInvalidCredentials}}, nil
		}
		return nil, err
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return &SessionResult{Errors: []string{msgInvalidCredentials}}, nil
	}

	if err := s.users.TouchSignIn(ctx, user, remoteIP, time.Now()); err != nil {
		return nil, err
	}

	signed, token, err := s.codec.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserSignedIn, user.ID, events.SignedInPayload{
		Email:       user.Email,
		TokenID:     token.ID,
		SignInCount: user.SignInCount,
		RemoteIP:    remoteIP,
	})

	return &SessionResult{User: user, Token: signed, Errors: []string{}}, nil
}

// SignOut revokes the presented token. The identity comes from the request
// authenticator, which already checked signature, expiry and revocation, so
// the token is revoked as-is. Revoking a token twice succeeds both times:
// the denylist insert is idempotent.
func (s *AuthService) SignOut(ctx context.Context, identity *domain.Identity) (*SignOutResult, error) {
	if identity == nil || identity.Token == nil {
		return &SignOutResult{
			Success: false,
			Message: msgNoActiveSession,
			Errors:  []string{msgNotAuthenticated},
		}, nil
	}

	token := identity.Token
	if err := s.deny.Add(ctx, token.ID, token.ExpiresAt); err != nil {
		return nil, err
	}

	userID := ""
	if identity.User != nil {
		userID = identity.User.ID
	}
	s.publish(ctx, events.EventUserSignedOut, userID, events.SignedOutPayload{
		TokenID: token.ID,
	})

	return &SignOutResult{
		Success: true,
		Message: msgLoggedOut,
		Errors:  []string{},
	}, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
