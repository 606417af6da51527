package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/repository"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

const identityKey = "auth_identity"

const bearerPrefix = "Bearer "

// Authenticator turns a raw Authorization header into a resolved identity.
// Every failure mode on the token path collapses to "no identity": public
// operations treat an anonymous caller as a normal outcome, and the caller
// never learns whether a token was malformed, expired or revoked.
type Authenticator struct {
	codec *TokenCodec
	deny  repository.Denylist
	users repository.UserRepository
}

// NewAuthenticator constructs the request authenticator.
func NewAuthenticator(codec *TokenCodec, deny repository.Denylist, users repository.UserRepository) *Authenticator {
	return &Authenticator{codec: codec, deny: deny, users: users}
}

// ExtractBearerToken pulls the encoded token out of an Authorization header
// value. The "Bearer " prefix is matched case-sensitively.
func ExtractBearerToken(headerValue string) (string, bool) {
	if !strings.HasPrefix(headerValue, bearerPrefix) {
		return "", false
	}
	token := headerValue[len(bearerPrefix):]
	if token == "" {
		return "", false
	}
	return token, true
}

// Authenticate resolves the caller's identity from the Authorization header
// value, or nil when the request is anonymous. Only store failures are
// returned as errors; a bad token never is.
func (a *Authenticator) Authenticate(ctx context.Context, headerValue string) (*domain.Identity, error) {
	raw, ok := ExtractBearerToken(headerValue)
	if !ok {
		return nil, nil
	}

	token, err := a.codec.Decode(raw)
	if err != nil {
		return nil, nil
	}

	revoked, err := a.deny.Contains(ctx, token.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, nil
	}

	user, err := a.users.GetByID(ctx, token.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &domain.Identity{User: user, Token: token}, nil
}

// Middleware attaches the resolved identity, when there is one, to the
// request. It never rejects: routes that require authentication decide for
// themselves what a missing identity means.
func (a *Authenticator) Middleware(c *fiber.Ctx) error {
	identity, err := a.Authenticate(c.UserContext(), c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return apperrors.MapError(err)
	}
	if identity != nil {
		c.Locals(identityKey, identity)
	}
	return c.Next()
}

// IdentityFromContext retrieves the identity attached by Middleware.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok
}
