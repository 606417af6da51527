package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/auth-service/internal/domain"
)

// TokenCodec issues and decodes signed bearer tokens.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec builds a codec signing with the shared secret. The TTL is
// applied to every issued token.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

// Issue signs a fresh token for the subject. Every call generates a new
// token identifier, so revoking one issued token never affects another.
func (tc *TokenCodec) Issue(subject string) (string, *domain.Token, error) {
	now := time.Now()
	token := &domain.Token{
		ID:        uuid.NewString(),
		Subject:   subject,
		ExpiresAt: now.Add(tc.ttl),
		IssuedAt:  now,
	}

	claims := jwt.RegisteredClaims{
		Subject:   token.Subject,
		ExpiresAt: jwt.NewNumericDate(token.ExpiresAt),
		IssuedAt:  jwt.NewNumericDate(token.IssuedAt),
		ID:        token.ID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tc.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, token, nil
}

// Decode verifies the signature and expiry of an encoded token and returns
// its contents. Failures map onto the closed error set in errors.go; no
// claim is trusted before the signature has verified.
func (tc *TokenCodec) Decode(tokenString string) (*domain.Token, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidSignature
		}
		return tc.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrInvalidSignature
		}
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidSignature
	}
	if claims.ID == "" || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrTokenMalformed
	}

	token := &domain.Token{
		ID:        claims.ID,
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		token.IssuedAt = claims.IssuedAt.Time
	}
	return token, nil
}
