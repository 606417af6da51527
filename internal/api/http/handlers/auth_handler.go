package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/api/dto"
	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/observability"
	"github.com/spec-kit/auth-service/internal/service"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// AuthHandler exposes the session lifecycle endpoints. Authentication and
// validation outcomes ride in the response payload with HTTP 200; only
// infrastructure failures become HTTP errors.
type AuthHandler struct {
	auth    *service.AuthService
	metrics *observability.Metrics
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService, metrics *observability.Metrics) *AuthHandler {
	return &AuthHandler{auth: authService, metrics: metrics}
}

// SignUp handles POST /auth/sign_up.
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}

	result, err := h.auth.SignUp(c.UserContext(), service.SignUpInput{
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
		FirstName:            req.FirstName,
		LastName:             req.LastName,
	})
	if err != nil {
		return apperrors.MapError(err)
	}

	h.metrics.RecordAuthOutcome("sign_up", result.OK())

	status := http.StatusOK
	if result.OK() {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(sessionResponse(result))
}

// SignIn handles POST /auth/sign_in.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}

	result, err := h.auth.SignIn(c.UserContext(), req.Email, req.Password, c.IP())
	if err != nil {
		return apperrors.MapError(err)
	}

	h.metrics.RecordAuthOutcome("sign_in", result.OK())

	return c.JSON(sessionResponse(result))
}

// SignOut handles DELETE /auth/sign_out. The authenticator middleware has
// already resolved (or failed to resolve) the caller's identity; either way
// the outcome is a payload value, never an HTTP error.
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)

	result, err := h.auth.SignOut(c.UserContext(), identity)
	if err != nil {
		return apperrors.MapError(err)
	}

	h.metrics.RecordAuthOutcome("sign_out", result.Success)

	return c.JSON(dto.SignOutResponse{
		Success: result.Success,
		Message: result.Message,
		Errors:  result.Errors,
	})
}

func sessionResponse(result *service.SessionResult) dto.SessionResponse {
	resp := dto.SessionResponse{
		User:   dto.UserPayloadFrom(result.User),
		Errors: result.Errors,
	}
	if result.OK() {
		token := result.Token
		resp.Token = &token
	}
	return resp
}
