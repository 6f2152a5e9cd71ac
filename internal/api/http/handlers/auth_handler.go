package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/outage-service/internal/api/dto"
	"github.com/spec-kit/outage-service/internal/auth"
	apperrors "github.com/spec-kit/outage-service/pkg/util"
)

// AuthHandler exchanges the operator secret for a bearer token.
type AuthHandler struct {
	tokens             *auth.TokenManager
	operatorSecretHash string
}

// NewAuthHandler constructs handler.
func NewAuthHandler(tokens *auth.TokenManager, operatorSecretHash string) *AuthHandler {
	return &AuthHandler{tokens: tokens, operatorSecretHash: operatorSecretHash}
}

// IssueToken POST /auth/token.
func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.OperatorID) == "" || req.Secret == "" {
		return apperrors.NewValidationError("operator_id and secret required", nil)
	}
	if !auth.VerifyOperatorSecret(h.operatorSecretHash, req.Secret) {
		return apperrors.NewUnauthorized("invalid operator credentials")
	}

	token, expiresAt, err := h.tokens.GenerateToken(req.OperatorID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{"data": dto.TokenResponse{Token: token, ExpiresAt: expiresAt}})
}
