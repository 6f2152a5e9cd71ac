package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/spec-kit/outage-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller of the operator API.
type Principal struct {
	OperatorID string
	Role       string
}

// AuthMiddleware validates bearer tokens for operator routes.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(principalKey, &Principal{OperatorID: claims.OperatorID, Role: claims.Role})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// WebhookAuth checks the monitoring system's shared token against its
// bcrypt hash. An empty hash disables the check so local setups can post
// alerts without provisioning a secret.
func WebhookAuth(tokenHash string, logger *zap.Logger) fiber.Handler {
	disabled := strings.TrimSpace(tokenHash) == ""
	if disabled && logger != nil {
		logger.Warn("webhook token hash not configured; webhook auth disabled")
	}
	return func(c *fiber.Ctx) error {
		if disabled {
			return c.Next()
		}
		token := c.Get("X-Webhook-Token")
		if token == "" {
			return apperrors.NewUnauthorized("missing webhook token")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(token)); err != nil {
			return apperrors.NewUnauthorized("invalid webhook token")
		}
		return c.Next()
	}
}

// VerifyOperatorSecret compares an operator-provided secret with its
// bcrypt hash.
func VerifyOperatorSecret(secretHash, secret string) bool {
	if strings.TrimSpace(secretHash) == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(secretHash), []byte(secret)) == nil
}
