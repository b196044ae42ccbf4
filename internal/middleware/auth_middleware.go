package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"shopflow/internal/access"
	"shopflow/internal/apperr"
	"shopflow/internal/model"
	"shopflow/internal/service"
	"shopflow/pkg/jwt"
)

// Locals keys set by RequireAuth.
const (
	LocalUserID    = "user_id"
	LocalUserEmail = "user_email"
	LocalUserRole  = "user_role"
)

var ErrForbidden = apperr.Forbidden("You do not have permission to perform this action")

// TokenValidator resolves a bearer token to a live account.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*model.User, *jwt.Claims, error)
}

// RequireAuth accepts the token from the Authorization header or, failing
// that, from the session cookie. The account must still exist and be active.
func RequireAuth(tokens TokenValidator, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := BearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" && cookieName != "" {
			token = c.Cookies(cookieName)
		}
		if token == "" {
			return service.ErrMissingToken
		}

		user, _, err := tokens.ValidateToken(c.UserContext(), token)
		if err != nil {
			return err
		}

		// Role and email come from the stored account, not the token.
		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalUserEmail, user.Email)
		c.Locals(LocalUserRole, user.Role)

		return c.Next()
	}
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
func BearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// RequireCapability rejects callers whose role lacks capability.
func RequireCapability(policy access.Policy, capability model.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(LocalUserRole).(string)
		if role == "" {
			return service.ErrMissingToken
		}
		if !policy.Allows(role, capability) {
			return ErrForbidden
		}
		return c.Next()
	}
}

// ActorFrom returns the caller stored by RequireAuth.
func ActorFrom(c *fiber.Ctx) service.Actor {
	id, _ := c.Locals(LocalUserID).(uint)
	email, _ := c.Locals(LocalUserEmail).(string)
	role, _ := c.Locals(LocalUserRole).(string)
	return service.Actor{ID: id, Email: email, Role: role}
}
