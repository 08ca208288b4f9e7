package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lookout/internal/services"
	"github.com/localnerve/lookout/internal/utils"
)

// CookieName is the session cookie set on login
const CookieName = "auth_token"

const actorKey = "actor"

// AuthUser requires a valid session token
func AuthUser(tokens *services.Tokens) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, tokens, false)
	}
}

// AuthAdmin requires a valid session token with the admin role
func AuthAdmin(tokens *services.Tokens) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, tokens, true)
	}
}

// authorize performs the authorization check
func authorize(c *fiber.Ctx, tokens *services.Tokens, admin bool) error {
	actor, err := Authenticate(c, tokens)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	}
	if admin && !actor.IsAdmin() {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", "Administrator role required")
	}

	// Set the caller in context
	c.Locals(actorKey, actor)

	return c.Next()
}

// Authenticate verifies the bearer token or session cookie of the request
func Authenticate(c *fiber.Ctx, tokens *services.Tokens) (services.Actor, error) {
	token := Token(c)
	if token == "" {
		return services.Actor{}, services.ErrInvalidToken
	}
	claims, err := tokens.Verify(token)
	if err != nil {
		return services.Actor{}, err
	}
	return claims.Actor()
}

// Token returns the session token from the Authorization header, falling back to the cookie
func Token(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return c.Cookies(CookieName)
}

// ActorFrom returns the caller stored by AuthUser or AuthAdmin
func ActorFrom(c *fiber.Ctx) (services.Actor, bool) {
	actor, ok := c.Locals(actorKey).(services.Actor)
	return actor, ok
}
