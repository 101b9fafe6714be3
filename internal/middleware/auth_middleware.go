package middleware

import (
	"context"
	"strings"

	"go-inventory-tracker/internal/session"
	apperr "go-inventory-tracker/pkg/errors"
	"go-inventory-tracker/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Authenticator resolves a bearer token into the caller's identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (session.Identity, error)
}

// RequireAuth validates the bearer token and puts the caller's session.Identity into
// the request's user context. Websocket upgrades may pass the token as ?token=.
func RequireAuth(auth Authenticator, logg *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := extractToken(c)
		if err != nil {
			return err
		}

		identity, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			return err
		}

		ctx := session.WithIdentity(c.UserContext(), identity)
		if logg != nil {
			ctx = logg.WithUserID(ctx, identity.UserID.String())
		}
		c.SetUserContext(ctx)
		c.Locals("user_id", identity.UserID.String())
		c.Locals("user_email", identity.Email)

		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		if websocket.IsWebSocketUpgrade(c) && c.Query("token") != "" {
			return c.Query("token"), nil
		}
		return "", apperr.New(apperr.CodeUnauthorized, "Missing authorization token")
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", apperr.New(apperr.CodeUnauthorized, "Invalid authorization format. Use: Bearer <token>")
	}
	return parts[1], nil
}
