// Package middleware provides request-scoped middleware: identity, logging,
// rate limiting, metrics and tracing.
package middleware

import (
	"context"
	"strings"

	"easyshop/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// IdentityLocal is the fiber locals key holding the verified caller identity.
const IdentityLocal = "identity"

// Identity returns middleware that verifies an optional Bearer token issued
// by the identity provider and records its subject as the caller identity.
// Requests without a token pass through untouched; requests with an invalid
// token are rejected. An empty secret disables verification entirely.
func Identity(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid authorization header format"))
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}

		c.Locals(IdentityLocal, sub)
		ctx := context.WithValue(c.UserContext(), UserIDKey, sub)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// VerifiedIdentity returns the token subject recorded by Identity, if any.
func VerifiedIdentity(c *fiber.Ctx) (string, bool) {
	sub, ok := c.Locals(IdentityLocal).(string)
	return sub, ok && sub != ""
}

// ResolveCaller reconciles an explicit user id from the request with the
// verified token identity. A mismatch is rejected; otherwise whichever is
// present wins.
func ResolveCaller(c *fiber.Ctx, explicit string) (string, error) {
	explicit = strings.TrimSpace(explicit)
	verified, ok := VerifiedIdentity(c)
	if !ok {
		return explicit, nil
	}
	if explicit != "" && explicit != verified {
		return "", models.NewForbiddenError("userId does not match the authenticated identity")
	}
	return verified, nil
}
