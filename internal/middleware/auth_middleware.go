package middleware

import (
	"strings"

	"github.com/adinaninacerdine/sgg-project/internal/authz"
	"github.com/adinaninacerdine/sgg-project/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth validates the bearer token and stores the identity claims in
// the request context. Identity is self-contained in the token; no database
// access happens here.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "invalid authorization format, use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			// Never leak why verification failed.
			return c.Status(401).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("user_email", claims.Email)
		c.Locals("user_name", claims.Name)
		c.Locals("user_role", claims.Role)
		c.Locals("is_super_admin", claims.IsSuperAdmin)

		return c.Next()
	}
}

// RequireAdmin gates admin-only routes. Must run after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !Identity(c).IsAdmin() {
			return c.Status(403).JSON(fiber.Map{"error": "administrator rights required"})
		}
		return c.Next()
	}
}

// Identity rebuilds the caller identity from the context set by RequireAuth.
func Identity(c *fiber.Ctx) authz.Identity {
	identity := authz.Identity{}
	if id, ok := c.Locals("user_id").(uint); ok {
		identity.UserID = id
	}
	if role, ok := c.Locals("user_role").(string); ok {
		identity.Role = role
	}
	if super, ok := c.Locals("is_super_admin").(bool); ok {
		identity.IsSuperAdmin = super
	}
	return identity
}

// UserEmail returns the authenticated user's email, if any.
func UserEmail(c *fiber.Ctx) string {
	if email, ok := c.Locals("user_email").(string); ok {
		return email
	}
	return ""
}
