package middleware

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/adinaninacerdine/sgg-project/internal/authz"

	"github.com/gofiber/fiber/v2"
)

const decisionKey = "authz_decision"

// RequireAction gates a route on one logical action. The ministry context is
// resolved from the path reference first, then the request body, then the
// query string. Must run after RequireAuth.
func RequireAction(az authz.Authorizer, action authz.Action) fiber.Handler {
	return requireAction(az, action, true)
}

// RequireMinistryAction is RequireAction for routes whose :id parameter is
// not an action reference (team members). The ministry context comes from
// the body or the query string only.
func RequireMinistryAction(az authz.Authorizer, action authz.Action) fiber.Handler {
	return requireAction(az, action, false)
}

func requireAction(az authz.Authorizer, action authz.Action, useActionRef bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		target := authz.Target{
			MinistryRef: ministryFromBody(c),
		}
		if useActionRef {
			target.ActionRef = c.Params("id")
		}
		if target.MinistryRef == "" {
			target.MinistryRef = c.Query("ministry")
		}

		decision, err := az.Authorize(Identity(c), action, target)
		if err != nil {
			var authzErr *authz.Error
			if errors.As(err, &authzErr) {
				resp := fiber.Map{"error": authzErr.Message}
				if authzErr.Required != "" {
					resp["required"] = authzErr.Required
				}
				return c.Status(authzErr.Status).JSON(resp)
			}
			log.Printf("authorization check failed: %v", err)
			return c.Status(500).JSON(fiber.Map{"error": "internal server error"})
		}

		c.Locals(decisionKey, decision)
		return c.Next()
	}
}

// Decision returns the authorization outcome stored by RequireAction, or nil
// when the route is not gated (admin contexts included: bypass decisions are
// stored too).
func Decision(c *fiber.Ctx) *authz.Decision {
	if d, ok := c.Locals(decisionKey).(*authz.Decision); ok {
		return d
	}
	return nil
}

// ministryFromBody peeks at the JSON body for a "ministry" field without
// consuming it; handlers re-parse the body afterwards.
func ministryFromBody(c *fiber.Ctx) string {
	body := c.Body()
	if len(body) == 0 {
		return ""
	}
	var peek struct {
		Ministry string `json:"ministry"`
	}
	if err := json.Unmarshal(body, &peek); err != nil {
		return ""
	}
	return peek.Ministry
}
