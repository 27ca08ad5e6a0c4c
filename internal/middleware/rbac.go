package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sanmiguel-edu/colegio-api/internal/utils"
)

// Role is the closed set of authorization levels accepted by the API.
type Role string

const (
	RoleSup      Role = "sup"
	RoleDirector Role = "director"
	RoleTeacher  Role = "teacher"
)

// ElevatedRoles are the roles allowed to commit promotion batches.
var ElevatedRoles = []Role{RoleSup, RoleDirector}

// RequireRole ensures the authenticated user holds one of the allowed roles.
func RequireRole(roles ...Role) fiber.Handler {
	allowed := make(map[Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		if _, ok := allowed[RoleFromContext(c)]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

// RoleFromContext returns the normalized role bound to the request.
func RoleFromContext(c *fiber.Ctx) Role {
	if v := c.Locals("user_role"); v != nil {
		if role, ok := v.(string); ok {
			return Role(strings.ToLower(strings.TrimSpace(role)))
		}
	}
	return ""
}

// IsElevated reports whether the request carries promotion authority.
func IsElevated(c *fiber.Ctx) bool {
	role := RoleFromContext(c)
	for _, elevated := range ElevatedRoles {
		if role == elevated {
			return true
		}
	}
	return false
}
