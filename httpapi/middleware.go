package httpapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// requireAdmin guards moderation routes with a bearer token issued by the
// auth service.
func (s *Server) requireAdmin(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(errorResp{OK: false, Error: "missing bearer token"})
	}

	adminID, err := s.auth.VerifyToken(token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(errorResp{OK: false, Error: "invalid token"})
	}

	c.Locals("admin_id", adminID)
	return c.Next()
}
