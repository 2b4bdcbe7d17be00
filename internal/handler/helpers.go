package handler

import (
	"errors"

	"go-campus-assets/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// getUserID reads the identity set by the auth middleware, falling back to
// "system" when the local is missing or not a string.
func getUserID(c *fiber.Ctx) string {
	if userID, ok := c.Locals("user_id").(string); ok && userID != "" {
		return userID
	}
	return "system"
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// serviceError maps a service failure to an HTTP status: validation failures
// are caller-correctable, everything else is a store fault.
func serviceError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrValidation) {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(500).JSON(fiber.Map{"error": err.Error()})
}
