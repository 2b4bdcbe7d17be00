package handler

import (
	"go-campus-assets/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetOverview returns the headline inventory statistics.
func (h *DashboardHandler) GetOverview(c *fiber.Ctx) error {
	overview, err := h.service.Overview()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard overview"})
	}
	return c.JSON(overview)
}
