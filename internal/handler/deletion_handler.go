package handler

import (
	"go-campus-assets/internal/repository"
	"go-campus-assets/internal/service"

	"github.com/gofiber/fiber/v2"
)

// DeletionHandler exposes the hierarchy tiers and the preview/execute
// deletion protocol.
type DeletionHandler struct {
	hierarchy service.HierarchyService
	deletion  service.DeletionService
}

func NewDeletionHandler(hierarchy service.HierarchyService, deletion service.DeletionService) *DeletionHandler {
	return &DeletionHandler{hierarchy: hierarchy, deletion: deletion}
}

// GetDepartments returns the first tier: every department owning resources.
func (h *DeletionHandler) GetDepartments(c *fiber.Ctx) error {
	departments, err := h.hierarchy.DepartmentTier()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"departments":       departments,
		"total_departments": len(departments),
	})
}

// GetLocations returns the second tier for one department. An empty list is
// a valid answer, distinct from "department does not exist".
func (h *DeletionHandler) GetLocations(c *fiber.Ctx) error {
	department := c.Params("department")
	locations, err := h.hierarchy.LocationTier(department)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"department":      department,
		"locations":       locations,
		"total_locations": len(locations),
	})
}

// GetDevices returns the third tier for a (department, location) pair.
func (h *DeletionHandler) GetDevices(c *fiber.Ctx) error {
	department := c.Params("department")
	location := c.Params("location")
	devices, err := h.hierarchy.DeviceTier(department, location)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"department":         department,
		"location":           location,
		"devices":            devices,
		"total_device_types": len(devices),
	})
}

// PreviewDeletion resolves the criteria without mutating anything.
func (h *DeletionHandler) PreviewDeletion(c *fiber.Ctx) error {
	var criteria repository.DeletionCriteria
	if err := c.BodyParser(&criteria); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	preview, err := h.deletion.Preview(criteria)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(preview)
}

// ExecuteDeletion re-resolves and deletes at most one record. Ambiguity and
// not-found are reported outcomes, not server errors.
func (h *DeletionHandler) ExecuteDeletion(c *fiber.Ctx) error {
	var criteria repository.DeletionCriteria
	if err := c.BodyParser(&criteria); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.deletion.Execute(criteria, getUserID(c))
	if err != nil {
		return serviceError(c, err)
	}

	switch result.Outcome {
	case service.OutcomeNotFound:
		return c.Status(404).JSON(result)
	case service.OutcomeAmbiguous:
		return c.Status(400).JSON(result)
	default:
		return c.JSON(result)
	}
}
