package handler

import (
	"go-campus-assets/internal/model"
	"go-campus-assets/internal/repository"
	"go-campus-assets/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ResourceHandler struct {
	resources service.ResourceService
	search    service.SearchService
}

func NewResourceHandler(resources service.ResourceService, search service.SearchService) *ResourceHandler {
	return &ResourceHandler{resources: resources, search: search}
}

// ListResources supports the basic list with optional filters; the heavy
// lifting is shared with advanced search.
func (h *ResourceHandler) ListResources(c *fiber.Ctx) error {
	filter := repository.SearchFilter{
		Query:      c.Query("search"),
		Department: c.Query("department"),
		Location:   c.Query("location"),
		DeviceType: c.Query("device_name"),
		Page:       c.QueryInt("page", 1),
		PerPage:    c.QueryInt("per_page", 20),
		SortBy:     c.Query("sort_by", "sl_no"),
		SortOrder:  c.Query("sort_order", "asc"),
	}

	result, err := h.search.AdvancedSearch(filter)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"resources":  result.Resources,
		"pagination": result.Pagination,
	})
}

func (h *ResourceHandler) GetResource(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid resource ID"})
	}

	resource, err := h.resources.Get(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Resource not found"})
	}
	return c.JSON(fiber.Map{"resource": resource})
}

func (h *ResourceHandler) CreateResource(c *fiber.Ctx) error {
	var resource model.Resource
	if err := c.BodyParser(&resource); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.resources.Create(&resource, getUserID(c)); err != nil {
		return serviceError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{
		"message":  "Resource created successfully",
		"resource": resource,
	})
}

func (h *ResourceHandler) UpdateResource(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid resource ID"})
	}

	var req service.UpdateResourceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.resources.Update(id, &req, getUserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Resource updated successfully",
		"resource": updated,
	})
}

func (h *ResourceHandler) DeleteResource(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid resource ID"})
	}

	deleted, err := h.resources.Delete(id, getUserID(c))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Resource not found"})
	}
	return c.JSON(fiber.Map{
		"message":          "Resource deleted successfully",
		"deleted_resource": deleted,
		"deleted_by":       getUserID(c),
	})
}
