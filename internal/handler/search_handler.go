package handler

import (
	"go-campus-assets/internal/repository"
	"go-campus-assets/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SearchHandler struct {
	search    service.SearchService
	hierarchy service.HierarchyService
}

func NewSearchHandler(search service.SearchService, hierarchy service.HierarchyService) *SearchHandler {
	return &SearchHandler{search: search, hierarchy: hierarchy}
}

// AdvancedSearch accepts the full predicate set as a JSON body.
func (h *SearchHandler) AdvancedSearch(c *fiber.Ctx) error {
	var filter repository.SearchFilter
	if err := c.BodyParser(&filter); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.search.AdvancedSearch(filter)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(result)
}

// GetFilterOptions returns the hierarchical filter structure for UIs.
func (h *SearchHandler) GetFilterOptions(c *fiber.Ctx) error {
	options, err := h.hierarchy.FilterOptions()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(options)
}

// GetQuickFilters returns the top-N shortcuts.
func (h *SearchHandler) GetQuickFilters(c *fiber.Ctx) error {
	filters, err := h.hierarchy.QuickFilters()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(filters)
}
