package handler

import (
	"sort"

	"go-campus-assets/internal/model"
	"go-campus-assets/internal/repository"
	"go-campus-assets/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type DepartmentHandler struct {
	departmentRepo repository.DepartmentRepository
	resourceRepo   repository.ResourceRepository
}

func NewDepartmentHandler(dRepo repository.DepartmentRepository, rRepo repository.ResourceRepository) *DepartmentHandler {
	return &DepartmentHandler{departmentRepo: dRepo, resourceRepo: rRepo}
}

func (h *DepartmentHandler) GetDepartments(c *fiber.Ctx) error {
	departments, err := h.departmentRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to retrieve departments"})
	}
	return c.JSON(fiber.Map{"departments": departments})
}

// GetDepartmentLocations merges the cached location list with the locations
// actually present on resource rows, since the cache can trail writes made
// through bulk paths.
func (h *DepartmentHandler) GetDepartmentLocations(c *fiber.Ctx) error {
	name := c.Params("department")

	department, err := h.departmentRepo.FindByName(name)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Department not found"})
	}

	live, err := h.resourceRepo.DistinctLocations(name)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to retrieve department locations"})
	}

	set := make(map[string]bool)
	for _, location := range department.Locations {
		set[location] = true
	}
	for _, location := range live {
		set[location] = true
	}
	locations := make([]string, 0, len(set))
	for location := range set {
		locations = append(locations, location)
	}
	sort.Strings(locations)

	return c.JSON(fiber.Map{
		"department": name,
		"locations":  locations,
	})
}

func (h *DepartmentHandler) CreateDepartment(c *fiber.Ctx) error {
	var department model.Department
	if err := c.BodyParser(&department); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&department); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed: " + errs[0].String()})
	}

	if _, err := h.departmentRepo.FindByName(department.Name); err == nil {
		return c.Status(409).JSON(fiber.Map{"error": "Department already exists"})
	}

	if department.Locations == nil {
		department.Locations = []string{}
	}
	actor := getUserID(c)
	department.CreatedBy = actor
	department.UpdatedBy = actor

	if err := h.departmentRepo.Create(&department); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create department"})
	}
	return c.Status(201).JSON(fiber.Map{
		"message":    "Department created successfully",
		"department": department,
	})
}
