package handler

import (
	"errors"

	"go-campus-assets/internal/cache"
	"go-campus-assets/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ImportHandler struct {
	imports service.ImportService
}

func NewImportHandler(imports service.ImportService) *ImportHandler {
	return &ImportHandler{imports: imports}
}

type stageImportRequest struct {
	Department string              `json:"department"`
	Rows       []service.ImportRow `json:"rows"`
}

// StageImport validates and stages parsed rows under a TTL-bound session.
func (h *ImportHandler) StageImport(c *fiber.Ctx) error {
	var req stageImportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	session, err := h.imports.Stage(c.Context(), req.Department, req.Rows, getUserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{
		"message": "Import staged",
		"session": session,
	})
}

func (h *ImportHandler) PreviewImport(c *fiber.Ctx) error {
	session, err := h.imports.Preview(c.Context(), c.Params("session_id"))
	if err != nil {
		if errors.Is(err, cache.ErrSessionNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Import session not found or expired"})
		}
		return serviceError(c, err)
	}
	return c.JSON(session)
}

func (h *ImportHandler) CommitImport(c *fiber.Ctx) error {
	result, err := h.imports.Commit(c.Context(), c.Params("session_id"), getUserID(c))
	if err != nil {
		if errors.Is(err, cache.ErrSessionNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Import session not found or expired"})
		}
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Import committed",
		"result":  result,
	})
}

func (h *ImportHandler) DiscardImport(c *fiber.Ctx) error {
	if err := h.imports.Discard(c.Context(), c.Params("session_id")); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Import session discarded"})
}
