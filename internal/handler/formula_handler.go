package handler

import (
	"strconv"

	"feedmill-production/internal/repository"
	"feedmill-production/internal/service"

	"github.com/gofiber/fiber/v2"
)

type FormulaHandler struct {
	formulas     repository.FormulaRepository
	availability service.AvailabilityService
}

func NewFormulaHandler(formulas repository.FormulaRepository, availability service.AvailabilityService) *FormulaHandler {
	return &FormulaHandler{formulas: formulas, availability: availability}
}

func (h *FormulaHandler) GetFormulas(c *fiber.Ctx) error {
	formulas, err := h.formulas.FindAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch formulas"})
	}
	return c.JSON(formulas)
}

// GetAvailability evaluates a formula against hub stock.
// Query params: batch_size (default 1)
func (h *FormulaHandler) GetAvailability(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid formula ID"})
	}
	size, err := strconv.Atoi(c.Query("batch_size", "1"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "batch_size must be an integer"})
	}

	report, err := h.availability.Evaluate(c.UserContext(), id, size)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
