package handler

import (
	"feedmill-production/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CostHandler struct {
	service service.CostService
}

func NewCostHandler(s service.CostService) *CostHandler {
	return &CostHandler{service: s}
}

// GetBatchCost returns the cost roll-up of one batch
func (h *CostHandler) GetBatchCost(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid batch ID"})
	}

	cost, err := h.service.GetBatchCost(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cost)
}
