package handler

import (
	"feedmill-production/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UnitHandler struct {
	service service.TraceService
}

func NewUnitHandler(s service.TraceService) *UnitHandler {
	return &UnitHandler{service: s}
}

// GetUnit resolves a scanned serial number to its unit, batch and label.
func (h *UnitHandler) GetUnit(c *fiber.Ctx) error {
	trace, err := h.service.TraceUnit(c.UserContext(), c.Params("serial"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(trace)
}
