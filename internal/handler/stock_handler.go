package handler

import (
	"strconv"

	"feedmill-production/internal/model"
	"feedmill-production/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type StockHandler struct {
	ledger    repository.StockLedger
	movements repository.MovementRepository
}

func NewStockHandler(ledger repository.StockLedger, movements repository.MovementRepository) *StockHandler {
	return &StockHandler{ledger: ledger, movements: movements}
}

func parseKind(c *fiber.Ctx) (model.MaterialKind, bool) {
	kind := model.MaterialKind(c.Query("kind", string(model.KindRawMaterial)))
	return kind, kind.Valid()
}

// GetStock lists hub stock counters.
// Query params: kind (default RAW_MATERIAL)
func (h *StockHandler) GetStock(c *fiber.Ctx) error {
	kind, ok := parseKind(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown material kind"})
	}
	rows, err := h.ledger.ListStock(kind)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch stock"})
	}
	return c.JSON(fiber.Map{"location_id": h.ledger.LocationID(), "kind": kind, "data": rows})
}

// GetMovements returns the latest movements of one material.
// Query params: kind (default RAW_MATERIAL), limit (default 50)
func (h *StockHandler) GetMovements(c *fiber.Ctx) error {
	kind, ok := parseKind(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown material kind"})
	}
	id, err := uuid.Parse(c.Params("materialId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid material ID"})
	}
	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	movements, err := h.movements.FindByMaterial(model.MaterialRef{Kind: kind, ID: id}, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch movements"})
	}
	return c.JSON(movements)
}
