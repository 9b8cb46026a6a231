package handler

import (
	"feedmill-production/internal/middleware"
	"feedmill-production/internal/model"
	"feedmill-production/internal/service"

	"github.com/gofiber/fiber/v2"
)

type BatchHandler struct {
	service service.BatchService
}

func NewBatchHandler(s service.BatchService) *BatchHandler {
	return &BatchHandler{service: s}
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

// parseReason accepts an empty body.
func parseReason(c *fiber.Ctx) (string, error) {
	if len(c.Body()) == 0 {
		return "", nil
	}
	var req reasonRequest
	if err := c.BodyParser(&req); err != nil {
		return "", err
	}
	return req.Reason, nil
}

func (h *BatchHandler) GetBatches(c *fiber.Ctx) error {
	status := model.BatchStatus(c.Query("status"))
	batches, err := h.service.List(c.UserContext(), status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(batches)
}

func (h *BatchHandler) GetBatch(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid batch ID"})
	}
	details, err := h.service.GetDetails(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(details)
}

func (h *BatchHandler) CreateBatch(c *fiber.Ctx) error {
	var req service.CreateBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	batch, err := h.service.Create(c.UserContext(), &req, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Batch planned", "data": batch})
}

func (h *BatchHandler) StartBatch(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid batch ID"})
	}
	batch, err := h.service.Start(c.UserContext(), id, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Batch started", "data": batch})
}

func (h *BatchHandler) PauseBatch(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid batch ID"})
	}
	reason, err := parseReason(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	batch, err := h.service.Pause(c.UserContext(), id, reason, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Batch paused", "data": batch})
}

func (h *BatchHandler) ResumeBatch(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid batch ID"})
	}
	batch, err := h.service.Resume(c.UserContext(), id, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Batch resumed", "data": batch})
}

func (h *BatchHandler) CompleteBatch(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid batch ID"})
	}
	var req service.CompleteBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.service.Complete(c.UserContext(), id, &req, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Batch completed", "data": result})
}

func (h *BatchHandler) CancelBatch(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid batch ID"})
	}
	reason, err := parseReason(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	batch, err := h.service.Cancel(c.UserContext(), id, reason, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Batch cancelled", "data": batch})
}
