package handler

import (
	"errors"

	"feedmill-production/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respondError maps service errors onto HTTP status codes.
func respondError(c *fiber.Ctx, err error) error {
	var shortage *service.ShortageError
	var transition *service.TransitionError
	var validation *service.ValidationError

	switch {
	case errors.As(err, &shortage):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":     err.Error(),
			"shortages": shortage.Shortages,
		})
	case errors.As(err, &transition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":  err.Error(),
			"status": transition.From,
		})
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "field": validation.Field})
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrPackagingMaterialNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
