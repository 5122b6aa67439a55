package serverutils

import (
	"errors"

	"lingodocs-be/internal/pkg/apperr"
	"lingodocs-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// NewErrorHandler maps service errors onto HTTP statuses. Anything outside
// the apperr taxonomy is logged server-side and surfaced as a generic 500.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
		}

		switch {
		case errors.Is(err, apperr.ErrUnauthorized):
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": apperr.Message(err)})
		case errors.Is(err, apperr.ErrForbidden):
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": apperr.Message(err)})
		case errors.Is(err, apperr.ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": apperr.Message(err)})
		case errors.Is(err, apperr.ErrValidation):
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": apperr.Message(err)})
		}

		log.Error("http", "unhandled error", map[string]interface{}{
			"path":   ctx.Path(),
			"method": ctx.Method(),
			"error":  err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}
}
