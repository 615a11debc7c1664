package http

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/monstergarden/monstergarden/engine/auth"
	"github.com/monstergarden/monstergarden/engine/database/repositories"
	"github.com/monstergarden/monstergarden/engine/leveling"
)

// errorHandler maps service and repository errors onto HTTP status codes. The
// typed errors carry enough detail for the client message; internals are only
// logged.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}

	status := statusForError(err)
	if status == fiber.StatusInternalServerError {
		slog.Error("Request failed",
			slog.String("type", "http"),
			slog.String("path", c.Path()),
			slog.Any("error", err))
		return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func statusForError(err error) int {
	var nfe *repositories.NotFoundError
	var ife *repositories.InsufficientFundsError
	var nce *repositories.NotCompletedError
	var ace *repositories.AlreadyClaimedError
	var ire *repositories.InvalidRangeError

	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.As(err, &nfe):
		return fiber.StatusNotFound
	case errors.As(err, &ife):
		return fiber.StatusPaymentRequired
	case errors.As(err, &nce), errors.As(err, &ace):
		return fiber.StatusConflict
	case errors.As(err, &ire):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, leveling.ErrActionOnCooldown):
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}
