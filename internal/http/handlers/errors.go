package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"salesledger/internal/domain"
	applog "salesledger/internal/log"
)

const friendlyError = "Something went wrong. Please try again."

func statusFor(err error) int {
	switch {
	case domain.IsValidation(err):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

// userMessage never exposes storage errors.
func userMessage(err error) string {
	switch statusFor(err) {
	case fiber.StatusBadRequest:
		return err.Error()
	case fiber.StatusNotFound:
		return "Not found"
	}
	return friendlyError
}

// apiError logs err under action and writes the JSON error body.
func apiError(c *fiber.Ctx, action string, err error) error {
	status := statusFor(err)
	body := fiber.Map{"error": userMessage(err)}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		body["field"] = ve.Field
	}
	if status >= fiber.StatusInternalServerError {
		applog.Error(c, action+".fail", err, nil)
	} else {
		applog.Info(c, action+".rejected", map[string]any{"reason": err.Error()})
	}
	return c.Status(status).JSON(body)
}
