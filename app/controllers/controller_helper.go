package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mreichel/MarketStall/internal/pkg/apperrors"
)

// respondError maps the error taxonomy onto HTTP statuses and a stable JSON
// shape: {"error": <code>, "message": <text>}.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		status = fiber.StatusBadRequest
	case apperrors.KindNotFound:
		status = fiber.StatusNotFound
	case apperrors.KindAuthorization:
		status = fiber.StatusForbidden
	case apperrors.KindSignature:
		status = fiber.StatusBadRequest
	case apperrors.KindExternal:
		status = fiber.StatusBadGateway
	}

	return c.Status(status).JSON(fiber.Map{
		"error":   apperrors.CodeOf(err),
		"message": errMessage(err),
	})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
