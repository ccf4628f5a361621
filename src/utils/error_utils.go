// error_utils.go
package utils

import (
	"Backend-FlowForge/src/apperror"
	"Backend-FlowForge/src/models"

	"github.com/gofiber/fiber/v2"
)

func HandleError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(models.ErrorResponse{
		Status:  status,
		Message: message,
	})
}

// HandleAppError maps the error taxonomy onto HTTP status codes:
// validation 400, not found 404, everything else 500.
func HandleAppError(c *fiber.Ctx, err error) error {
	switch {
	case apperror.IsValidation(err):
		return HandleError(c, fiber.StatusBadRequest, err.Error())
	case apperror.IsNotFound(err):
		return HandleError(c, fiber.StatusNotFound, err.Error())
	default:
		return HandleError(c, fiber.StatusInternalServerError, err.Error())
	}
}
