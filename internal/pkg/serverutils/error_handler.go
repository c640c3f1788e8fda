package serverutils

import (
	"errors"

	"schoolhub-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// NewErrorHandler is installed as fiber.Config.ErrorHandler and turns any
// error returned by a handler into the JSON envelope.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var ve *ValidationError
		if errors.As(err, &ve) {
			resp := ErrorResponse(fiber.StatusUnprocessableEntity, "Validation failed")
			resp.Errors = ve.Fields
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(resp)
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ctx.Status(fe.Code).JSON(ErrorResponse(fe.Code, fe.Message))
		}

		log.Error("HTTP", "Unhandled error", map[string]interface{}{
			"path":   ctx.Path(),
			"method": ctx.Method(),
			"error":  err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
	}
}
