package serverutils

import (
	"errors"

	"airicepest-be/internal/pkg/apperror"
	"airicepest-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// HandleError writes err as a failure envelope. Internal errors are logged
// with their cause and reported with a generic message.
func HandleError(ctx *fiber.Ctx, log logger.ILogger, err error) error {
	appErr := apperror.From(err)
	if appErr.Kind == apperror.KindInternal && log != nil {
		log.Error("HTTP", "request failed", map[string]interface{}{
			"error":  err,
			"method": ctx.Method(),
			"path":   ctx.Path(),
		})
	}
	status := appErr.Status()
	return ctx.Status(status).JSON(ErrorResponse(status, appErr.Message))
}

// ErrorHandler is installed as fiber.Config.ErrorHandler so that errors
// returned by handlers, and fiber's own routing errors, share the envelope.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ctx.Status(fe.Code).JSON(ErrorResponse(fe.Code, fe.Message))
		}
		return HandleError(ctx, log, err)
	}
}
