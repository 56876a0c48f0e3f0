package errors

import (
	stderrors "errors"

	"artfolio/pkg/errors/i18n"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func StatusOf(code string) int {
	switch code {
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeConflict:
		return fiber.StatusConflict
	case CodeValidation:
		return fiber.StatusUnprocessableEntity
	case CodeUnauthorized:
		return fiber.StatusUnauthorized
	case CodeInvalidImage:
		return fiber.StatusBadRequest
	case CodeStorage, CodeDatabase:
		return fiber.StatusBadGateway
	case CodePartial:
		return fiber.StatusMultiStatus
	default:
		return fiber.StatusInternalServerError
	}
}

// HandleError writes err as a JSON error body. The wrapped cause is logged and
// its text appended to the message; client-side failures keep the bare message.
func HandleError(c *fiber.Ctx, log *zap.Logger, err error) error {
	if err == nil {
		return nil
	}

	var ae *AppError
	if !stderrors.As(err, &ae) {
		log.Error("unexpected error", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   CodeInternal,
			"message": i18n.T(CodeInternal),
		})
	}

	status := StatusOf(ae.Code)
	message := ae.Message
	if ae.Err != nil {
		if status >= fiber.StatusInternalServerError || status == fiber.StatusMultiStatus {
			log.Error("request failed", zap.String("code", ae.Code), zap.String("path", c.Path()), zap.Error(ae.Err))
			message = ae.Message + ": " + ae.Err.Error()
		} else {
			log.Debug("request rejected", zap.String("code", ae.Code), zap.Error(ae.Err))
		}
	}
	if message == "" {
		message = i18n.T(ae.Code)
	}

	body := fiber.Map{
		"error":   ae.Code,
		"message": message,
	}
	if len(ae.Fields) > 0 {
		body["fields"] = ae.Fields
	}
	return c.Status(status).JSON(body)
}
