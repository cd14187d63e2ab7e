package middleware

import (
	"time"

	"courier-booking/logger"
	"courier-booking/utils"

	"github.com/gofiber/fiber/v2"
)

// RequestLogger hands a sanitized copy of every request/response pair to the async logger
func RequestLogger(asyncLogger *logger.AsyncLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// let the error handler write the response before it is captured
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				logger.Error("Error handler failed", handlerErr)
			}
			err = nil
		}
		asyncLogger.Log(utils.CreateSanitizedLogEntry(c, time.Since(start)))
		return err
	}
}
