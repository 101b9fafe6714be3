package middleware

import (
	"time"

	"go-inventory-tracker/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// RequestLogger attaches the request id to the user context logger and logs each
// completed request. Mount it after requestid.New().
func RequestLogger(logg *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		c.SetUserContext(logg.WithRequestID(c.UserContext(), requestID))

		chainErr := c.Next()
		if chainErr != nil {
			// Render now so the logged status is the one the client sees.
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		ctx := logg.WithFields(c.UserContext(), map[string]any{
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     c.Response().StatusCode(),
			"latency_ms": time.Since(start).Milliseconds(),
		})
		logg.Info(ctx, "request completed")
		return nil
	}
}
