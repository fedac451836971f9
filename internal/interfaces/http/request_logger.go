package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ascensores-api/pkg/logger"
)

const localLogger = "logger"

// RequestLogger deja en locals un logger con el request id y registra cada request
// al terminar. Usar después del middleware requestid.
func RequestLogger(log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	base := log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID, _ := c.Locals("requestid").(string)
		l := base
		if reqID != "" {
			l = base.With("request_id", reqID)
		}
		c.Locals(localLogger, l)

		err := c.Next()
		if err != nil {
			// deja que el ErrorHandler de Fiber fije el status antes de registrar
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()
		ev := requestLog(c).Info()
		if status >= fiber.StatusInternalServerError {
			ev = requestLog(c).Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return nil
	}
}

// requestLog logger del request o uno deshabilitado si no pasó por RequestLogger.
func requestLog(c *fiber.Ctx) *logger.Logger {
	if l, ok := c.Locals(localLogger).(*logger.Logger); ok && l != nil {
		return l
	}
	return logger.Nop()
}
