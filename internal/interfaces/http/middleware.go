package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// RequestLogger registra método, ruta, estado y duración de cada petición.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("elapsed", time.Since(start)).
			Msg("http")
		return err
	}
}
