package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"herald/internal/metrics"
)

// RequestLogger는 요청마다 접근 로그와 메트릭을 남깁니다.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// ErrorHandler를 먼저 거쳐야 최종 상태 코드를 알 수 있습니다.
			if hErr := c.App().ErrorHandler(c, err); hErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()

		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		metrics.ObserveHTTPRequest(c.Method(), path, status, elapsed)

		log.WithFields(log.Fields{
			"method":  c.Method(),
			"path":    c.Path(),
			"status":  status,
			"latency": elapsed.String(),
		}).Info("request")
		return nil
	}
}
