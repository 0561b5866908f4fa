package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"herald/internal/apperrors"
)

// ErrorHandler는 핸들러가 반환한 에러를 JSON 응답으로 바꿉니다. (fiber.Config.ErrorHandler)
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"code": "HTTP_ERROR", "message": fe.Message})
	}

	e := apperrors.FromError(err)
	if e.Status >= fiber.StatusInternalServerError {
		log.Errorf("[ERROR] %s %s 처리 실패: %v", c.Method(), c.Path(), err)
	}
	return c.Status(e.Status).JSON(fiber.Map{"code": e.Code, "message": e.Message})
}
