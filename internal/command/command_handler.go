package command

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"herald/internal/apperrors"
)

// CommandHandler는 텍스트 명령 API 핸들러입니다.
type CommandHandler struct {
	service  *Service
	validate *validator.Validate
}

// NewCommandHandler는 새 핸들러를 생성합니다.
func NewCommandHandler(service *Service, validate *validator.Validate) *CommandHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &CommandHandler{service: service, validate: validate}
}

// HandleCommand는 'POST /api/commands' 요청을 처리합니다.
func (h *CommandHandler) HandleCommand(c *fiber.Ctx) error {
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Wrap(err, apperrors.ErrValidation, "명령 요청 형식이 잘못되었습니다")
	}
	if err := h.validate.Struct(req); err != nil {
		return apperrors.Wrap(err, apperrors.ErrValidation, "user_id와 text는 필수입니다")
	}
	return c.JSON(Response{Replies: h.service.Execute(req.UserID, req.Text)})
}
