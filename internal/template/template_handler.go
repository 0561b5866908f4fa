package template

import (
	"github.com/gofiber/fiber/v2"

	"herald/internal/apperrors"
)

// TemplateHandler는 템플릿 API 핸들러입니다.
type TemplateHandler struct {
	service *Service
}

// NewTemplateHandler는 새 핸들러를 생성합니다.
func NewTemplateHandler(service *Service) *TemplateHandler {
	return &TemplateHandler{service: service}
}

// HandleListTemplates는 'GET /api/templates' 요청을 처리합니다.
func (h *TemplateHandler) HandleListTemplates(c *fiber.Ctx) error {
	templates, err := h.service.GetAllTemplates()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"templates": templates})
}

// HandleGetTemplate는 'GET /api/templates/:ref' 요청을 처리합니다.
func (h *TemplateHandler) HandleGetTemplate(c *fiber.Ctx) error {
	tmpl, err := h.service.Resolve(c.Params("ref"))
	if err != nil {
		return err
	}
	return c.JSON(tmpl)
}

// HandleCreateTemplate는 'POST /api/templates' 요청을 처리합니다.
func (h *TemplateHandler) HandleCreateTemplate(c *fiber.Ctx) error {
	var req CreateTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Wrap(err, apperrors.ErrValidation, "템플릿 요청 형식이 잘못되었습니다")
	}
	tmpl, err := h.service.CreateTemplate(req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(tmpl)
}

type updateTemplateRequest struct {
	Alias   *string `json:"alias"`
	Content *string `json:"content"`
}

// HandleUpdateTemplate는 'PUT /api/templates/:ref' 요청을 처리합니다.
// 요청에 포함된 필드만 바꿉니다.
func (h *TemplateHandler) HandleUpdateTemplate(c *fiber.Ctx) error {
	var req updateTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Wrap(err, apperrors.ErrValidation, "템플릿 요청 형식이 잘못되었습니다")
	}
	tmpl, err := h.service.Update(c.Params("ref"), req.Alias, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(tmpl)
}

// HandleDeleteTemplate는 'DELETE /api/templates/:ref' 요청을 처리합니다.
func (h *TemplateHandler) HandleDeleteTemplate(c *fiber.Ctx) error {
	tmpl, err := h.service.DeleteTemplate(c.Params("ref"))
	if err != nil {
		return err
	}
	return c.JSON(tmpl)
}
