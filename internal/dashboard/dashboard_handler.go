package dashboard

import (
	"github.com/gofiber/fiber/v2"
)

// DashboardHandler는 대시보드 관련 핸들러입니다.
type DashboardHandler struct {
	service *Service
}

// NewDashboardHandler는 새 핸들러를 생성합니다.
func NewDashboardHandler(service *Service) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// HandleShowDashboard는 'GET /dashboard' 요청을 처리합니다.
func (h *DashboardHandler) HandleShowDashboard(c *fiber.Ctx) error {
	data, err := h.service.GetDashboardData()
	if err != nil {
		return err
	}
	return c.Render("dashboard", fiber.Map{
		"Title": "Herald | 대시보드",
		"Data":  data,
	}, "layout")
}
