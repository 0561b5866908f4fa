package announcement

import (
	"github.com/gofiber/fiber/v2"
)

// AnnouncementHandler는 공지 조회 API 핸들러입니다. 변경은 명령 인터페이스로만 합니다.
type AnnouncementHandler struct {
	service *Service
}

// NewAnnouncementHandler는 새 핸들러를 생성합니다.
func NewAnnouncementHandler(service *Service) *AnnouncementHandler {
	return &AnnouncementHandler{service: service}
}

type announcementView struct {
	*Announcement
	Rendered string `json:"rendered"`
}

// HandleListAnnouncements는 'GET /api/announcements' 요청을 처리합니다.
func (h *AnnouncementHandler) HandleListAnnouncements(c *fiber.Ctx) error {
	all, err := h.service.GetAll()
	if err != nil {
		return err
	}
	views := make([]announcementView, 0, len(all))
	for i := range all {
		views = append(views, announcementView{Announcement: &all[i], Rendered: h.service.Render(&all[i])})
	}
	return c.JSON(fiber.Map{"count": len(views), "announcements": views})
}

// HandleGetAnnouncement는 'GET /api/announcements/:ref' 요청을 처리합니다.
func (h *AnnouncementHandler) HandleGetAnnouncement(c *fiber.Ctx) error {
	a, err := h.service.Resolve(c.Params("ref"))
	if err != nil {
		return err
	}
	return c.JSON(announcementView{Announcement: a, Rendered: h.service.Render(a)})
}

// HandlePreview는 'GET /api/announcements/:ref/preview' 요청을 처리합니다.
func (h *AnnouncementHandler) HandlePreview(c *fiber.Ctx) error {
	text, err := h.service.Preview(c.Params("ref"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"text": text})
}
