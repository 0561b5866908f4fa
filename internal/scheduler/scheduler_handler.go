package scheduler

import (
	"github.com/gofiber/fiber/v2"

	"herald/internal/announcement"
)

// Resolver는 참조(ID 또는 별칭)로 공지를 찾습니다.
type Resolver interface {
	Resolve(ref string) (*announcement.Announcement, error)
}

// SchedulerHandler는 스케줄러 상태 조회와 즉시 발송 핸들러입니다.
type SchedulerHandler struct {
	scheduler *Scheduler
	resolver  Resolver
}

// NewSchedulerHandler는 새 핸들러를 생성합니다.
func NewSchedulerHandler(scheduler *Scheduler, resolver Resolver) *SchedulerHandler {
	return &SchedulerHandler{scheduler: scheduler, resolver: resolver}
}

// HandleSendNow는 'POST /api/announcements/:ref/send' 요청을 처리합니다. (테스트 발송)
func (h *SchedulerHandler) HandleSendNow(c *fiber.Ctx) error {
	a, err := h.resolver.Resolve(c.Params("ref"))
	if err != nil {
		return err
	}
	if err := h.scheduler.Deliver(c.UserContext(), a); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"id": a.ID, "groups": a.Groups})
}

// HandleStatus는 'GET /api/scheduler' 요청을 처리합니다.
func (h *SchedulerHandler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"scheduled_triggers": h.scheduler.Entries()})
}
