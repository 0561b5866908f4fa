package channel

import (
	"github.com/gofiber/fiber/v2"
)

// ChannelHandler는 수신 그룹 조회 핸들러입니다.
type ChannelHandler struct {
	directory *Directory
}

// NewChannelHandler는 새 핸들러를 생성합니다.
func NewChannelHandler(directory *Directory) *ChannelHandler {
	return &ChannelHandler{directory: directory}
}

// HandleListGroups는 'GET /api/groups' 요청을 처리합니다.
func (h *ChannelHandler) HandleListGroups(c *fiber.Ctx) error {
	groups := h.directory.Groups()
	return c.JSON(fiber.Map{"count": len(groups), "groups": groups})
}
