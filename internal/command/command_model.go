package command

import (
	"github.com/google/uuid"
)

// Selection은 사용자별로 선택된 공지입니다. 다시 선택하거나 새 공지를 만들 때만 바뀝니다.
type Selection struct {
	UserID         string    `json:"user_id"`
	AnnouncementID uuid.UUID `json:"announcement_id"`
}

// Request는 'POST /api/commands' 요청 본문입니다.
type Request struct {
	UserID string `json:"user_id" validate:"required"`
	Text   string `json:"text" validate:"required"`
}

// Response는 명령 처리 결과입니다. 답장 메시지 여러 개를 순서대로 담습니다.
type Response struct {
	Replies []string `json:"replies"`
}
