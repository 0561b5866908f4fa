package template

import (
	"time"

	"github.com/google/uuid"
)

// Template은 공지 본문에서 참조하는 재사용 텍스트입니다.
// Alias가 비어 있으면 ID로만 참조할 수 있습니다.
type Template struct {
	ID        uuid.UUID `json:"id"`
	Alias     string    `json:"alias,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t Template) EntityID() uuid.UUID { return t.ID }

func (t Template) EntityAlias() string { return t.Alias }

// Label은 목록 표시용 이름입니다. "별칭(ID)" 또는 "ID"
func (t Template) Label() string {
	if t.Alias == "" {
		return t.ID.String()
	}
	return t.Alias + "(" + t.ID.String() + ")"
}
