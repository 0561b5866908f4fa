package announcement

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Trigger는 공지에 붙는 발송 일정입니다. Cron 식은 그대로 저장되며 해석은 스케줄러가 합니다.
type Trigger struct {
	ID   uuid.UUID `json:"id"`
	Cron string    `json:"cron"`
}

// NewTrigger는 새 ID를 가진 트리거를 만듭니다.
func NewTrigger(cron string) Trigger {
	return Trigger{ID: uuid.New(), Cron: cron}
}

// BodyKind는 Body의 종류(태그)입니다.
type BodyKind string

const (
	BodyPlain    BodyKind = "plain"
	BodyTemplate BodyKind = "template"
)

// Var는 템플릿 변수 하나입니다.
type Var struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Vars는 입력 순서를 보존하는 변수 목록입니다. 키는 유일합니다.
type Vars []Var

// Get은 key의 값을 반환합니다.
func (v Vars) Get(key string) (string, bool) {
	for _, kv := range v {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Set은 key가 있으면 값을 바꾸고(위치 유지), 없으면 끝에 추가한 새 목록을 반환합니다.
func (v Vars) Set(key, value string) Vars {
	out := slices.Clone(v)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Var{Key: key, Value: value})
}

// Unset은 key를 뺀 새 목록과 삭제 여부를 반환합니다.
func (v Vars) Unset(key string) (Vars, bool) {
	for i := range v {
		if v[i].Key == key {
			out := slices.Clone(v[:i])
			return append(out, v[i+1:]...), true
		}
	}
	return slices.Clone(v), false
}

// Body는 공지 본문입니다. Kind에 따라 Content(plain) 또는 TemplateID/Vars(template)만 의미가 있습니다.
type Body struct {
	Kind       BodyKind  `json:"kind"`
	Content    string    `json:"content,omitempty"`
	TemplateID uuid.UUID `json:"template_id"`
	Vars       Vars      `json:"vars,omitempty"`
}

// PlainBody는 일반 텍스트 본문을 만듭니다.
func PlainBody(content string) Body {
	return Body{Kind: BodyPlain, Content: content}
}

// TemplateBody는 템플릿 참조 본문을 만듭니다.
func TemplateBody(templateID uuid.UUID, vars Vars) Body {
	return Body{Kind: BodyTemplate, TemplateID: templateID, Vars: slices.Clone(vars)}
}

// Announcement는 그룹에 발송되는 예약 공지입니다.
type Announcement struct {
	ID        uuid.UUID `json:"id"`
	Alias     string    `json:"alias,omitempty"`
	Enabled   bool      `json:"enabled"`
	Groups    []int64   `json:"groups"`
	Triggers  []Trigger `json:"triggers"`
	Body      *Body     `json:"body,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a Announcement) EntityID() uuid.UUID { return a.ID }

func (a Announcement) EntityAlias() string { return a.Alias }

// Label은 "별칭(ID)" 또는 "ID"를 반환합니다.
func (a Announcement) Label() string {
	if a.Alias == "" {
		return a.ID.String()
	}
	return a.Alias + "(" + a.ID.String() + ")"
}

// Eligible은 스케줄러가 발송 대상으로 삼을 수 있는지 여부입니다.
func (a Announcement) Eligible() bool {
	return a.Enabled
}

// HasGroup은 groupID가 수신 그룹에 포함되어 있는지 확인합니다.
func (a Announcement) HasGroup(groupID int64) bool {
	return slices.Contains(a.Groups, groupID)
}

// FindTrigger는 id가 같은 트리거의 위치를 반환합니다. 없으면 -1
func (a Announcement) FindTrigger(id uuid.UUID) int {
	return slices.IndexFunc(a.Triggers, func(t Trigger) bool { return t.ID == id })
}
