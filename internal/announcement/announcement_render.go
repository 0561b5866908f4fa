package announcement

import (
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"herald/internal/apperrors"
	"herald/internal/template"
)

// 렌더링 결과에 쓰이는 고정 표시 문자열
const (
	BodyNotSet          = "[미설정]"
	TemplateMissing     = "[삭제된 템플릿]"
	TemplateUnavailable = "[템플릿 조회 실패]"
	UnknownBody         = "[알 수 없는 본문]"

	variablesHeader = "변수 목록:"
)

// TemplateLookup은 렌더러가 필요로 하는 템플릿 조회 기능입니다.
type TemplateLookup interface {
	FindByID(id uuid.UUID) (*template.Template, error)
}

// Renderer는 Body를 최종 텍스트로 바꿉니다. 부작용이 없습니다.
type Renderer struct {
	templates TemplateLookup
}

// NewRenderer는 새 Renderer를 생성합니다.
func NewRenderer(templates TemplateLookup) *Renderer {
	return &Renderer{templates: templates}
}

// Render는 본문 텍스트를 반환합니다.
// 템플릿 본문은 템플릿 원문 뒤에 "key = value" 변수 목록을 붙이며, 원문에 변수를 치환하지는 않습니다.
func (r *Renderer) Render(body *Body) string {
	if body == nil {
		return BodyNotSet
	}
	switch body.Kind {
	case BodyPlain:
		return body.Content
	case BodyTemplate:
		var sb strings.Builder
		sb.WriteString(r.templateText(body.TemplateID))
		sb.WriteString("\n")
		sb.WriteString(variablesHeader)
		sb.WriteString("\n")
		for _, kv := range body.Vars {
			sb.WriteString(kv.Key)
			sb.WriteString(" = ")
			sb.WriteString(kv.Value)
			sb.WriteString("\n")
		}
		return sb.String()
	default:
		return UnknownBody
	}
}

func (r *Renderer) templateText(id uuid.UUID) string {
	tmpl, err := r.templates.FindByID(id)
	if err == nil {
		return tmpl.Content
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return TemplateMissing
	}
	log.Warnf("[WARN] 템플릿(ID: %s) 조회 실패: %v", id, err)
	return TemplateUnavailable
}

// Expand는 템플릿 원문의 {key} 자리에 변수 값을 넣은 텍스트를 반환합니다.
// 일반 본문은 Render와 같고, 템플릿이 없으면 Render 결과로 대체합니다.
func (r *Renderer) Expand(body *Body) string {
	if body == nil || body.Kind != BodyTemplate {
		return r.Render(body)
	}
	tmpl, err := r.templates.FindByID(body.TemplateID)
	if err != nil {
		return r.Render(body)
	}
	pairs := make([]string, 0, len(body.Vars)*2)
	for _, kv := range body.Vars {
		pairs = append(pairs, "{"+kv.Key+"}", kv.Value)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl.Content)
}

// Format은 목록/조회용 공지 전체 텍스트를 만듭니다.
func (r *Renderer) Format(a Announcement) string {
	var sb strings.Builder
	sb.WriteString(a.Label())
	sb.WriteString("\n활성: ")
	if a.Enabled {
		sb.WriteString("✔")
	} else {
		sb.WriteString("✖")
	}

	groups := make([]string, 0, len(a.Groups))
	for _, g := range a.Groups {
		groups = append(groups, strconv.FormatInt(g, 10))
	}
	sb.WriteString("\n그룹: ")
	sb.WriteString(strings.Join(groups, ", "))

	sb.WriteString("\n트리거 목록:\n")
	triggers := make([]string, 0, len(a.Triggers))
	for _, t := range a.Triggers {
		triggers = append(triggers, t.Cron+"("+t.ID.String()+")")
	}
	sb.WriteString(strings.Join(triggers, "\n"))

	sb.WriteString("\n본문:\n")
	sb.WriteString(r.Render(a.Body))
	return sb.String()
}
