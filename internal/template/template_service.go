package template

import (
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"herald/internal/apperrors"
	"herald/internal/identifier"
)

const invalidAliasMessage = "별칭은 공백 없이 64자 이하여야 하며 ID 형식일 수 없습니다"

// Service는 템플릿 관련 비즈니스 로직을 담당합니다.
type Service struct {
	mu       sync.Mutex
	store    *Store
	validate *validator.Validate
}

// NewService는 새 Service를 생성합니다. validate가 nil이면 기본 validator를 씁니다.
func NewService(store *Store, validate *validator.Validate) *Service {
	if validate == nil {
		validate = identifier.NewValidator()
	}
	return &Service{store: store, validate: validate}
}

// CreateTemplateRequest는 템플릿 생성 요청입니다.
type CreateTemplateRequest struct {
	Alias   string `json:"alias" validate:"omitempty,alias"`
	Content string `json:"content"`
}

// CreateTemplate은 별칭을 검증한 뒤 템플릿을 생성합니다.
func (s *Service) CreateTemplate(req CreateTemplateRequest) (*Template, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrValidation, invalidAliasMessage)
	}
	tmpl, err := s.store.Create(req.Alias, req.Content)
	if err != nil {
		return nil, err
	}
	log.Infof("템플릿 생성: %s", tmpl.Label())
	return tmpl, nil
}

// Resolve는 ID 또는 별칭으로 템플릿을 찾습니다.
func (s *Service) Resolve(ref string) (*Template, error) {
	return identifier.Resolve[*Template](s.store, ref)
}

// GetTemplateByID는 ID로 템플릿을 조회합니다.
func (s *Service) GetTemplateByID(id uuid.UUID) (*Template, error) {
	return s.store.FindByID(id)
}

// UpdateContent는 템플릿 내용을 교체합니다.
func (s *Service) UpdateContent(ref, content string) (*Template, error) {
	return s.Update(ref, nil, &content)
}

// Rename은 템플릿 별칭을 바꿉니다. 빈 문자열이면 별칭을 제거합니다.
func (s *Service) Rename(ref, alias string) (*Template, error) {
	return s.Update(ref, &alias, nil)
}

// Update는 nil이 아닌 필드만 바꿔 한 번에 저장합니다.
// 별칭이 충돌하면 내용도 바뀌지 않습니다.
func (s *Service) Update(ref string, alias, content *string) (*Template, error) {
	if alias != nil {
		if err := s.validate.Var(*alias, "omitempty,alias"); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrValidation, invalidAliasMessage)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tmpl, err := s.Resolve(ref)
	if err != nil {
		return nil, err
	}
	changed := false
	if alias != nil && tmpl.Alias != *alias {
		tmpl.Alias = *alias
		changed = true
	}
	if content != nil && tmpl.Content != *content {
		tmpl.Content = *content
		changed = true
	}
	if !changed {
		return tmpl, nil
	}
	if err := s.store.Modify(tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// DeleteTemplate은 템플릿을 삭제하고 삭제된 템플릿을 반환합니다.
func (s *Service) DeleteTemplate(ref string) (*Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmpl, err := s.Resolve(ref)
	if err != nil {
		return nil, err
	}
	deleted, err := s.store.Delete(tmpl.ID)
	if err != nil {
		return nil, err
	}
	log.Infof("템플릿 삭제: %s", deleted.Label())
	return deleted, nil
}

// GetAllTemplates는 템플릿 목록을 반환합니다.
func (s *Service) GetAllTemplates() ([]Template, error) {
	return s.store.GetAll()
}

// CountTemplates는 템플릿 수를 반환합니다.
func (s *Service) CountTemplates() (int, error) {
	return s.store.Count()
}
