package announcement

import (
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/moby/locker"
	log "github.com/sirupsen/logrus"

	"herald/internal/apperrors"
	"herald/internal/identifier"
)

const invalidAliasMessage = "별칭은 공백 없이 64자 이하여야 하며 ID 형식일 수 없습니다"

// Service는 공지 애그리거트 변경/조회 API입니다.
// 변경 연산은 모두 "참조 해석 → ID 잠금 → 재조회 → 변경 → Modify" 순서를 따릅니다.
type Service struct {
	store    *Store
	renderer *Renderer
	validate *validator.Validate
	locks    *locker.Locker // 공지 ID별 잠금
}

// NewService는 새 Service를 생성합니다.
func NewService(store *Store, renderer *Renderer, validate *validator.Validate) *Service {
	if validate == nil {
		validate = identifier.NewValidator()
	}
	return &Service{
		store:    store,
		renderer: renderer,
		validate: validate,
		locks:    locker.New(),
	}
}

// mutation은 공지를 변경하고 실제로 바뀌었는지 반환합니다.
type mutation func(a *Announcement) (changed bool, err error)

func (s *Service) mutate(ref string, fn mutation) (*Announcement, error) {
	target, err := s.Resolve(ref)
	if err != nil {
		return nil, err
	}
	s.locks.Lock(target.ID.String())
	defer s.locks.Unlock(target.ID.String())

	a, err := s.store.FindByID(target.ID)
	if err != nil {
		return nil, err
	}
	changed, err := fn(a)
	if err != nil {
		return nil, err
	}
	if !changed {
		return a, nil
	}
	if err := s.store.Modify(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Create는 새 공지를 만듭니다. alias는 비워둘 수 있습니다.
func (s *Service) Create(alias string) (*Announcement, error) {
	if err := s.validate.Var(alias, "omitempty,alias"); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrValidation, invalidAliasMessage)
	}
	a, err := s.store.Create(alias)
	if err != nil {
		return nil, err
	}
	log.Infof("공지 생성: %s", a.Label())
	return a, nil
}

// Resolve는 ID 또는 별칭으로 공지를 찾습니다.
func (s *Service) Resolve(ref string) (*Announcement, error) {
	return identifier.Resolve[*Announcement](s.store, ref)
}

// Get은 ID로 공지를 찾습니다.
func (s *Service) Get(id uuid.UUID) (*Announcement, error) {
	return s.store.FindByID(id)
}

// GetAll은 전체 공지를 반환합니다.
func (s *Service) GetAll() ([]Announcement, error) {
	return s.store.GetAll()
}

// CountEnabled는 활성화된 공지 수를 반환합니다.
func (s *Service) CountEnabled() (int, error) {
	all, err := s.store.GetAll()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, a := range all {
		if a.Eligible() {
			n++
		}
	}
	return n, nil
}

// Delete는 공지를 삭제하고 삭제된 공지를 반환합니다.
func (s *Service) Delete(ref string) (*Announcement, error) {
	target, err := s.Resolve(ref)
	if err != nil {
		return nil, err
	}
	s.locks.Lock(target.ID.String())
	defer s.locks.Unlock(target.ID.String())

	deleted, err := s.store.Delete(target.ID)
	if err != nil {
		return nil, err
	}
	log.Infof("공지 삭제: %s", deleted.Label())
	return deleted, nil
}

// Rename은 별칭을 바꿉니다. 빈 문자열이면 별칭을 제거합니다.
func (s *Service) Rename(ref, alias string) (*Announcement, error) {
	if err := s.validate.Var(alias, "omitempty,alias"); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrValidation, invalidAliasMessage)
	}
	return s.mutate(ref, func(a *Announcement) (bool, error) {
		if a.Alias == alias {
			return false, nil
		}
		a.Alias = alias
		return true, nil
	})
}

// AddGroup은 수신 그룹을 추가합니다. 이미 있으면 아무것도 하지 않습니다.
func (s *Service) AddGroup(ref string, groupID int64) (*Announcement, error) {
	return s.mutate(ref, func(a *Announcement) (bool, error) {
		if a.HasGroup(groupID) {
			return false, nil
		}
		a.Groups = append(a.Groups, groupID)
		return true, nil
	})
}

// RemoveGroup은 수신 그룹을 제거합니다. 그룹이 없던 경우 removed=false (에러 아님)
func (s *Service) RemoveGroup(ref string, groupID int64) (a *Announcement, removed bool, err error) {
	a, err = s.mutate(ref, func(a *Announcement) (bool, error) {
		idx := slices.Index(a.Groups, groupID)
		if idx < 0 {
			return false, nil
		}
		a.Groups = slices.Delete(a.Groups, idx, idx+1)
		removed = true
		return true, nil
	})
	return a, removed, err
}

// AddTrigger는 트리거를 추가합니다. 같은 ID의 트리거가 이미 있으면 무시합니다.
func (s *Service) AddTrigger(ref string, trigger Trigger) (*Announcement, error) {
	return s.mutate(ref, func(a *Announcement) (bool, error) {
		if a.FindTrigger(trigger.ID) >= 0 {
			return false, nil
		}
		a.Triggers = append(a.Triggers, trigger)
		return true, nil
	})
}

// RemoveTrigger는 ID가 같은 트리거를 제거합니다. 없으면 removed=false
func (s *Service) RemoveTrigger(ref string, triggerID uuid.UUID) (a *Announcement, removed bool, err error) {
	a, err = s.mutate(ref, func(a *Announcement) (bool, error) {
		idx := a.FindTrigger(triggerID)
		if idx < 0 {
			return false, nil
		}
		a.Triggers = slices.Delete(a.Triggers, idx, idx+1)
		removed = true
		return true, nil
	})
	return a, removed, err
}

// ClearTriggers는 모든 트리거를 제거합니다.
func (s *Service) ClearTriggers(ref string) (*Announcement, error) {
	return s.mutate(ref, func(a *Announcement) (bool, error) {
		if len(a.Triggers) == 0 {
			return false, nil
		}
		a.Triggers = []Trigger{}
		return true, nil
	})
}

// SetBody는 본문을 통째로 교체합니다. (이전 본문과 병합하지 않음)
func (s *Service) SetBody(ref string, body Body) (*Announcement, error) {
	return s.mutate(ref, func(a *Announcement) (bool, error) {
		b := body
		b.Vars = slices.Clone(body.Vars)
		a.Body = &b
		return true, nil
	})
}

// SetVariables는 템플릿 본문의 변수를 설정(추가 또는 덮어쓰기)합니다.
// 본문이 템플릿이 아니면 ErrInvalidVariant
func (s *Service) SetVariables(ref string, vars Vars) (*Announcement, error) {
	return s.mutate(ref, func(a *Announcement) (bool, error) {
		if a.Body == nil || a.Body.Kind != BodyTemplate {
			return false, apperrors.ErrInvalidVariant
		}
		for _, kv := range vars {
			a.Body.Vars = a.Body.Vars.Set(kv.Key, kv.Value)
		}
		return len(vars) > 0, nil
	})
}

// UnsetVariables는 템플릿 본문에서 변수를 제거하고 실제로 제거된 키를 반환합니다.
func (s *Service) UnsetVariables(ref string, keys ...string) (a *Announcement, removed []string, err error) {
	a, err = s.mutate(ref, func(a *Announcement) (bool, error) {
		if a.Body == nil || a.Body.Kind != BodyTemplate {
			return false, apperrors.ErrInvalidVariant
		}
		for _, key := range keys {
			var ok bool
			if a.Body.Vars, ok = a.Body.Vars.Unset(key); ok {
				removed = append(removed, key)
			}
		}
		return len(removed) > 0, nil
	})
	return a, removed, err
}

// Enable은 공지를 활성화합니다. 이미 활성 상태면 그대로 성공합니다.
func (s *Service) Enable(ref string) (*Announcement, error) {
	return s.setEnabled(ref, true)
}

// Disable은 공지를 비활성화합니다.
func (s *Service) Disable(ref string) (*Announcement, error) {
	return s.setEnabled(ref, false)
}

func (s *Service) setEnabled(ref string, enabled bool) (*Announcement, error) {
	return s.mutate(ref, func(a *Announcement) (bool, error) {
		if a.Enabled == enabled {
			return false, nil
		}
		a.Enabled = enabled
		return true, nil
	})
}

// Render는 공지 본문 텍스트를 반환합니다.
func (s *Service) Render(a *Announcement) string {
	return s.renderer.Render(a.Body)
}

// Expand는 변수를 치환한 본문 텍스트를 반환합니다.
func (s *Service) Expand(a *Announcement) string {
	return s.renderer.Expand(a.Body)
}

// Format은 목록용 텍스트를 반환합니다.
func (s *Service) Format(a *Announcement) string {
	return s.renderer.Format(*a)
}

// Preview는 참조한 공지의 본문을 렌더링합니다.
func (s *Service) Preview(ref string) (string, error) {
	a, err := s.Resolve(ref)
	if err != nil {
		return "", err
	}
	return s.Render(a), nil
}
