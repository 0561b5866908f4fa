package template

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"herald/internal/storage"
)

const collectionKey = "templates"

// Store는 'templates' 컬렉션을 관리합니다.
type Store struct {
	repo *storage.Repository[Template]
	now  func() time.Time
}

// NewStore는 새 Store를 생성합니다.
func NewStore(backend fiber.Storage) *Store {
	return &Store{
		repo: storage.NewRepository(storage.NewCollection[Template](backend, collectionKey), "템플릿"),
		now:  time.Now,
	}
}

// Create는 새 ID를 발급해 템플릿을 저장합니다. 별칭이 겹치면 AliasConflict
func (s *Store) Create(alias, content string) (*Template, error) {
	now := s.now()
	tmpl := Template{
		ID:        uuid.New(),
		Alias:     alias,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(tmpl); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

func (s *Store) FindByID(id uuid.UUID) (*Template, error) {
	tmpl, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return &tmpl, nil
}

func (s *Store) FindByAlias(alias string) (*Template, error) {
	tmpl, err := s.repo.FindByAlias(alias)
	if err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// Delete는 템플릿을 영구 삭제합니다. 참조 중인 공지는 '삭제된 템플릿'으로 표시됩니다.
func (s *Store) Delete(id uuid.UUID) (*Template, error) {
	tmpl, err := s.repo.Delete(id)
	if err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// Modify는 변경된 템플릿을 저장합니다.
func (s *Store) Modify(tmpl *Template) error {
	tmpl.UpdatedAt = s.now()
	return s.repo.Modify(*tmpl)
}

// GetAll은 생성 순서대로 전체 템플릿을 반환합니다.
func (s *Store) GetAll() ([]Template, error) {
	return s.repo.All()
}

// Count는 템플릿 수를 반환합니다. (대시보드용)
func (s *Store) Count() (int, error) {
	return s.repo.Count()
}
