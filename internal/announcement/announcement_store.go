package announcement

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"herald/internal/storage"
)

const collectionKey = "announcements"

// Store는 'announcements' 컬렉션을 관리합니다.
type Store struct {
	repo *storage.Repository[Announcement]
	now  func() time.Time
}

// NewStore는 새 Store를 생성합니다.
func NewStore(backend fiber.Storage) *Store {
	return &Store{
		repo: storage.NewRepository(storage.NewCollection[Announcement](backend, collectionKey), "공지"),
		now:  time.Now,
	}
}

// Create는 비활성 상태의 빈 공지를 생성합니다. 별칭이 겹치면 AliasConflict
func (s *Store) Create(alias string) (*Announcement, error) {
	now := s.now()
	a := Announcement{
		ID:        uuid.New(),
		Alias:     alias,
		Groups:    []int64{},
		Triggers:  []Trigger{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) FindByID(id uuid.UUID) (*Announcement, error) {
	a, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) FindByAlias(alias string) (*Announcement, error) {
	a, err := s.repo.FindByAlias(alias)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Delete는 공지를 영구 삭제합니다. (활성 여부와 무관)
func (s *Store) Delete(id uuid.UUID) (*Announcement, error) {
	a, err := s.repo.Delete(id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Modify는 변경된 공지를 ID 기준으로 통째로 저장합니다.
func (s *Store) Modify(a *Announcement) error {
	a.UpdatedAt = s.now()
	return s.repo.Modify(*a)
}

// GetAll은 생성 순서대로 전체 공지를 반환합니다.
func (s *Store) GetAll() ([]Announcement, error) {
	return s.repo.All()
}
