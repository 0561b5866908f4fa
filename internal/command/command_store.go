package command

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"herald/internal/storage"
)

const collectionKey = "selections"

// SelectionStore는 'selections' 컬렉션을 관리합니다. 만료 없음.
type SelectionStore struct {
	mu         sync.Mutex
	collection *storage.Collection[Selection]
}

// NewSelectionStore는 새 SelectionStore를 생성합니다.
func NewSelectionStore(backend fiber.Storage) *SelectionStore {
	return &SelectionStore{collection: storage.NewCollection[Selection](backend, collectionKey)}
}

// Get은 사용자가 선택한 공지 ID를 반환합니다. 선택한 적이 없으면 ok=false
func (s *SelectionStore) Get(userID string) (id uuid.UUID, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.collection.Load()
	if err != nil {
		return uuid.Nil, false, err
	}
	for _, sel := range items {
		if sel.UserID == userID {
			return sel.AnnouncementID, true, nil
		}
	}
	return uuid.Nil, false, nil
}

// Select는 사용자의 선택을 바꿉니다.
func (s *SelectionStore) Select(userID string, announcementID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.collection.Load()
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].UserID == userID {
			items[i].AnnouncementID = announcementID
			return s.collection.Save(items)
		}
	}
	items = append(items, Selection{UserID: userID, AnnouncementID: announcementID})
	return s.collection.Save(items)
}
