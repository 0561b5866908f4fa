package storage

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Collection은 T 목록 전체를 하나의 키에 JSON 배열로 저장합니다.
// Load는 현재 스냅샷을, Save는 목록 전체를 한 번에 교체합니다.
type Collection[T any] struct {
	storage fiber.Storage
	key     string
}

// NewCollection은 storage의 key 위치에 컬렉션을 생성합니다.
func NewCollection[T any](storage fiber.Storage, key string) *Collection[T] {
	return &Collection[T]{storage: storage, key: key}
}

// Load는 저장된 목록을 반환합니다. 아직 저장된 적이 없으면 빈 목록입니다.
func (c *Collection[T]) Load() ([]T, error) {
	raw, err := c.storage.Get(c.key)
	if err != nil {
		return nil, fmt.Errorf("collection %s load: %w", c.key, err)
	}
	if len(raw) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("collection %s decode: %w", c.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save는 목록 전체를 직렬화하여 덮어씁니다.
func (c *Collection[T]) Save(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("collection %s encode: %w", c.key, err)
	}
	if err := c.storage.Set(c.key, data, 0); err != nil {
		return fmt.Errorf("collection %s save: %w", c.key, err)
	}
	return nil
}
