package storage

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"herald/internal/apperrors"
)

// Entity는 ID와 (선택적) 별칭을 가진 저장 단위입니다. 빈 별칭은 "별칭 없음"입니다.
type Entity interface {
	EntityID() uuid.UUID
	EntityAlias() string
}

// Repository는 Collection 위에서 ID/별칭 이중 식별과 별칭 유일성을 보장합니다.
// 변경 연산은 mu로 직렬화되어 load → 변경 → save 사이에 다른 쓰기가 끼어들지 않습니다.
type Repository[T Entity] struct {
	mu         sync.Mutex
	collection *Collection[T]
	kind       string
}

// NewRepository는 kind(에러 메시지에 쓰이는 이름)를 가진 Repository를 생성합니다.
func NewRepository[T Entity](collection *Collection[T], kind string) *Repository[T] {
	return &Repository[T]{collection: collection, kind: kind}
}

func (r *Repository[T]) notFound(ref string) error {
	return apperrors.Clone(apperrors.ErrNotFound, fmt.Sprintf("%s을(를) 찾을 수 없습니다: %s", r.kind, ref))
}

func (r *Repository[T]) aliasConflict(alias string) error {
	return apperrors.Clone(apperrors.ErrAliasConflict, fmt.Sprintf("이미 사용 중인 %s 별칭입니다: %s", r.kind, alias))
}

func (r *Repository[T]) load() ([]T, error) {
	items, err := r.collection.Load()
	if err != nil {
		log.Errorf("[ERROR] %s 컬렉션 조회 실패: %v", r.kind, err)
		return nil, apperrors.Wrap(err, apperrors.ErrInternal, "")
	}
	return items, nil
}

func (r *Repository[T]) save(items []T) error {
	if err := r.collection.Save(items); err != nil {
		log.Errorf("[ERROR] %s 컬렉션 저장 실패: %v", r.kind, err)
		return apperrors.Wrap(err, apperrors.ErrInternal, "")
	}
	return nil
}

// Insert는 새 엔티티를 추가합니다. 별칭이 이미 쓰이고 있으면 아무것도 바꾸지 않고 AliasConflict를 반환합니다.
func (r *Repository[T]) Insert(item T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return err
	}
	alias := item.EntityAlias()
	for _, existing := range items {
		if existing.EntityID() == item.EntityID() {
			return apperrors.Clone(apperrors.ErrInternal, fmt.Sprintf("%s ID가 중복되었습니다: %s", r.kind, item.EntityID()))
		}
		if alias != "" && existing.EntityAlias() == alias {
			return r.aliasConflict(alias)
		}
	}
	return r.save(append(items, item))
}

// FindByID는 ID로 엔티티를 조회합니다.
func (r *Repository[T]) FindByID(id uuid.UUID) (T, error) {
	var zero T
	items, err := r.load()
	if err != nil {
		return zero, err
	}
	for _, item := range items {
		if item.EntityID() == id {
			return item, nil
		}
	}
	return zero, r.notFound(id.String())
}

// FindByAlias는 별칭으로 엔티티를 조회합니다.
func (r *Repository[T]) FindByAlias(alias string) (T, error) {
	var zero T
	if alias == "" {
		return zero, r.notFound(alias)
	}
	items, err := r.load()
	if err != nil {
		return zero, err
	}
	for _, item := range items {
		if item.EntityAlias() == alias {
			return item, nil
		}
	}
	return zero, r.notFound(alias)
}

// Delete는 엔티티를 영구 삭제하고 삭제된 값을 반환합니다.
func (r *Repository[T]) Delete(id uuid.UUID) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero T
	items, err := r.load()
	if err != nil {
		return zero, err
	}
	for i, item := range items {
		if item.EntityID() == id {
			rest := append(items[:i:i], items[i+1:]...)
			if err := r.save(rest); err != nil {
				return zero, err
			}
			return item, nil
		}
	}
	return zero, r.notFound(id.String())
}

// Modify는 같은 ID의 엔티티를 통째로 교체합니다. (병합 없음)
func (r *Repository[T]) Modify(item T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return err
	}
	idx := -1
	alias := item.EntityAlias()
	for i, existing := range items {
		if existing.EntityID() == item.EntityID() {
			idx = i
			continue
		}
		if alias != "" && existing.EntityAlias() == alias {
			return r.aliasConflict(alias)
		}
	}
	if idx < 0 {
		return r.notFound(item.EntityID().String())
	}
	items[idx] = item
	return r.save(items)
}

// All은 저장 순서(생성 순서) 그대로 전체 목록을 반환합니다.
func (r *Repository[T]) All() ([]T, error) {
	return r.load()
}

// Count는 엔티티 수를 반환합니다.
func (r *Repository[T]) Count() (int, error) {
	items, err := r.load()
	if err != nil {
		return 0, err
	}
	return len(items), nil
}
