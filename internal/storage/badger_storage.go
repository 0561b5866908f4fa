package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v3"
	log "github.com/sirupsen/logrus"
)

// BadgerStorage는 badger 위의 fiber.Storage입니다.
// file 드라이버는 디렉터리에, memory 드라이버는 메모리에만 씁니다.
type BadgerStorage struct {
	db *badger.DB
}

// NewBadgerStorage는 dir에 badger DB를 엽니다.
func NewBadgerStorage(dir string) (*BadgerStorage, error) {
	if dir == "" {
		return nil, errors.New("file storage: 디렉터리가 비어 있습니다")
	}
	return openBadger(badger.DefaultOptions(dir))
}

// NewMemoryStorage는 프로세스 안에서만 유지되는 저장소를 엽니다.
func NewMemoryStorage() (*BadgerStorage, error) {
	return openBadger(badger.DefaultOptions("").WithInMemory(true))
}

func openBadger(opts badger.Options) (*BadgerStorage, error) {
	db, err := badger.Open(opts.WithLogger(log.WithField("storage", "badger")))
	if err != nil {
		return nil, fmt.Errorf("failed to open db %q: %w", opts.Dir, err)
	}
	return &BadgerStorage{db: db}, nil
}

func (s *BadgerStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	return val, err
}

func (s *BadgerStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	entry := badger.NewEntry([]byte(key), val)
	if exp > 0 {
		entry = entry.WithTTL(exp)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(entry)
	})
}

func (s *BadgerStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (s *BadgerStorage) Reset() error {
	return s.db.DropAll()
}

func (s *BadgerStorage) Close() error {
	return s.db.Close()
}
