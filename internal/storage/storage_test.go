package storage

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStorage(t *testing.T, s fiber.Storage) {
	t.Helper()

	got, err := s.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Set("announcements", []byte(`[1]`), 0))
	got, err = s.Get("announcements")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1]`), got)

	require.NoError(t, s.Set("announcements", []byte(`[1,2]`), 0))
	got, err = s.Get("announcements")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1,2]`), got)

	// 빈 키/값은 무시됩니다.
	require.NoError(t, s.Set("", []byte(`x`), 0))
	require.NoError(t, s.Set("empty", nil, 0))
	got, err = s.Get("empty")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Delete("announcements"))
	require.NoError(t, s.Delete("announcements"))
	got, err = s.Get("announcements")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Set("a", []byte(`1`), 0))
	require.NoError(t, s.Set("b", []byte(`2`), 0))
	require.NoError(t, s.Reset())
	got, err = s.Get("a")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Close())
}

func newMemory(t *testing.T) *BadgerStorage {
	t.Helper()
	s, err := NewMemoryStorage()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestMemoryStorage(t *testing.T) {
	s, err := NewMemoryStorage()
	require.NoError(t, err)
	exerciseStorage(t, s)
}

func TestMemoryStorageCopiesValues(t *testing.T) {
	s := newMemory(t)
	val := []byte(`abc`)
	require.NoError(t, s.Set("k", val, 0))
	val[0] = 'z'

	got, _ := s.Get("k")
	assert.Equal(t, []byte(`abc`), got)
}

func TestFileStorage(t *testing.T) {
	s, err := NewBadgerStorage(t.TempDir())
	require.NoError(t, err)
	exerciseStorage(t, s)
}

func TestFileStorageSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := NewBadgerStorage(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set("templates", []byte(`[]`), time.Hour))
	require.NoError(t, s.Close())

	reopened, err := NewBadgerStorage(dir)
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.Get("templates")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)
}

func TestNewBadgerStorageRequiresDir(t *testing.T) {
	_, err := NewBadgerStorage("")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	s, err := Open(Options{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &BadgerStorage{}, s)
	require.NoError(t, s.Close())

	s, err = Open(Options{Driver: DriverFile, Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &BadgerStorage{}, s)
	require.NoError(t, s.Close())

	_, err = Open(Options{Driver: "sqlite"})
	assert.Error(t, err)
}
