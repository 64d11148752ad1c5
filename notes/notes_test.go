package notes

import (
	"path/filepath"
	"testing"

	"github.com/meghashyamc/encarta/config"
	"github.com/meghashyamc/encarta/db/kvdb"
	"github.com/meghashyamc/encarta/logger"
	"github.com/stretchr/testify/require"
)

type memoryKV struct {
	values map[string]string
	err    error
}

func newMemoryKV() *memoryKV {
	return &memoryKV{values: make(map[string]string)}
}

func (m *memoryKV) Set(key string, value string) error {
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}

func (m *memoryKV) Get(key string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	value, ok := m.values[key]
	if !ok {
		return "", &kvdb.NotFoundError{Key: key}
	}
	return value, nil
}

func TestLoadMissingNoteIsEmpty(t *testing.T) {
	store := New(newMemoryKV(), logger.Discard())
	require.Equal(t, "", store.Load("1"))
}

func TestSaveOverwritesAndIsIdempotent(t *testing.T) {
	assert := require.New(t)
	kv := newMemoryKV()
	store := New(kv, logger.Discard())

	assert.True(store.Save("1", "first"))
	assert.True(store.Save("1", "second"))
	assert.Equal("second", store.Load("1"))

	assert.True(store.Save("1", "second"))
	assert.Equal(map[string]string{"articleNotes:1": "second"}, kv.values)
}

func TestUnavailableStorage(t *testing.T) {
	assert := require.New(t)

	store := New(nil, logger.Discard())
	assert.False(store.Available())
	assert.False(store.Save("1", "text"))
	assert.Equal("", store.Load("1"))

	failing := newMemoryKV()
	failing.err = kvdb.ErrStorageUnavailable
	store = New(failing, logger.Discard())
	assert.True(store.Available())
	assert.False(store.Save("1", "text"))
	assert.Equal("", store.Load("1"))
}

func TestNotesSurviveReopen(t *testing.T) {
	assert := require.New(t)
	t.Setenv("KVDB_PATH", filepath.Join(t.TempDir(), "notes.db"))

	cfg, err := config.Load("test")
	assert.NoError(err)

	db, err := kvdb.New(logger.Discard(), cfg)
	assert.NoError(err)

	store := New(db, logger.Discard())
	assert.True(store.Save("42", "Check the radiation dose table"))
	assert.NoError(db.Close())

	db, err = kvdb.New(logger.Discard(), cfg)
	assert.NoError(err)
	defer db.Close()

	store = New(db, logger.Discard())
	assert.Equal("Check the radiation dose table", store.Load("42"))
	assert.Equal("", store.Load("43"))
}
