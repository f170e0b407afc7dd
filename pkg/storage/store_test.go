package storage

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBlob(t *testing.T, s Storage, name string, data []byte) {
	t.Helper()
	w, err := s.Create(name)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func readBlob(t *testing.T, s Storage, name string) []byte {
	t.Helper()
	r, err := s.Open(name)
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return data
}

func backends(t *testing.T) map[string]Storage {
	t.Helper()

	fileStore, err := NewFileStore(filepath.Join(t.TempDir(), "blobs"))
	require.NoError(t, err)

	sqliteStore, err := NewSQLiteStore(filepath.Join(t.TempDir(), "blobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })

	return map[string]Storage{
		"memory": NewMemoryStore(),
		"file":   fileStore,
		"sqlite": sqliteStore,
	}
}

func TestStorageContract(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("OpenMissing", func(t *testing.T) {
				_, err := s.Open("/missing")
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("WriteAndRead", func(t *testing.T) {
				writeBlob(t, s, "/a.bin", []byte("hello"))
				assert.Equal(t, []byte("hello"), readBlob(t, s, "/a.bin"))
			})

			t.Run("CreateTruncates", func(t *testing.T) {
				writeBlob(t, s, "/b.bin", []byte("long content"))
				writeBlob(t, s, "/b.bin", []byte("short"))
				assert.Equal(t, []byte("short"), readBlob(t, s, "/b.bin"))
			})

			t.Run("Remove", func(t *testing.T) {
				writeBlob(t, s, "/c.bin", []byte("x"))
				require.NoError(t, s.Remove("/c.bin"))
				_, err := s.Open("/c.bin")
				assert.ErrorIs(t, err, ErrNotFound)
				assert.ErrorIs(t, s.Remove("/c.bin"), ErrNotFound)
			})

			t.Run("Rename", func(t *testing.T) {
				writeBlob(t, s, "/d.tmp", []byte("payload"))
				require.NoError(t, s.Rename("/d.tmp", "/d"))
				assert.Equal(t, []byte("payload"), readBlob(t, s, "/d"))
				_, err := s.Open("/d.tmp")
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("RenameMissingSource", func(t *testing.T) {
				assert.ErrorIs(t, s.Rename("/nope", "/other"), ErrNotFound)
			})

			t.Run("RenameOntoExisting", func(t *testing.T) {
				writeBlob(t, s, "/e.tmp", []byte("new"))
				writeBlob(t, s, "/e", []byte("old"))
				assert.ErrorIs(t, s.Rename("/e.tmp", "/e"), ErrExists)
				assert.Equal(t, []byte("old"), readBlob(t, s, "/e"))
			})

			t.Run("InvalidName", func(t *testing.T) {
				for _, bad := range []string{"", "/", "/../etc", "/a//b"} {
					_, err := s.Open(bad)
					assert.ErrorIs(t, err, ErrInvalidName, "name %q", bad)
				}
			})
		})
	}
}

func TestMemoryStoreWriterClosed(t *testing.T) {
	s := NewMemoryStore()
	w, err := s.Create("/x")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = w.Write([]byte("late"))
	assert.ErrorIs(t, err, ErrClosed)
	assert.NoError(t, w.Close(), "second Close is a no-op")
	assert.Equal(t, []string{"/x"}, s.Names())
}

func TestSQLiteStoreInMemory(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	writeBlob(t, s, "/db.proto", []byte{0x01, 0x02})
	assert.Equal(t, []byte{0x01, 0x02}, readBlob(t, s, "/db.proto"))
}
