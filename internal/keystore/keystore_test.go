package keystore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supersphincs/supersphincs-go"
)

func strPtr(s string) *string { return &s }

func sampleKeys() *supersphincs.ExportedKeys {
	return &supersphincs.ExportedKeys{
		Private: &supersphincs.PrivateKeys{
			RSA:          strPtr("cnNh"),
			SPHINCS:      strPtr("c3BoaW5jcw=="),
			SuperSphincs: strPtr("c3VwZXI="),
		},
		Public: supersphincs.PublicKeys{
			RSA:          "cHViLXJzYQ==",
			SPHINCS:      "cHViLXNwaGluY3M=",
			SuperSphincs: "cHViLWFsbA==",
		},
	}
}

func newEntry(name string, keys *supersphincs.ExportedKeys) Entry {
	return Entry{
		Name:                name,
		RSABits:             2048,
		SPHINCSParameterSet: "SLH-DSA-SHA2-128f",
		Keys:                keys,
	}
}

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "keys"))
	require.NoError(t, err)

	base := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	var n int
	s.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	return s
}

func TestFileStore_SaveAndLoad(t *testing.T) {
	s := newTestStore(t)

	entry, err := s.Save(newEntry("alice", sampleKeys()))
	require.NoError(t, err)
	assert.NoError(t, uuid.Validate(entry.ID))
	assert.Equal(t, "alice", entry.Name)
	assert.True(t, entry.HasPrivateKey())

	byID, err := s.Load(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.Name, byID.Name)
	assert.Equal(t, 2048, byID.RSABits)
	assert.Equal(t, "SLH-DSA-SHA2-128f", byID.SPHINCSParameterSet)
	assert.Len(t, byID.Options(), 2)
	assert.True(t, entry.CreatedAt.Equal(byID.CreatedAt))
	assert.Equal(t, *entry.Keys, *byID.Keys)

	byName, err := s.Load("alice")
	require.NoError(t, err)
	assert.Equal(t, entry.ID, byName.ID)
}

func TestFileStore_FilePermissions(t *testing.T) {
	s := newTestStore(t)

	entry, err := s.Save(newEntry("alice", sampleKeys()))
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(s.Dir(), entry.ID+".json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	des, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Len(t, des, 1, "temporary files must not be left behind")
}

func TestFileStore_SaveRejects(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Save(newEntry("  ", sampleKeys()))
	assert.ErrorIs(t, err, ErrInvalidEntry)

	_, err = s.Save(newEntry("bob", nil))
	assert.ErrorIs(t, err, ErrInvalidEntry)

	_, err = s.Save(newEntry("bob", sampleKeys()))
	require.NoError(t, err)
	_, err = s.Save(newEntry("bob", sampleKeys()))
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestFileStore_List(t *testing.T) {
	s := newTestStore(t)

	entries, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, entries)

	for _, name := range []string{"carol", "alice", "bob"} {
		_, err := s.Save(newEntry(name, sampleKeys()))
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("ignored"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "other.json"), []byte("{}"), 0o600))

	entries, err = s.List()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "carol", entries[0].Name)
	assert.Equal(t, "alice", entries[1].Name)
	assert.Equal(t, "bob", entries[2].Name)
}

func TestFileStore_PublicOnlyEntry(t *testing.T) {
	s := newTestStore(t)

	entry, err := s.Save(newEntry("pub", sampleKeys().PublicOnly()))
	require.NoError(t, err)
	assert.False(t, entry.HasPrivateKey())

	loaded, err := s.Load("pub")
	require.NoError(t, err)
	assert.False(t, loaded.HasPrivateKey())
	assert.Equal(t, sampleKeys().Public, loaded.Keys.Public)
}

func TestFileStore_Delete(t *testing.T) {
	s := newTestStore(t)

	entry, err := s.Save(newEntry("alice", sampleKeys()))
	require.NoError(t, err)

	require.NoError(t, s.Delete("alice"))

	_, err = s.Load(entry.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete("alice"), ErrNotFound)
}

func TestFileStore_LoadMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load(uuid.New().String())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Load("nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_CorruptEntry(t *testing.T) {
	s := newTestStore(t)

	id := uuid.New().String()
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), id+".json"), []byte("{not json"), 0o600))

	_, err := s.Load(id)
	assert.ErrorIs(t, err, ErrInvalidEntry)

	_, err = s.List()
	assert.ErrorIs(t, err, ErrInvalidEntry)
}
