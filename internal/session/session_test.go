package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-shoplist/internal/domain"
)

func TestLoadMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "session.json"))
	u, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	// 路径里的父目录不存在时 Save 要自己建
	s := NewStore(filepath.Join(t.TempDir(), "nested", "session.json"))
	in := domain.SafeUser{ID: "u1", Email: "alice@example.com", Name: "Alice"}
	require.NoError(t, s.Save(in))

	out, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in, *out)
}

func TestClear(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, s.Save(domain.SafeUser{ID: "u1"}))
	require.NoError(t, s.Clear())

	u, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, u)

	// 幂等
	require.NoError(t, s.Clear())
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewStore(path)
	require.NoError(t, s.Save(domain.SafeUser{ID: "u1"}))

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := s.Load()
	require.Error(t, err)
}
