package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Equal(t, "127.0.0.1", c.App.HTTP.Host)
	assert.Equal(t, 3001, c.App.HTTP.Port)
	assert.Equal(t, "memory", c.DB.Driver)
	assert.True(t, c.DB.AutoMigrate)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "http://127.0.0.1:3001", c.Client.BaseURL)
	assert.Equal(t, 10, c.Client.TimeoutSec)
	assert.Equal(t, 60, c.Redis.TTLSec)
	assert.Empty(t, c.Redis.Addr)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
app:
  name: listd
  http:
    port: 4000
log:
  level: debug
  json: true
db:
  driver: memory
  file: ./data/db.json
redis:
  addr: 127.0.0.1:6379
  ttl_sec: 120
client:
  base_url: http://localhost:4000
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	c := Load(path)
	assert.Equal(t, "listd", c.App.Name)
	assert.Equal(t, 4000, c.App.HTTP.Port)
	assert.Equal(t, "debug", c.Log.Level)
	assert.True(t, c.Log.JSON)
	assert.Equal(t, "./data/db.json", c.DB.File)
	assert.Equal(t, "127.0.0.1:6379", c.Redis.Addr)
	assert.Equal(t, 120, c.Redis.TTLSec)
	assert.Equal(t, "http://localhost:4000", c.Client.BaseURL)

	// 文件没写的键保持默认
	assert.Equal(t, "127.0.0.1", c.App.HTTP.Host)
}
