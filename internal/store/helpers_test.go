package store

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-shoplist/internal/remote"
	"go-shoplist/internal/repo"
	"go-shoplist/internal/session"
	"go-shoplist/internal/transport/http/router"
)

// 集成测试环境：内存资源库 + 真路由 + httptest，客户端 store 直连
type testEnv struct {
	auth    *Auth
	lists   *Lists
	items   *Items
	repo    *repo.Memory
	client  *remote.Client
	sessDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	mem, err := repo.NewMemory("", log)
	require.NoError(t, err)

	srv := httptest.NewServer(router.New(log, router.Options{Store: mem}))
	t.Cleanup(srv.Close)

	client := remote.NewClient(srv.URL, 5*time.Second, log)
	dir := t.TempDir()
	sess := session.NewStore(filepath.Join(dir, "session.json"))

	return &testEnv{
		auth:    NewAuth(client, sess, log),
		lists:   NewLists(client, log),
		items:   NewItems(client, log),
		repo:    mem,
		client:  client,
		sessDir: dir,
	}
}

func (e *testEnv) register(t *testing.T, email string) string {
	t.Helper()
	req, err := NewRegisterRequest(email, "hunter2!", "Alice", "Smith", "")
	require.NoError(t, err)
	u, err := e.auth.Register(context.Background(), req)
	require.NoError(t, err)
	return u.ID
}

func (e *testEnv) addList(t *testing.T, userID, name string) string {
	t.Helper()
	l, err := e.lists.AddList(context.Background(), userID, name)
	require.NoError(t, err)
	return l.ID
}

func (e *testEnv) addItem(t *testing.T, userID, listID, name, qty string) string {
	t.Helper()
	req, err := NewAddItemRequest(userID, listID, name, qty, "", "", "")
	require.NoError(t, err)
	it, err := e.items.AddItem(context.Background(), req)
	require.NoError(t, err)
	return it.ID
}
