package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-shoplist/internal/domain"
	"go-shoplist/internal/repo"
	resp "go-shoplist/internal/transport/http/response"
)

func newTestRouter(t *testing.T) (*gin.Engine, *repo.Memory) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mem, err := repo.NewMemory("", zap.NewNop())
	require.NoError(t, err)
	return New(zap.NewNop(), Options{Store: mem}), mem
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserLifecycle(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/users", domain.User{
		ID: "u1", Email: "a@example.com", Name: "Alice", Cell: "082",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[domain.User](t, w)
	assert.Equal(t, "u1", created.ID)

	w = doJSON(t, r, http.MethodGet, "/users?email=a@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := decode[[]domain.User](t, w)
	require.Len(t, users, 1)

	w = doJSON(t, r, http.MethodGet, "/users?email=other@example.com", nil)
	assert.Empty(t, decode[[]domain.User](t, w))

	w = doJSON(t, r, http.MethodGet, "/users?cell=082", nil)
	assert.Len(t, decode[[]domain.User](t, w), 1)

	w = doJSON(t, r, http.MethodPatch, "/users/u1", map[string]any{"name": "Alicia"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alicia", decode[domain.User](t, w).Name)

	w = doJSON(t, r, http.MethodGet, "/users/u1", nil)
	assert.Equal(t, "Alicia", decode[domain.User](t, w).Name)
}

func TestListLifecycle(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/lists", domain.ShoppingList{
		ID: "l1", UserID: "u1", Name: "Groceries",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/lists?userId=u1", nil)
	assert.Len(t, decode[[]domain.ShoppingList](t, w), 1)

	w = doJSON(t, r, http.MethodPatch, "/lists/l1", map[string]any{"shareToken": "tok123456789"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/lists?shareToken=tok123456789", nil)
	got := decode[[]domain.ShoppingList](t, w)
	require.Len(t, got, 1)
	assert.Equal(t, "l1", got[0].ID)

	w = doJSON(t, r, http.MethodDelete, "/lists/l1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/lists", nil)
	assert.Empty(t, decode[[]domain.ShoppingList](t, w))
}

func TestItemFilterAndPut(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, it := range []domain.ShoppingItem{
		{ID: "i1", ListID: "l1", Name: "Milk", Quantity: 1},
		{ID: "i2", ListID: "l2", Name: "Hammer", Quantity: 1},
	} {
		w := doJSON(t, r, http.MethodPost, "/items", it)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/items?listId=l1", nil)
	got := decode[[]domain.ShoppingItem](t, w)
	require.Len(t, got, 1)
	assert.Equal(t, "Milk", got[0].Name)

	// PUT 整体替换
	w = doJSON(t, r, http.MethodPut, "/items/i1", domain.ShoppingItem{
		ListID: "l1", Name: "Cream", Quantity: 2,
	})
	require.Equal(t, http.StatusOK, w.Code)
	put := decode[domain.ShoppingItem](t, w)
	assert.Equal(t, "i1", put.ID)
	assert.Equal(t, "Cream", put.Name)

	w = doJSON(t, r, http.MethodDelete, "/items/i2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodGet, "/items?listId=l2", nil)
	assert.Empty(t, decode[[]domain.ShoppingItem](t, w))
}

func TestPatchCannotChangeID(t *testing.T) {
	r, mem := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/items", domain.ShoppingItem{ID: "i1", ListID: "l1", Name: "Milk"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/items/i1", map[string]any{"id": "evil", "name": "Eggs"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "i1", decode[domain.ShoppingItem](t, w).ID)

	_, err := mem.GetItem(t.Context(), "evil")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNotFoundEnvelope(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/items/missing", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	env := decode[resp.Resp](t, w)
	assert.Equal(t, resp.CodeNotFound, env.Code)
	assert.Equal(t, "Not Found", env.Msg)
}

func TestBadPatchBody(t *testing.T) {
	r, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPatch, "/items/i1", bytes.NewReader([]byte("{oops")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestIDHeader(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
