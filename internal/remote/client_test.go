package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-shoplist/internal/domain"
)

type widget struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 2*time.Second, nil)
}

func TestGetDecodesCollection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/widgets", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]widget{{ID: "1", Name: "a"}, {ID: "2", Name: "b"}})
	})

	got, err := Get[widget](context.Background(), c, "/widgets")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
}

func TestPostSendsJSONBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in widget
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(in)
	})

	got, err := Post[widget](context.Background(), c, "/widgets", widget{ID: "9", Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, "9", got.ID)
}

func TestNon2xxMapsToRemoteError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":404,"msg":"not found"}`, http.StatusNotFound)
	})

	_, err := GetOne[widget](context.Background(), c, "/widgets/nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRemote)

	var re *Error
	require.True(t, errors.As(err, &re))
	assert.Equal(t, http.StatusNotFound, re.Status)
	assert.Equal(t, "/widgets/nope", re.Path)
}

func TestNetworkFailureMapsToRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // 让后续请求必然连接失败
	c := NewClient(srv.URL, time.Second, nil)

	err := c.Delete(context.Background(), "/widgets/1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRemote)

	var re *Error
	require.True(t, errors.As(err, &re))
	assert.Zero(t, re.Status)
}

func TestDeleteSendsNoBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Empty(t, r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	})
	require.NoError(t, c.Delete(context.Background(), "/widgets/1"))
}
