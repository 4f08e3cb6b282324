package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-shoplist/internal/domain"
	"go-shoplist/internal/repo"
)

func TestFetchListsFiltersByOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com")
	bob := env.register(t, "bob@example.com")
	env.addList(t, alice, "Groceries")
	env.addList(t, bob, "Hardware")

	fresh := NewLists(env.client, env.lists.log)
	require.NoError(t, fresh.FetchLists(ctx, alice))
	st := fresh.State()
	require.Len(t, st.Lists, 1)
	assert.Equal(t, "Groceries", st.Lists[0].Name)
	assert.Equal(t, st.Lists[0].ID, st.SelectedListID)
}

func TestFetchListsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com")
	env.addList(t, alice, "A")
	env.addList(t, alice, "B")

	require.NoError(t, env.lists.FetchLists(ctx, alice))
	first := env.lists.State()
	require.NoError(t, env.lists.FetchLists(ctx, alice))
	second := env.lists.State()

	require.Equal(t, len(first.Lists), len(second.Lists))
	for i := range first.Lists {
		assert.Equal(t, first.Lists[i].ID, second.Lists[i].ID)
	}
	assert.Equal(t, first.SelectedListID, second.SelectedListID)
}

func TestAddListPrependsAndSelects(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice@example.com")
	env.addList(t, alice, "First")
	second := env.addList(t, alice, "Second")

	st := env.lists.State()
	require.Len(t, st.Lists, 2)
	assert.Equal(t, "Second", st.Lists[0].Name)
	assert.Equal(t, second, st.SelectedListID)
}

func TestAddListRejectsBlankName(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.lists.AddList(context.Background(), "u1", "   ")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateListRename(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com")
	id := env.addList(t, alice, "Old")

	updated, err := env.lists.UpdateList(ctx, id, "  New  ")
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)

	st := env.lists.State()
	assert.Equal(t, "New", st.Lists[0].Name)
	assert.Equal(t, id, st.SelectedListID)
}

func TestDeleteListReselects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com")
	a := env.addList(t, alice, "A")
	b := env.addList(t, alice, "B")

	env.lists.SelectList(b)
	require.NoError(t, env.lists.DeleteList(ctx, b, false))
	st := env.lists.State()
	require.Len(t, st.Lists, 1)
	assert.Equal(t, a, st.SelectedListID)

	require.NoError(t, env.lists.DeleteList(ctx, a, false))
	st = env.lists.State()
	assert.Empty(t, st.Lists)
	assert.Equal(t, "", st.SelectedListID)
}

func TestDeleteListCascadesItems(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com")
	keep := env.addList(t, alice, "Keep")
	doomed := env.addList(t, alice, "Doomed")
	env.addItem(t, alice, doomed, "Milk", "1")
	env.addItem(t, alice, doomed, "Eggs", "12")
	survivor := env.addItem(t, alice, keep, "Bread", "2")

	require.NoError(t, env.lists.DeleteList(ctx, doomed, true))

	orphans, err := env.repo.ListItems(ctx, repo.ItemFilter{ListID: doomed})
	require.NoError(t, err)
	assert.Empty(t, orphans)

	left, err := env.repo.ListItems(ctx, repo.ItemFilter{ListID: keep})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, survivor, left[0].ID)
}

func TestShareListTokenStable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com")
	id := env.addList(t, alice, "Groceries")

	shared, err := env.lists.ShareList(ctx, id)
	require.NoError(t, err)
	require.Len(t, shared.ShareToken, 12)

	// token 落库后重新拉取不应变化
	require.NoError(t, env.lists.FetchLists(ctx, alice))
	assert.Equal(t, shared.ShareToken, env.lists.State().Lists[0].ShareToken)

	got, err := env.lists.FetchListByShareToken(ctx, shared.ShareToken)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
}

func TestFetchListByShareTokenUnknown(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.lists.FetchListByShareToken(context.Background(), "nope00000000")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
