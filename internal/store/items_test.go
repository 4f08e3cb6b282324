package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-shoplist/internal/domain"
)

func TestAddItemQuantityCoercion(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice@example.com")
	list := env.addList(t, alice, "Groceries")

	req, err := NewAddItemRequest(alice, list, "Milk", "3", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, 3, req.Quantity)
	assert.Equal(t, domain.DefaultCategory, req.Category)

	it, err := env.items.AddItem(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 3, it.Quantity)
	assert.Equal(t, "Other", it.Category)
}

func TestAddItemRejectsBadQuantity(t *testing.T) {
	for _, raw := range []string{"", "0", "-2", "abc", "1.5"} {
		_, err := NewAddItemRequest("u1", "l1", "Milk", raw, "", "", "")
		require.ErrorIs(t, err, domain.ErrValidation, "quantity %q", raw)
	}
}

func TestAddItemMembershipGuard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com")
	l1 := env.addList(t, alice, "Groceries")
	l2 := env.addList(t, alice, "Hardware")

	require.NoError(t, env.items.FetchItems(ctx, l1))

	// 活跃清单是 l1，往 l2 加的条目不得进入当前集合
	req, err := NewAddItemRequest(alice, l2, "Hammer", "1", "", "", "")
	require.NoError(t, err)
	created, err := env.items.AddItem(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, l2, created.ListID)

	st := env.items.State()
	assert.Empty(t, st.Items)
	assert.Equal(t, l1, st.ActiveListID)

	// 远端仍然写入了
	got, err := env.items.FetchItemsByList(ctx, l2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, created.ID, got[0].ID)
}

func TestAddItemPrependsWhenActive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com")
	list := env.addList(t, alice, "Groceries")
	require.NoError(t, env.items.FetchItems(ctx, list))

	env.addItem(t, alice, list, "Milk", "1")
	env.addItem(t, alice, list, "Eggs", "12")

	st := env.items.State()
	require.Len(t, st.Items, 2)
	assert.Equal(t, "Eggs", st.Items[0].Name)
	assert.Equal(t, "Milk", st.Items[1].Name)
}

func TestFetchItemsFiltersByList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com")
	l1 := env.addList(t, alice, "Groceries")
	l2 := env.addList(t, alice, "Hardware")
	env.addItem(t, alice, l1, "Milk", "1")
	env.addItem(t, alice, l2, "Hammer", "1")

	require.NoError(t, env.items.FetchItems(ctx, l1))
	st := env.items.State()
	require.Len(t, st.Items, 1)
	assert.Equal(t, "Milk", st.Items[0].Name)
}

func TestUpdateItemPatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com")
	list := env.addList(t, alice, "Groceries")
	require.NoError(t, env.items.FetchItems(ctx, list))
	id := env.addItem(t, alice, list, "Milk", "1")
	before := env.items.State().Items[0]

	qty := "4"
	notes := "long life"
	updated, err := env.items.UpdateItem(ctx, id, ItemPatch{Quantity: &qty, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)
	assert.Equal(t, "long life", updated.Notes)
	assert.Equal(t, "Milk", updated.Name)
	assert.GreaterOrEqual(t, updated.UpdatedAt, before.UpdatedAt)

	st := env.items.State()
	assert.Equal(t, 4, st.Items[0].Quantity)
}

func TestUpdateItemRejectsBlankName(t *testing.T) {
	env := newTestEnv(t)
	blank := "   "
	_, err := env.items.UpdateItem(context.Background(), "whatever", ItemPatch{Name: &blank})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com")
	list := env.addList(t, alice, "Groceries")
	require.NoError(t, env.items.FetchItems(ctx, list))
	id := env.addItem(t, alice, list, "Milk", "1")

	require.NoError(t, env.items.DeleteItem(ctx, id))
	assert.Empty(t, env.items.State().Items)

	got, err := env.items.FetchItemsByList(ctx, list)
	require.NoError(t, err)
	assert.Empty(t, got)
}
