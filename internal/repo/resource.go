package repo

import (
	"context"
	"encoding/json"

	"go-shoplist/internal/domain"
)

// UserFilter GET /users 支持的查询参数
type UserFilter struct {
	Email string
	Cell  string
}

// ListFilter GET /lists 支持的查询参数
type ListFilter struct {
	UserID     string
	ShareToken string
}

// ItemFilter GET /items 支持的查询参数
type ItemFilter struct {
	ListID string
}

// Store 三张扁平集合的资源存储。PATCH 为 JSON merge，PUT 为整
// 文档替换，与 json-server 的行为保持一致。
type Store interface {
	ListUsers(ctx context.Context, f UserFilter) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
	PatchUser(ctx context.Context, id string, patch map[string]any) (*domain.User, error)
	PutUser(ctx context.Context, id string, u domain.User) (*domain.User, error)

	ListLists(ctx context.Context, f ListFilter) ([]domain.ShoppingList, error)
	GetList(ctx context.Context, id string) (*domain.ShoppingList, error)
	CreateList(ctx context.Context, l domain.ShoppingList) (domain.ShoppingList, error)
	PatchList(ctx context.Context, id string, patch map[string]any) (*domain.ShoppingList, error)
	PutList(ctx context.Context, id string, l domain.ShoppingList) (*domain.ShoppingList, error)
	DeleteList(ctx context.Context, id string) error

	ListItems(ctx context.Context, f ItemFilter) ([]domain.ShoppingItem, error)
	GetItem(ctx context.Context, id string) (*domain.ShoppingItem, error)
	CreateItem(ctx context.Context, it domain.ShoppingItem) (domain.ShoppingItem, error)
	PatchItem(ctx context.Context, id string, patch map[string]any) (*domain.ShoppingItem, error)
	PutItem(ctx context.Context, id string, it domain.ShoppingItem) (*domain.ShoppingItem, error)
	DeleteItem(ctx context.Context, id string) error
}

// mergePatch 把部分字段合并进已有文档（走一轮 JSON，避免逐字段手写）
func mergePatch[T any](base T, patch map[string]any) (T, error) {
	var zero T
	raw, err := json.Marshal(base)
	if err != nil {
		return zero, err
	}
	doc := map[string]any{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return zero, err
	}
	for k, v := range patch {
		doc[k] = v
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		return zero, err
	}
	return out, nil
}
