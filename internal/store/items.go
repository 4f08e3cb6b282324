package store

import (
	"context"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"go-shoplist/internal/domain"
	"go-shoplist/internal/remote"
	"go-shoplist/pkg/utils"
)

const (
	msgFetchItemsFailed = "Failed to load items."
	msgAddItemFailed    = "Failed to add item."
	msgUpdateItemFailed = "Failed to update item."
	msgDeleteItemFailed = "Failed to delete item."
)

// ItemsState 条目集合状态快照。ActiveListID 记录最近一次拉取的清单，
// 空串表示尚未拉取过。
type ItemsState struct {
	Items        []domain.ShoppingItem
	ActiveListID string
	Loading      bool
	Error        string
}

// Items 条目 store。新增结果只有在其 listId 仍匹配当前活跃清单时
// 才进入内存集合（防止请求途中切换清单的竞态）。
type Items struct {
	mu     sync.Mutex
	state  ItemsState
	client *remote.Client
	log    *zap.Logger
}

func NewItems(client *remote.Client, log *zap.Logger) *Items {
	return &Items{client: client, log: log}
}

func (s *Items) State() ItemsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Items = append([]domain.ShoppingItem(nil), s.state.Items...)
	return st
}

func (s *Items) ClearError() {
	s.mu.Lock()
	s.state.Error = ""
	s.mu.Unlock()
}

// ClearState 登出时整体复位
func (s *Items) ClearState() {
	s.mu.Lock()
	s.state = ItemsState{}
	s.mu.Unlock()
}

// SetActiveList 仅切换活跃清单标记，不拉数据
func (s *Items) SetActiveList(id string) {
	s.mu.Lock()
	s.state.ActiveListID = id
	s.mu.Unlock()
}

func (s *Items) begin() {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Error = ""
	s.mu.Unlock()
}

func (s *Items) reject(msg string, err error) error {
	s.mu.Lock()
	s.state.Loading = false
	s.state.Error = msg
	s.mu.Unlock()
	return err
}

// FetchItems 全量替换为 listID 名下条目并记录活跃清单。
// 与列表一致：拉全集后客户端过滤。
func (s *Items) FetchItems(ctx context.Context, listID string) error {
	s.begin()

	all, err := remote.Get[domain.ShoppingItem](ctx, s.client, "/items")
	if err != nil {
		return s.reject(msgFetchItemsFailed, err)
	}
	mine := make([]domain.ShoppingItem, 0, len(all))
	for _, it := range all {
		if it.ListID == listID {
			mine = append(mine, it)
		}
	}

	s.mu.Lock()
	s.state.Loading = false
	s.state.ActiveListID = listID
	s.state.Items = mine
	s.mu.Unlock()
	return nil
}

// AddItem 新增条目。载荷必须经过 NewAddItemRequest 校验；
// 创建结果按活跃清单做成员检查后才头插。
func (s *Items) AddItem(ctx context.Context, req AddItemRequest) (domain.ShoppingItem, error) {
	s.begin()

	now := nowISO()
	created, err := remote.Post[domain.ShoppingItem](ctx, s.client, "/items", domain.ShoppingItem{
		ID:        utils.NewID(),
		ListID:    req.ListID,
		UserID:    req.UserID,
		Name:      req.Name,
		Quantity:  req.Quantity,
		Notes:     req.Notes,
		Category:  req.Category,
		ImageURL:  req.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return domain.ShoppingItem{}, s.reject(msgAddItemFailed, err)
	}

	s.mu.Lock()
	s.state.Loading = false
	if s.state.ActiveListID == "" || created.ListID == s.state.ActiveListID {
		s.state.Items = append([]domain.ShoppingItem{created}, s.state.Items...)
	} else {
		s.log.Debug("item dropped by membership guard",
			zap.String("item", created.ID),
			zap.String("list", created.ListID),
			zap.String("active", s.state.ActiveListID),
		)
	}
	s.mu.Unlock()
	return created, nil
}

// UpdateItem 部分更新：patch 内的字符串字段去空白、数量强转，
// 并统一盖新 updatedAt；成功后按 id 原位替换。
func (s *Items) UpdateItem(ctx context.Context, id string, patch ItemPatch) (domain.ShoppingItem, error) {
	doc, err := patch.build()
	if err != nil {
		return domain.ShoppingItem{}, err
	}

	updated, err := remote.Patch[domain.ShoppingItem](ctx, s.client, "/items/"+id, doc)
	if err != nil {
		return domain.ShoppingItem{}, s.reject(msgUpdateItemFailed, err)
	}

	s.mu.Lock()
	for i, it := range s.state.Items {
		if it.ID == updated.ID {
			s.state.Items[i] = updated
			break
		}
	}
	s.mu.Unlock()
	return updated, nil
}

// DeleteItem 远端删除成功后再从本地集合摘除
func (s *Items) DeleteItem(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, "/items/"+id); err != nil {
		return s.reject(msgDeleteItemFailed, err)
	}

	s.mu.Lock()
	kept := s.state.Items[:0]
	for _, it := range s.state.Items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	s.state.Items = kept
	s.mu.Unlock()
	return nil
}

// FetchItemsByList 公共分享页用：直接取某清单条目，不动 store 状态
func (s *Items) FetchItemsByList(ctx context.Context, listID string) ([]domain.ShoppingItem, error) {
	return remote.Get[domain.ShoppingItem](ctx, s.client, "/items?listId="+url.QueryEscape(listID))
}
