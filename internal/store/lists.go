package store

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go-shoplist/internal/domain"
	"go-shoplist/internal/remote"
	"go-shoplist/pkg/utils"
)

const (
	msgFetchListsFailed = "Failed to load lists."
	msgAddListFailed    = "Failed to add list."
	msgUpdateListFailed = "Failed to update list."
	msgDeleteListFailed = "Failed to delete list."
	msgShareListFailed  = "Failed to generate share link."
)

// 级联删除条目时的最大并发数
const cascadeConcurrency = 8

// ListsState 列表集合状态快照。SelectedListID 为空串表示无选中。
type ListsState struct {
	Lists          []domain.ShoppingList
	SelectedListID string
	Loading        bool
	Error          string
}

// Lists 购物清单 store：CRUD + 选中项 + 分享 token。
// 变更在各自远端调用成功返回的时刻落到内存集合上，后完成者胜出。
type Lists struct {
	mu     sync.Mutex
	state  ListsState
	client *remote.Client
	log    *zap.Logger
}

func NewLists(client *remote.Client, log *zap.Logger) *Lists {
	return &Lists{client: client, log: log}
}

func (s *Lists) State() ListsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Lists = append([]domain.ShoppingList(nil), s.state.Lists...)
	return st
}

// SelectedList 当前选中的清单（无选中或已不存在时返回 nil）
func (s *Lists) SelectedList() *domain.ShoppingList {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.SelectedListID == "" {
		return nil
	}
	for _, l := range s.state.Lists {
		if l.ID == s.state.SelectedListID {
			cp := l
			return &cp
		}
	}
	return nil
}

func (s *Lists) ClearError() {
	s.mu.Lock()
	s.state.Error = ""
	s.mu.Unlock()
}

// ClearState 登出时整体复位
func (s *Lists) ClearState() {
	s.mu.Lock()
	s.state = ListsState{}
	s.mu.Unlock()
}

// SelectList 纯 UI 状态切换，不发远端请求。空串清除选中。
func (s *Lists) SelectList(id string) {
	s.mu.Lock()
	s.state.SelectedListID = id
	s.mu.Unlock()
}

func (s *Lists) begin() {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Error = ""
	s.mu.Unlock()
}

func (s *Lists) reject(msg string, err error) error {
	s.mu.Lock()
	s.state.Loading = false
	s.state.Error = msg
	s.mu.Unlock()
	return err
}

// reconcileSelection 调用方需持有锁。无选中则选第一个；
// 选中的已消失则改选剩余的第一个（或清空）。
func (s *Lists) reconcileSelection() {
	if s.state.SelectedListID == "" {
		if len(s.state.Lists) > 0 {
			s.state.SelectedListID = s.state.Lists[0].ID
		}
		return
	}
	for _, l := range s.state.Lists {
		if l.ID == s.state.SelectedListID {
			return
		}
	}
	if len(s.state.Lists) > 0 {
		s.state.SelectedListID = s.state.Lists[0].ID
	} else {
		s.state.SelectedListID = ""
	}
}

// FetchLists 全量替换为 userID 名下的清单（后端不做 join，
// 客户端拉全集后按 userId 过滤），随后做一次选中项校正。
func (s *Lists) FetchLists(ctx context.Context, userID string) error {
	s.begin()

	all, err := remote.Get[domain.ShoppingList](ctx, s.client, "/lists")
	if err != nil {
		return s.reject(msgFetchListsFailed, err)
	}
	mine := make([]domain.ShoppingList, 0, len(all))
	for _, l := range all {
		if l.UserID == userID {
			mine = append(mine, l)
		}
	}

	s.mu.Lock()
	s.state.Loading = false
	s.state.Lists = mine
	s.reconcileSelection()
	s.mu.Unlock()
	return nil
}

// AddList 新建清单，成功后插到头部并立即选中
func (s *Lists) AddList(ctx context.Context, userID, name string) (domain.ShoppingList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ShoppingList{}, validationErr("list name is required")
	}

	s.begin()
	now := nowISO()
	created, err := remote.Post[domain.ShoppingList](ctx, s.client, "/lists", domain.ShoppingList{
		ID:        utils.NewID(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return domain.ShoppingList{}, s.reject(msgAddListFailed, err)
	}

	s.mu.Lock()
	s.state.Loading = false
	s.state.Lists = append([]domain.ShoppingList{created}, s.state.Lists...)
	s.state.SelectedListID = created.ID
	s.mu.Unlock()
	return created, nil
}

// UpdateList 改名，原位替换，不动选中项
func (s *Lists) UpdateList(ctx context.Context, id, name string) (domain.ShoppingList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ShoppingList{}, validationErr("list name is required")
	}

	updated, err := remote.Patch[domain.ShoppingList](ctx, s.client, "/lists/"+id, map[string]any{
		"name":      name,
		"updatedAt": nowISO(),
	})
	if err != nil {
		return domain.ShoppingList{}, s.reject(msgUpdateListFailed, err)
	}

	s.mu.Lock()
	for i, l := range s.state.Lists {
		if l.ID == updated.ID {
			s.state.Lists[i] = updated
			break
		}
	}
	s.mu.Unlock()
	return updated, nil
}

// DeleteList 删除清单。alsoDeleteItems 时先并发删除名下条目
// （best-effort，无事务）；任何一条失败则聚合报错并保留清单本体，
// 已删掉的条目不回滚。成功后按需改选。
func (s *Lists) DeleteList(ctx context.Context, id string, alsoDeleteItems bool) error {
	s.begin()

	if alsoDeleteItems {
		items, err := remote.Get[domain.ShoppingItem](ctx, s.client, "/items?listId="+url.QueryEscape(id))
		if err != nil {
			return s.reject(msgDeleteListFailed, err)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cascadeConcurrency)
		var failed int
		var mu sync.Mutex
		for _, it := range items {
			itemID := it.ID
			g.Go(func() error {
				if err := s.client.Delete(gctx, "/items/"+itemID); err != nil {
					mu.Lock()
					failed++
					mu.Unlock()
					return err
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			s.log.Warn("cascade delete incomplete",
				zap.String("list", id),
				zap.Int("failed", failed),
				zap.Int("total", len(items)),
			)
			return s.reject(msgDeleteListFailed,
				fmt.Errorf("cascade delete: %d of %d items failed: %w", failed, len(items), err))
		}
	}

	if err := s.client.Delete(ctx, "/lists/"+id); err != nil {
		return s.reject(msgDeleteListFailed, err)
	}

	s.mu.Lock()
	s.state.Loading = false
	kept := s.state.Lists[:0]
	for _, l := range s.state.Lists {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	s.state.Lists = kept
	if s.state.SelectedListID == id {
		if len(kept) > 0 {
			s.state.SelectedListID = kept[0].ID
		} else {
			s.state.SelectedListID = ""
		}
	}
	s.mu.Unlock()
	return nil
}

// ShareList 生成新 token 并挂到清单上。重复调用会生成不同 token，
// 后写的生效；返回更新后的清单，调用方可直接读 token。
func (s *Lists) ShareList(ctx context.Context, id string) (domain.ShoppingList, error) {
	s.begin()

	updated, err := remote.Patch[domain.ShoppingList](ctx, s.client, "/lists/"+id, map[string]any{
		"shareToken": utils.NewShareToken(),
		"updatedAt":  nowISO(),
	})
	if err != nil {
		return domain.ShoppingList{}, s.reject(msgShareListFailed, err)
	}

	s.mu.Lock()
	s.state.Loading = false
	for i, l := range s.state.Lists {
		if l.ID == updated.ID {
			s.state.Lists[i] = updated
			break
		}
	}
	s.mu.Unlock()
	return updated, nil
}

// FetchListByShareToken 公共只读入口：按 token 取清单，无需登录
func (s *Lists) FetchListByShareToken(ctx context.Context, token string) (*domain.ShoppingList, error) {
	out, err := remote.Get[domain.ShoppingList](ctx, s.client, "/lists?shareToken="+url.QueryEscape(token))
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, domain.ErrNotFound
	}
	cp := out[0]
	return &cp, nil
}
