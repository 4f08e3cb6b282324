package repo

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"go-shoplist/internal/domain"
	"go-shoplist/pkg/utils"
)

// Memory json-server 风格的内存资源库，可选落盘快照（db.json）。
// 集合内保持插入序，保证同参数多次 GET 返回顺序一致。
type Memory struct {
	mu    sync.RWMutex
	users []domain.User
	lists []domain.ShoppingList
	items []domain.ShoppingItem

	file string
	log  *zap.Logger
}

// snapshot 落盘格式，与 json-server 的 db.json 对齐
type snapshot struct {
	Users []domain.User         `json:"users"`
	Lists []domain.ShoppingList `json:"lists"`
	Items []domain.ShoppingItem `json:"items"`
}

func NewMemory(file string, log *zap.Logger) (*Memory, error) {
	m := &Memory{file: file, log: log}
	if file == "" {
		return m, nil
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, err
	}
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, err
	}
	m.users, m.lists, m.items = snap.Users, snap.Lists, snap.Items
	return m, nil
}

// persist 调用方需持有写锁。快照写失败只告警，不影响本次变更。
func (m *Memory) persist() {
	if m.file == "" {
		return
	}
	raw, err := json.MarshalIndent(snapshot{Users: m.users, Lists: m.lists, Items: m.items}, "", "  ")
	if err == nil {
		_ = os.MkdirAll(filepath.Dir(m.file), 0o755)
		err = os.WriteFile(m.file, raw, 0o644)
	}
	if err != nil && m.log != nil {
		m.log.Warn("snapshot write failed", zap.String("file", m.file), zap.Error(err))
	}
}

// ---------- users ----------

func (m *Memory) ListUsers(_ context.Context, f UserFilter) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		if f.Email != "" && u.Email != f.Email {
			continue
		}
		if f.Cell != "" && u.Cell != f.Cell {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (m *Memory) GetUser(_ context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.ID == id {
			cp := u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *Memory) CreateUser(_ context.Context, u domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = utils.NewID()
	}
	m.users = append(m.users, u)
	m.persist()
	return u, nil
}

func (m *Memory) PatchUser(_ context.Context, id string, patch map[string]any) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, u := range m.users {
		if u.ID != id {
			continue
		}
		merged, err := mergePatch(u, patch)
		if err != nil {
			return nil, err
		}
		merged.ID = id
		m.users[i] = merged
		m.persist()
		cp := merged
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (m *Memory) PutUser(_ context.Context, id string, u domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, old := range m.users {
		if old.ID != id {
			continue
		}
		u.ID = id
		m.users[i] = u
		m.persist()
		cp := u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

// ---------- lists ----------

func (m *Memory) ListLists(_ context.Context, f ListFilter) ([]domain.ShoppingList, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.ShoppingList, 0, len(m.lists))
	for _, l := range m.lists {
		if f.UserID != "" && l.UserID != f.UserID {
			continue
		}
		if f.ShareToken != "" && l.ShareToken != f.ShareToken {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (m *Memory) GetList(_ context.Context, id string) (*domain.ShoppingList, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.lists {
		if l.ID == id {
			cp := l
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *Memory) CreateList(_ context.Context, l domain.ShoppingList) (domain.ShoppingList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l.ID == "" {
		l.ID = utils.NewID()
	}
	m.lists = append(m.lists, l)
	m.persist()
	return l, nil
}

func (m *Memory) PatchList(_ context.Context, id string, patch map[string]any) (*domain.ShoppingList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.lists {
		if l.ID != id {
			continue
		}
		merged, err := mergePatch(l, patch)
		if err != nil {
			return nil, err
		}
		merged.ID = id
		m.lists[i] = merged
		m.persist()
		cp := merged
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (m *Memory) PutList(_ context.Context, id string, l domain.ShoppingList) (*domain.ShoppingList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, old := range m.lists {
		if old.ID != id {
			continue
		}
		l.ID = id
		m.lists[i] = l
		m.persist()
		cp := l
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (m *Memory) DeleteList(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.lists {
		if l.ID == id {
			m.lists = append(m.lists[:i], m.lists[i+1:]...)
			m.persist()
			return nil
		}
	}
	return domain.ErrNotFound
}

// ---------- items ----------

func (m *Memory) ListItems(_ context.Context, f ItemFilter) ([]domain.ShoppingItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.ShoppingItem, 0, len(m.items))
	for _, it := range m.items {
		if f.ListID != "" && it.ListID != f.ListID {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (m *Memory) GetItem(_ context.Context, id string) (*domain.ShoppingItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, it := range m.items {
		if it.ID == id {
			cp := it
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *Memory) CreateItem(_ context.Context, it domain.ShoppingItem) (domain.ShoppingItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if it.ID == "" {
		it.ID = utils.NewID()
	}
	m.items = append(m.items, it)
	m.persist()
	return it, nil
}

func (m *Memory) PatchItem(_ context.Context, id string, patch map[string]any) (*domain.ShoppingItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, it := range m.items {
		if it.ID != id {
			continue
		}
		merged, err := mergePatch(it, patch)
		if err != nil {
			return nil, err
		}
		merged.ID = id
		m.items[i] = merged
		m.persist()
		cp := merged
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (m *Memory) PutItem(_ context.Context, id string, it domain.ShoppingItem) (*domain.ShoppingItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, old := range m.items {
		if old.ID != id {
			continue
		}
		it.ID = id
		m.items[i] = it
		m.persist()
		cp := it
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (m *Memory) DeleteItem(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, it := range m.items {
		if it.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			m.persist()
			return nil
		}
	}
	return domain.ErrNotFound
}
