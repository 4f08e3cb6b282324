package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go-shoplist/internal/domain"
)

// Store 持久化的本地会话（localStorage 的文件版）：
// 单个脱敏 User，固定路径，登录/注册/改资料成功后重写，登出删除。
type Store struct {
	path string
}

func NewStore(path string) *Store { return &Store{path: path} }

// Load 进程启动时恢复会话；文件不存在返回 nil 用户
func (s *Store) Load() (*domain.SafeUser, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var u domain.SafeUser
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &u, nil
}

func (s *Store) Save(u domain.SafeUser) error {
	raw, err := json.MarshalIndent(u, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear 同步删除会话文件（登出路径，不发远端请求）
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
