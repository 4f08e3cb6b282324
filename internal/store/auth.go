package store

import (
	"context"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"go-shoplist/internal/domain"
	"go-shoplist/internal/remote"
	"go-shoplist/internal/session"
	"go-shoplist/pkg/utils"
)

// 远端失败时暴露给用户的固定文案（与错误分类解耦）
const (
	msgRegisterFailed    = "Register failed."
	msgLoginFailed       = "Login failed."
	msgDuplicateEmail    = "Email already registered."
	msgDuplicateCell     = "Cell number already registered."
	msgInvalidCreds      = "Invalid email or password."
	msgProfileFailed     = "Failed to update profile."
	msgCredentialsFailed = "Failed to update credentials."
)

// AuthState 会话状态快照
type AuthState struct {
	User    *domain.SafeUser
	Loading bool
	Error   string
}

// Auth 会话管理：注册 / 登录 / 资料与凭据更新 / 登出。
// 当前用户是它的唯一归属；每次成功变更都会把脱敏会话重写到本地文件。
type Auth struct {
	mu      sync.Mutex
	state   AuthState
	client  *remote.Client
	session *session.Store
	log     *zap.Logger
}

// NewAuth 构造会话管理器，并从本地文件恢复既有会话
func NewAuth(client *remote.Client, sess *session.Store, log *zap.Logger) *Auth {
	a := &Auth{client: client, session: sess, log: log}
	if u, err := sess.Load(); err != nil {
		log.Warn("session restore failed", zap.Error(err))
	} else {
		a.state.User = u
	}
	return a
}

// State 返回状态副本（user 浅拷贝即可，SafeUser 无引用字段）
func (a *Auth) State() AuthState {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := a.state
	if a.state.User != nil {
		u := *a.state.User
		st.User = &u
	}
	return st
}

func (a *Auth) ClearError() {
	a.mu.Lock()
	a.state.Error = ""
	a.mu.Unlock()
}

func (a *Auth) begin() {
	a.mu.Lock()
	a.state.Loading = true
	a.state.Error = ""
	a.mu.Unlock()
}

func (a *Auth) reject(msg string, err error) error {
	a.mu.Lock()
	a.state.Loading = false
	a.state.Error = msg
	a.mu.Unlock()
	return err
}

func (a *Auth) fulfill(u domain.SafeUser) {
	a.mu.Lock()
	a.state.Loading = false
	a.state.User = &u
	a.mu.Unlock()
	if err := a.session.Save(u); err != nil {
		a.log.Warn("session persist failed", zap.Error(err))
	}
}

func usersByEmail(email string) string {
	return "/users?email=" + url.QueryEscape(email)
}

// Register 注册。邮箱 / 手机号重复检查是先查后插的 best-effort，
// 不是原子操作（接受竞态窗口）。
func (a *Auth) Register(ctx context.Context, req RegisterRequest) (domain.SafeUser, error) {
	a.begin()

	existing, err := remote.Get[domain.User](ctx, a.client, usersByEmail(req.Email))
	if err != nil {
		return domain.SafeUser{}, a.reject(msgRegisterFailed, err)
	}
	if len(existing) > 0 {
		return domain.SafeUser{}, a.reject(msgDuplicateEmail, domain.ErrDuplicateEmail)
	}
	if req.Cell != "" {
		same, err := remote.Get[domain.User](ctx, a.client, "/users?cell="+url.QueryEscape(req.Cell))
		if err != nil {
			return domain.SafeUser{}, a.reject(msgRegisterFailed, err)
		}
		if len(same) > 0 {
			return domain.SafeUser{}, a.reject(msgDuplicateCell, domain.ErrDuplicatePhone)
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return domain.SafeUser{}, a.reject(msgRegisterFailed, err)
	}

	now := nowISO()
	created, err := remote.Post[domain.User](ctx, a.client, "/users", domain.User{
		ID:           utils.NewID(),
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Surname:      req.Surname,
		Cell:         req.Cell,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return domain.SafeUser{}, a.reject(msgRegisterFailed, err)
	}

	safe := created.Sanitize()
	a.fulfill(safe)
	a.log.Info("user registered", zap.String("id", safe.ID))
	return safe, nil
}

// Login 登录。查无此邮箱和密码不匹配统一报 invalid credentials，
// 避免账号枚举。
func (a *Auth) Login(ctx context.Context, email, password string) (domain.SafeUser, error) {
	a.begin()

	users, err := remote.Get[domain.User](ctx, a.client, usersByEmail(email))
	if err != nil {
		return domain.SafeUser{}, a.reject(msgLoginFailed, err)
	}
	if len(users) == 0 || !utils.CheckPassword(password, users[0].PasswordHash) {
		return domain.SafeUser{}, a.reject(msgInvalidCreds, domain.ErrInvalidCredentials)
	}

	safe := users[0].Sanitize()
	a.fulfill(safe)
	a.log.Info("user logged in", zap.String("id", safe.ID))
	return safe, nil
}

// UpdateProfile 更新非凭据字段
func (a *Auth) UpdateProfile(ctx context.Context, id, name, surname, cell string) (domain.SafeUser, error) {
	a.begin()

	updated, err := remote.Patch[domain.User](ctx, a.client, "/users/"+id, map[string]any{
		"name":      name,
		"surname":   surname,
		"cell":      cell,
		"updatedAt": nowISO(),
	})
	if err != nil {
		return domain.SafeUser{}, a.reject(msgProfileFailed, err)
	}

	safe := updated.Sanitize()
	a.fulfill(safe)
	return safe, nil
}

// UpdateCredentials 更新邮箱；newPassword 非空时重新哈希后一并下发
func (a *Auth) UpdateCredentials(ctx context.Context, id, email, newPassword string) (domain.SafeUser, error) {
	a.begin()

	patch := map[string]any{
		"email":     email,
		"updatedAt": nowISO(),
	}
	if newPassword != "" {
		hash, err := utils.HashPassword(newPassword)
		if err != nil {
			return domain.SafeUser{}, a.reject(msgCredentialsFailed, err)
		}
		patch["passwordHash"] = hash
	}

	updated, err := remote.Patch[domain.User](ctx, a.client, "/users/"+id, patch)
	if err != nil {
		return domain.SafeUser{}, a.reject(msgCredentialsFailed, err)
	}

	safe := updated.Sanitize()
	a.fulfill(safe)
	return safe, nil
}

// Logout 同步清会话与本地文件，不发远端请求
func (a *Auth) Logout() {
	a.mu.Lock()
	a.state = AuthState{}
	a.mu.Unlock()
	if err := a.session.Clear(); err != nil {
		a.log.Warn("session clear failed", zap.Error(err))
	}
}
