package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-shoplist/internal/domain"
)

// Error 单次远端调用失败的上下文。统一挂在 domain.ErrRemote 下，
// 调用方用 errors.Is 判类，store 层决定是否回滚本地状态。
type Error struct {
	Op     string
	Path   string
	Status int // 0 表示网络层失败
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote %s %s: status %d", e.Op, e.Path, e.Status)
	}
	return fmt.Sprintf("remote %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return domain.ErrRemote
}

// Client 面向具名 REST 集合的通用客户端。不重试、不缓存，
// 每次调用就是一次往返；对领域类型一无所知。
type Client struct {
	base string
	hc   *http.Client
	log  *zap.Logger
}

func NewClient(base string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: timeout},
		log:  log,
	}
}

func (c *Client) do(ctx context.Context, op, method, path string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, Path: path, Err: err}
		}
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return &Error{Op: op, Path: path, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	res, err := c.hc.Do(req)
	if err != nil {
		c.log.Debug("remote call failed", zap.String("op", op), zap.String("path", path), zap.Error(err))
		return &Error{Op: op, Path: path, Err: fmt.Errorf("%w: %v", domain.ErrRemote, err)}
	}
	defer res.Body.Close()

	c.log.Debug("remote call",
		zap.String("op", op),
		zap.String("path", path),
		zap.Int("status", res.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		// body 丢弃，失败语义只看状态码
		_, _ = io.Copy(io.Discard, res.Body)
		return &Error{Op: op, Path: path, Status: res.StatusCode, Err: domain.ErrRemote}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &Error{Op: op, Path: path, Err: err}
	}
	return nil
}

// Get GET path → T 列表（集合端点总是返回数组）
func Get[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var out []T
	if err := c.do(ctx, "get", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetOne GET path → 单个文档
func GetOne[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out T
	err := c.do(ctx, "get", http.MethodGet, path, nil, &out)
	return out, err
}

func Post[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	var out T
	err := c.do(ctx, "post", http.MethodPost, path, body, &out)
	return out, err
}

func Patch[T any](ctx context.Context, c *Client, path string, partial any) (T, error) {
	var out T
	err := c.do(ctx, "patch", http.MethodPatch, path, partial, &out)
	return out, err
}

func Put[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	var out T
	err := c.do(ctx, "put", http.MethodPut, path, body, &out)
	return out, err
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, "delete", http.MethodDelete, path, nil, nil)
}
