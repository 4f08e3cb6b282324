package router

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-shoplist/internal/core/cache"
	"go-shoplist/internal/domain"
	"go-shoplist/internal/repo"
	resp "go-shoplist/internal/transport/http/response"
)

type resourceHandler struct {
	store    repo.Store
	cache    *cache.Cache
	cacheTTL time.Duration
	log      *zap.Logger
}

func (h *resourceHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, resp.Error(resp.CodeNotFound, ""))
		return
	}
	h.log.Error("store error", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, resp.Error(resp.CodeServerError, ""))
}

func bindPatch(c *gin.Context) (map[string]any, bool) {
	patch := map[string]any{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
		return nil, false
	}
	// id 不可被改写
	delete(patch, "id")
	return patch, true
}

// ---------- users ----------

func (h *resourceHandler) listUsers(c *gin.Context) {
	out, err := h.store.ListUsers(c, repo.UserFilter{
		Email: c.Query("email"),
		Cell:  c.Query("cell"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *resourceHandler) getUser(c *gin.Context) {
	u, err := h.store.GetUser(c, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *resourceHandler) createUser(c *gin.Context) {
	var u domain.User
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}
	created, err := h.store.CreateUser(c, u)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *resourceHandler) patchUser(c *gin.Context) {
	patch, ok := bindPatch(c)
	if !ok {
		return
	}
	u, err := h.store.PatchUser(c, c.Param("id"), patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *resourceHandler) putUser(c *gin.Context) {
	var u domain.User
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}
	out, err := h.store.PutUser(c, c.Param("id"), u)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ---------- lists ----------

func shareCacheKey(token string) string { return "share:" + token }

func (h *resourceHandler) listLists(c *gin.Context) {
	f := repo.ListFilter{
		UserID:     c.Query("userId"),
		ShareToken: c.Query("shareToken"),
	}

	// 公共分享链接是唯一的未鉴权热路径，按 token 走缓存
	if f.ShareToken != "" && f.UserID == "" && h.cache != nil {
		out, err := cache.GetOrLoadJSON[[]domain.ShoppingList](h.cache, c, shareCacheKey(f.ShareToken), h.cacheTTL,
			func(ctx context.Context) (*[]domain.ShoppingList, error) {
				ls, e := h.store.ListLists(ctx, f)
				if e != nil {
					return nil, e
				}
				return &ls, nil
			})
		if err != nil {
			h.fail(c, err)
			return
		}
		if out == nil {
			c.JSON(http.StatusOK, []domain.ShoppingList{})
			return
		}
		c.JSON(http.StatusOK, *out)
		return
	}

	out, err := h.store.ListLists(c, f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *resourceHandler) getList(c *gin.Context) {
	l, err := h.store.GetList(c, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *resourceHandler) createList(c *gin.Context) {
	var l domain.ShoppingList
	if err := c.ShouldBindJSON(&l); err != nil {
		c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}
	created, err := h.store.CreateList(c, l)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// invalidateShare 列表变更后清理新旧 token 的缓存
func (h *resourceHandler) invalidateShare(c *gin.Context, tokens ...string) {
	if h.cache == nil {
		return
	}
	keys := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t != "" {
			keys = append(keys, shareCacheKey(t))
		}
	}
	h.cache.Invalidate(c, keys...)
}

func (h *resourceHandler) patchList(c *gin.Context) {
	patch, ok := bindPatch(c)
	if !ok {
		return
	}
	old, _ := h.store.GetList(c, c.Param("id"))
	l, err := h.store.PatchList(c, c.Param("id"), patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	if old != nil {
		h.invalidateShare(c, old.ShareToken, l.ShareToken)
	}
	c.JSON(http.StatusOK, l)
}

func (h *resourceHandler) putList(c *gin.Context) {
	var l domain.ShoppingList
	if err := c.ShouldBindJSON(&l); err != nil {
		c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}
	old, _ := h.store.GetList(c, c.Param("id"))
	out, err := h.store.PutList(c, c.Param("id"), l)
	if err != nil {
		h.fail(c, err)
		return
	}
	if old != nil {
		h.invalidateShare(c, old.ShareToken, out.ShareToken)
	}
	c.JSON(http.StatusOK, out)
}

func (h *resourceHandler) deleteList(c *gin.Context) {
	old, _ := h.store.GetList(c, c.Param("id"))
	if err := h.store.DeleteList(c, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	if old != nil {
		h.invalidateShare(c, old.ShareToken)
	}
	c.JSON(http.StatusOK, gin.H{})
}

// ---------- items ----------

func (h *resourceHandler) listItems(c *gin.Context) {
	out, err := h.store.ListItems(c, repo.ItemFilter{ListID: c.Query("listId")})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *resourceHandler) getItem(c *gin.Context) {
	it, err := h.store.GetItem(c, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *resourceHandler) createItem(c *gin.Context) {
	var it domain.ShoppingItem
	if err := c.ShouldBindJSON(&it); err != nil {
		c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}
	created, err := h.store.CreateItem(c, it)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *resourceHandler) patchItem(c *gin.Context) {
	patch, ok := bindPatch(c)
	if !ok {
		return
	}
	it, err := h.store.PatchItem(c, c.Param("id"), patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *resourceHandler) putItem(c *gin.Context) {
	var it domain.ShoppingItem
	if err := c.ShouldBindJSON(&it); err != nil {
		c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}
	out, err := h.store.PutItem(c, c.Param("id"), it)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *resourceHandler) deleteItem(c *gin.Context) {
	if err := h.store.DeleteItem(c, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
