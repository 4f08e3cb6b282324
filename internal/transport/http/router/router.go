package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-shoplist/internal/core/cache"
	"go-shoplist/internal/repo"
	mdw "go-shoplist/internal/transport/http/middleware"
)

type Options struct {
	Store    repo.Store
	Cache    *cache.Cache // 可为 nil，分享链接查询不走缓存
	CacheTTL time.Duration
}

// New 组装资源后端引擎。接口形状对齐 json-server：
// 三张扁平集合 + 查询参数过滤，成功时返回裸文档。
func New(l *zap.Logger, opt Options) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimitPerIP(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		ginzap.Ginzap(l, time.RFC3339, true),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := &resourceHandler{
		store:    opt.Store,
		cache:    opt.Cache,
		cacheTTL: opt.CacheTTL,
		log:      l,
	}

	r.GET("/users", h.listUsers)
	r.POST("/users", h.createUser)
	r.GET("/users/:id", h.getUser)
	r.PATCH("/users/:id", h.patchUser)
	r.PUT("/users/:id", h.putUser)

	r.GET("/lists", h.listLists)
	r.POST("/lists", h.createList)
	r.GET("/lists/:id", h.getList)
	r.PATCH("/lists/:id", h.patchList)
	r.PUT("/lists/:id", h.putList)
	r.DELETE("/lists/:id", h.deleteList)

	r.GET("/items", h.listItems)
	r.POST("/items", h.createItem)
	r.GET("/items/:id", h.getItem)
	r.PATCH("/items/:id", h.patchItem)
	r.PUT("/items/:id", h.putItem)
	r.DELETE("/items/:id", h.deleteItem)

	return r
}
