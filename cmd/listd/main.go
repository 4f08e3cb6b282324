package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"go-shoplist/internal/core/cache"
	"go-shoplist/internal/core/config"
	"go-shoplist/internal/core/database"
	"go-shoplist/internal/core/logger"
	"go-shoplist/internal/core/server"
	"go-shoplist/internal/repo"
	"go-shoplist/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))

	log, cleanup := buildLogger(cfg)
	defer cleanup()

	st := mustOpenStore(cfg, log)

	// redis 留空则分享链接查询不走缓存
	var c *cache.Cache
	if cfg.Redis.Addr != "" {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		log.Info("share cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	r := router.New(log, router.Options{
		Store:    st,
		Cache:    c,
		CacheTTL: time.Duration(cfg.Redis.TTLSec) * time.Second,
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.Build(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	log.Info("listd starting",
		zap.String("addr", addr),
		zap.String("driver", cfg.DB.Driver),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listd start FAILED", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("listd stopped gracefully")
}

func buildLogger(cfg *config.Config) (*zap.Logger, func()) {
	if cfg.Log.File != "" {
		return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{
			Enable:     true,
			Filename:   cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		})
	}
	return logger.New(cfg.Log.Level, cfg.Log.JSON)
}

func mustOpenStore(cfg *config.Config, log *zap.Logger) repo.Store {
	switch cfg.DB.Driver {
	case "memory", "":
		m, err := repo.NewMemory(cfg.DB.File, log)
		if err != nil {
			log.Fatal("open snapshot failed", zap.String("file", cfg.DB.File), zap.Error(err))
		}
		return m
	default:
		db, err := database.NewGorm(database.Opts{
			Driver:             cfg.DB.Driver,
			DSN:                cfg.DB.DSN,
			MaxOpenConns:       cfg.DB.MaxOpenConns,
			MaxIdleConns:       cfg.DB.MaxIdleConns,
			ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
			LogLevel:           cfg.DB.LogLevel,
		})
		if err != nil {
			log.Fatal("db open failed", zap.Error(err))
		}
		g := repo.NewGorm(db)
		if cfg.DB.AutoMigrate {
			if err := g.AutoMigrate(); err != nil {
				log.Fatal("automigrate failed", zap.Error(err))
			}
			log.Info("automigrate done")
		}
		return g
	}
}
