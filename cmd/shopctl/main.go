package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-shoplist/internal/core/config"
	"go-shoplist/internal/core/logger"
	"go-shoplist/internal/domain"
	"go-shoplist/internal/remote"
	"go-shoplist/internal/session"
	"go-shoplist/internal/store"
)

// app 一次调用周期里的全部依赖：客户端、三个 store、会话文件
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	close func()

	auth  *store.Auth
	lists *store.Lists
	items *store.Items
}

func newApp() *app {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))

	// CLI 场景默认只打告警，避免污染输出
	level := cfg.Log.Level
	if os.Getenv("SHOPCTL_DEBUG") == "" {
		level = "warn"
	}
	log, cleanup := logger.New(level, cfg.Log.JSON)

	client := remote.NewClient(cfg.Client.BaseURL, time.Duration(cfg.Client.TimeoutSec)*time.Second, log)
	sess := session.NewStore(cfg.Client.SessionFile)

	return &app{
		cfg:   cfg,
		log:   log,
		close: cleanup,
		auth:  store.NewAuth(client, sess, log),
		lists: store.NewLists(client, log),
		items: store.NewItems(client, log),
	}
}

// requireUser 需要登录态的命令统一走这里
func (a *app) requireUser() (domain.SafeUser, error) {
	st := a.auth.State()
	if st.User == nil {
		return domain.SafeUser{}, fmt.Errorf("not logged in (run `shopctl login` first)")
	}
	return *st.User, nil
}

func main() {
	a := newApp()
	defer a.close()

	root := &cobra.Command{
		Use:           "shopctl",
		Short:         "Shopping list manager CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newRegisterCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newProfileCmd(a),
		newListCmd(a),
		newItemCmd(a),
		newShareCmd(a),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
