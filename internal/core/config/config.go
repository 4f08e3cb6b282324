package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type Log struct {
	Level string
	JSON  bool

	// 文件切割（可选）
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type DB struct {
	// memory：json-server 风格内存库（可选 File 落盘快照）
	// mysql / postgres：走 gorm
	Driver             string
	DSN                string
	File               string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Redis struct {
	Addr     string `mapstructure:"addr"` // 留空禁用缓存
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTLSec   int    `mapstructure:"ttl_sec"`
}

// Client shopctl 客户端侧配置
type Client struct {
	BaseURL     string `mapstructure:"base_url"`
	SessionFile string `mapstructure:"session_file"`
	TimeoutSec  int    `mapstructure:"timeout_sec"`
}

type Config struct {
	App    App
	Log    Log
	DB     DB
	Redis  Redis  `mapstructure:"redis"`
	Client Client `mapstructure:"client"`
}

func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 默认值
	v.SetDefault("app.http.host", "127.0.0.1")
	v.SetDefault("app.http.port", 3001)
	v.SetDefault("app.http.readtimeoutsec", 10)
	v.SetDefault("app.http.writetimeoutsec", 10)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("db.driver", "memory")
	v.SetDefault("db.automigrate", true)
	v.SetDefault("redis.ttl_sec", 60)
	v.SetDefault("client.base_url", "http://127.0.0.1:3001")
	v.SetDefault("client.session_file", defaultSessionFile())
	v.SetDefault("client.timeout_sec", 10)

	if err := v.ReadInConfig(); err != nil {
		// 配置文件缺失时允许全默认启动（shopctl 常见场景）
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			log.Fatalf("read config: %v", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	return &c
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shoplist_session.json"
	}
	return home + "/.shoplist/session.json"
}
