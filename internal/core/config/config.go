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
type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string // dev / prod
	HTTP  HTTP
	Admin AdminHTTP
}

type LogRotate struct {
	Filename   string `mapstructure:"filename"` // 留空 = 只打 stdout
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type Log struct {
	Level  string
	JSON   bool
	Rotate LogRotate `mapstructure:"rotate"`
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

// Store 用户存储：单个 JSON 文件，整份读写
type Store struct {
	Path           string `mapstructure:"path"`
	SeedDefaults   bool   `mapstructure:"seed_defaults"` // 仅限开发引导，生产必须关
	MinPasswordLen int    `mapstructure:"min_password_len"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"` // 留空 = 不启用排行榜缓存
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// DB 点击埋点库（可选）
type DB struct {
	Enabled            bool
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// IPQS 信誉查询上游（纯透传，无重试无缓存）
type IPQS struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
}

type Config struct {
	App   App
	Log   Log
	JWT   JWT
	Store Store `mapstructure:"store"`
	Redis Redis `mapstructure:"redis"`
	DB    DB
	IPQS  IPQS `mapstructure:"ipqs"`
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

	v.SetDefault("store.path", "./data/users.json")
	v.SetDefault("store.min_password_len", 6)
	v.SetDefault("ipqs.base_url", "https://www.ipqualityscore.com/api/json")
	v.SetDefault("ipqs.timeout_sec", 10)

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	return &c
}
