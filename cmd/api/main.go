package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"credlocker/internal/core/auth"
	"credlocker/internal/core/cache"
	"credlocker/internal/core/config"
	"credlocker/internal/core/database"
	"credlocker/internal/core/logger"
	"credlocker/internal/core/server"
	"credlocker/internal/gamify"
	"credlocker/internal/ipqs"
	"credlocker/internal/store"
	"credlocker/internal/track"
	"credlocker/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := newLogger(cfg)
	defer cleanup()

	// 用户存储（JSON 文件，整份常驻内存）
	seed := cfg.Store.SeedDefaults && cfg.App.Env != "prod"
	st, err := store.Open(store.Options{
		Path:           cfg.Store.Path,
		SeedDefaults:   seed,
		MinPasswordLen: cfg.Store.MinPasswordLen,
		Logger:         log,
	})
	if err != nil {
		log.Fatal("user store open", zap.Error(err))
	}
	log.Info("user store loaded", zap.String("path", cfg.Store.Path))

	// JWT
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	// 进度引擎
	catalog := gamify.NewCatalog()
	svc := gamify.NewService(st, catalog)

	// 可选能力：排行榜缓存 / 点击埋点 / 信誉查询
	var ch *cache.Cache
	if cfg.Redis.Addr != "" {
		ch = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		log.Info("leaderboard cache enabled", zap.String("redis", cfg.Redis.Addr))
	}

	var trackRepo *track.Repo
	if cfg.DB.Enabled {
		db, err := database.NewGorm(database.Opts{
			Driver:             cfg.DB.Driver,
			DSN:                cfg.DB.DSN,
			MaxOpenConns:       cfg.DB.MaxOpenConns,
			MaxIdleConns:       cfg.DB.MaxIdleConns,
			ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
			LogLevel:           cfg.DB.LogLevel,
		})
		if err != nil {
			log.Fatal("db open", zap.Error(err))
		}
		trackRepo = track.NewRepo(db)
		if cfg.DB.AutoMigrate {
			if err := trackRepo.Migrate(); err != nil {
				log.Fatal("automigrate failed", zap.Error(err))
			}
		}
		log.Info("click tracking enabled", zap.String("driver", cfg.DB.Driver))
	}

	var ipqsCli *ipqs.Client
	if cfg.IPQS.APIKey != "" {
		ipqsCli = ipqs.New(cfg.IPQS.APIKey, cfg.IPQS.BaseURL, time.Duration(cfg.IPQS.TimeoutSec)*time.Second)
	} else {
		log.Warn("ipqs api key missing, security tools disabled")
	}

	r := router.NewAPIEngine(router.Deps{
		Log:     log,
		Store:   st,
		Catalog: catalog,
		Gamify:  svc,
		JWTer:   jwter,
		IPQS:    ipqsCli,
		Cache:   ch,
		Track:   trackRepo,
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("credlocker api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("credlocker api start FAILED", zap.Error(err))
		}
	}()
	log.Info("credlocker api started SUCCESS")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("credlocker api stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	if cfg.Log.Rotate.Filename == "" {
		return logger.New(cfg.Log.Level, cfg.Log.JSON)
	}
	return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{
		Enable:     true,
		Filename:   cfg.Log.Rotate.Filename,
		MaxSizeMB:  cfg.Log.Rotate.MaxSizeMB,
		MaxBackups: cfg.Log.Rotate.MaxBackups,
		MaxAgeDays: cfg.Log.Rotate.MaxAgeDays,
		Compress:   cfg.Log.Rotate.Compress,
	})
}
