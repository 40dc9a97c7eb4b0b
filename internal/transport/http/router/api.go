package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"credlocker/internal/core/auth"
	"credlocker/internal/core/cache"
	"credlocker/internal/domain"
	"credlocker/internal/gamify"
	"credlocker/internal/ipqs"
	"credlocker/internal/track"
	mdw "credlocker/internal/transport/http/middleware"
)

// Deps 用户端引擎的全部依赖；Cache / Track / IPQS 可为 nil（对应能力关闭）
type Deps struct {
	Log     *zap.Logger
	Store   domain.UserStore
	Catalog domain.TaskCatalog
	Gamify  *gamify.Service
	JWTer   *auth.JWTer
	IPQS    *ipqs.Client
	Cache   *cache.Cache
	Track   *track.Repo
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(15*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	// 追踪口挂在根路径（目标用户直接点进来，不带 token）
	mountTrackRoute(r, d.Track, d.Log)

	api := r.Group("/api/v1")

	// 鉴权分组（/me、任务、排行榜、工具都要登录）
	authUser := api.Group("")
	authUser.Use(mdw.AuthJWT(d.JWTer, ""))

	mountAuthActions(api, authUser, d.Store, d.JWTer, d.Log)
	mountGamifyActions(authUser, d.Gamify, d.Catalog, d.Store, d.Cache)
	mountCampaignActions(authUser)
	if d.IPQS != nil {
		mountToolActions(authUser, d.IPQS, d.Log)
	}

	return r
}
