package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"credlocker/internal/core/auth"
	"credlocker/internal/core/server"
	"credlocker/internal/domain"
	"credlocker/internal/track"
	httpez "credlocker/internal/transport/http/ez"
	mdw "credlocker/internal/transport/http/middleware"
)

func NewAdminEngine(l *zap.Logger, st domain.UserStore, trackRepo *track.Repo, jwter *auth.JWTer) *gin.Engine {
	r := server.NewBaseEngine(l)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 管理端 v1，统一要求 admin 角色
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, domain.RoleAdmin))
	ezAdmin := httpez.New(admin)

	ezAdmin.GET("/users", func(c *gin.Context) (any, error) {
		return st.AllUsers(), nil
	})

	// 点击埋点列表（埋点库未启用时回空集）
	type clicksQ struct {
		Offset int `form:"offset,default=0"`
		Limit  int `form:"limit,default=20"`
	}
	type clicksOut struct {
		Total int64              `json:"total"`
		Items []track.ClickEvent `json:"items"`
	}
	httpez.RegisterAction[clicksQ, clicksOut](ezAdmin, httpez.Action[clicksQ, clicksOut]{
		Method: http.MethodGet,
		Path:   "/clicks",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *clicksQ) (clicksOut, error) {
			if trackRepo == nil {
				return clicksOut{Items: []track.ClickEvent{}}, nil
			}
			if in.Limit <= 0 || in.Limit > 100 {
				in.Limit = 20
			}
			evs, total, err := trackRepo.List(in.Offset, in.Limit)
			if err != nil {
				return clicksOut{}, httpez.Internal("list clicks failed", err)
			}
			return clicksOut{Total: total, Items: evs}, nil
		},
	})

	return r
}
