package router

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"credlocker/internal/core/cache"
	"credlocker/internal/domain"
	"credlocker/internal/gamify"
	httpez "credlocker/internal/transport/http/ez"
)

const leaderboardTTL = 10 * time.Second

func mountGamifyActions(authUser *gin.RouterGroup, svc *gamify.Service, catalog domain.TaskCatalog, st domain.UserStore, ch *cache.Cache) {
	ezAuth := httpez.New(authUser)

	ezAuth.GET("/tasks", func(c *gin.Context) (any, error) {
		return catalog.AllTasks(), nil
	})

	httpez.RegisterAction[struct{}, domain.Task](ezAuth, httpez.Action[struct{}, domain.Task]{
		Method: http.MethodGet,
		Path:   "/tasks/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (domain.Task, error) {
			t, ok := catalog.TaskByID(c.Param("id"))
			if !ok {
				return domain.Task{}, httpez.NotFound("task not found")
			}
			return t, nil
		},
	})

	type completeIn struct {
		TaskID string `json:"taskId" binding:"required"`
	}
	httpez.RegisterAction[completeIn, gamify.CompleteResult](ezAuth, httpez.Action[completeIn, gamify.CompleteResult]{
		Method: http.MethodPost,
		Path:   "/tasks/complete",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *completeIn) (gamify.CompleteResult, error) {
			res, err := svc.CompleteTask(c.GetInt64("userId"), in.TaskID)
			switch {
			case errors.Is(err, gamify.ErrTaskNotFound):
				return gamify.CompleteResult{}, httpez.NotFound("task not found")
			case errors.Is(err, domain.ErrUserNotFound):
				return gamify.CompleteResult{}, httpez.NotFound("user not found")
			case err != nil:
				return gamify.CompleteResult{}, httpez.Internal("complete task failed", err)
			}
			return res, nil
		},
	})

	// 排行榜：有 redis 时短 TTL 缓存，singleflight 合并回源
	ezAuth.GET("/leaderboard", func(c *gin.Context) (any, error) {
		if ch == nil {
			return svc.Leaderboard(), nil
		}
		return cache.GetOrLoadJSON(ch, c.Request.Context(), "credlocker:leaderboard", leaderboardTTL,
			func(ctx context.Context) ([]domain.LeaderboardEntry, error) {
				return svc.Leaderboard(), nil
			})
	})

	// 用户列表：仅 admin（原系统 /users 页面的数据源）
	httpez.RegisterAction[struct{}, []domain.PublicUser](ezAuth, httpez.Action[struct{}, []domain.PublicUser]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindNone,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.PublicUser, error) {
			return st.AllUsers(), nil
		},
	})
}
