package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	coreauth "credlocker/internal/core/auth"
	"credlocker/internal/domain"
	"credlocker/internal/gamify"
	"credlocker/internal/store"
	resp "credlocker/internal/transport/http/response"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.Open(store.Options{
		Path:         filepath.Join(t.TempDir(), "users.json"),
		SeedDefaults: true,
	})
	require.NoError(t, err)

	catalog := gamify.NewCatalog()
	jwter := &coreauth.JWTer{Secret: []byte("test-secret"), Issuer: "credlocker", TTL: time.Hour}

	return NewAPIEngine(Deps{
		Log:     zap.NewNop(),
		Store:   st,
		Catalog: catalog,
		Gamify:  gamify.NewService(st, catalog),
		JWTer:   jwter,
	})
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body any) envelope {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func login(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	env := do(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": username, "password": password,
	})
	require.Equal(t, resp.CodeOK, env.Code)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestSignupLoginFlow(t *testing.T) {
	t.Parallel()
	r := newTestEngine(t)

	env := do(t, r, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"fullName": "Carol Tester", "email": "carol@example.com",
		"username": "carol", "password": "secret99", "confirmPassword": "secret99",
	})
	require.Equal(t, resp.CodeOK, env.Code)
	require.NotContains(t, string(env.Data), "passwordHash")

	// 重复注册 → 409
	env = do(t, r, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"fullName": "Other", "email": "other@example.com",
		"username": "carol", "password": "secret99", "confirmPassword": "secret99",
	})
	require.Equal(t, resp.CodeConflict, env.Code)

	// 确认口令不一致 → 400
	env = do(t, r, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"fullName": "Other", "email": "third@example.com",
		"username": "third", "password": "secret99", "confirmPassword": "different",
	})
	require.Equal(t, resp.CodeBadRequest, env.Code)

	tok := login(t, r, "carol", "secret99")

	env = do(t, r, http.MethodGet, "/api/v1/me", tok, nil)
	require.Equal(t, resp.CodeOK, env.Code)
	var me domain.PublicUser
	require.NoError(t, json.Unmarshal(env.Data, &me))
	require.Equal(t, "carol", me.Username)
	require.Equal(t, 1, me.Level)
}

func TestLogin_BadCredentials(t *testing.T) {
	t.Parallel()
	r := newTestEngine(t)

	env := do(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "admin", "password": "wrong",
	})
	require.Equal(t, resp.CodeUnauthorized, env.Code)
	require.Equal(t, "invalid username or password", env.Msg)

	// 不存在的用户同样的报错文案（不泄露是否存在）
	env = do(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "ghost", "password": "whatever",
	})
	require.Equal(t, resp.CodeUnauthorized, env.Code)
	require.Equal(t, "invalid username or password", env.Msg)
}

func TestTasksRequireAuth(t *testing.T) {
	t.Parallel()
	r := newTestEngine(t)

	env := do(t, r, http.MethodGet, "/api/v1/tasks", "", nil)
	require.Equal(t, resp.CodeUnauthorized, env.Code)
}

func TestCompleteTaskFlow(t *testing.T) {
	t.Parallel()
	r := newTestEngine(t)
	tok := login(t, r, "user", "password") // 种子账号

	env := do(t, r, http.MethodGet, "/api/v1/tasks", tok, nil)
	require.Equal(t, resp.CodeOK, env.Code)
	var tasks []domain.Task
	require.NoError(t, json.Unmarshal(env.Data, &tasks))
	require.Len(t, tasks, 7)

	env = do(t, r, http.MethodPost, "/api/v1/tasks/complete", tok, gin.H{"taskId": "task-1"})
	require.Equal(t, resp.CodeOK, env.Code)
	var res gamify.CompleteResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.False(t, res.AlreadyCompleted)
	require.Equal(t, 50, res.User.ExperiencePoints)

	// 幂等
	env = do(t, r, http.MethodPost, "/api/v1/tasks/complete", tok, gin.H{"taskId": "task-1"})
	require.Equal(t, resp.CodeOK, env.Code)
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.True(t, res.AlreadyCompleted)
	require.Equal(t, 50, res.User.ExperiencePoints)

	// 未知任务 → 404
	env = do(t, r, http.MethodPost, "/api/v1/tasks/complete", tok, gin.H{"taskId": "nope"})
	require.Equal(t, resp.CodeNotFound, env.Code)

	// 排行榜包含该用户并只暴露三个字段
	env = do(t, r, http.MethodGet, "/api/v1/leaderboard", tok, nil)
	require.Equal(t, resp.CodeOK, env.Code)
	var lb []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &lb))
	require.NotEmpty(t, lb)
	require.Len(t, lb[0], 3)
	require.Contains(t, lb[0], "username")
	require.Contains(t, lb[0], "level")
	require.Contains(t, lb[0], "experiencePoints")
}

func TestUsersListAdminOnly(t *testing.T) {
	t.Parallel()
	r := newTestEngine(t)

	userTok := login(t, r, "user", "password")
	env := do(t, r, http.MethodGet, "/api/v1/users", userTok, nil)
	require.Equal(t, resp.CodeForbidden, env.Code)

	adminTok := login(t, r, "admin", "password")
	env = do(t, r, http.MethodGet, "/api/v1/users", adminTok, nil)
	require.Equal(t, resp.CodeOK, env.Code)
	var users []domain.PublicUser
	require.NoError(t, json.Unmarshal(env.Data, &users))
	require.Len(t, users, 2)
	require.NotContains(t, string(env.Data), "passwordHash")
}
