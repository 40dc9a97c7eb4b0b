package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"credlocker/internal/core/auth"
	"credlocker/internal/domain"
	httpez "credlocker/internal/transport/http/ez"
)

func mountAuthActions(api, authUser *gin.RouterGroup, st domain.UserStore, jwter *auth.JWTer, l *zap.Logger) {
	ezPublic := httpez.New(api)

	// /auth/signup：字段校验 → 唯一性检查 → 入库
	type signupIn struct {
		FullName        string `json:"fullName"        binding:"required"`
		Email           string `json:"email"           binding:"required,email"`
		Username        string `json:"username"        binding:"required"`
		Password        string `json:"password"        binding:"required"`
		ConfirmPassword string `json:"confirmPassword" binding:"required"`
	}
	type signupOut struct {
		User domain.PublicUser `json:"user"`
	}
	httpez.RegisterAction[signupIn, signupOut](ezPublic, httpez.Action[signupIn, signupOut]{
		Method: http.MethodPost,
		Path:   "/auth/signup",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *signupIn) (signupOut, error) {
			if in.Password != in.ConfirmPassword {
				return signupOut{}, httpez.BadRequest("passwords do not match")
			}
			u, err := st.Create(domain.NewUserInput{
				FullName: in.FullName,
				Email:    in.Email,
				Username: in.Username,
				Password: in.Password,
			})
			var ve *domain.ValidationError
			switch {
			case errors.As(err, &ve):
				return signupOut{}, httpez.BadRequest(ve.Error())
			case errors.Is(err, domain.ErrDuplicateUser):
				return signupOut{}, httpez.Conflict("username or email already exists")
			case err != nil:
				return signupOut{}, httpez.Internal("signup failed", err)
			}
			l.Info("user signed up", zap.Int64("uid", u.ID), zap.String("username", u.Username))
			return signupOut{User: u}, nil
		},
	})

	// /auth/login：统一回 "invalid username or password"，不区分用户不存在与密码错
	type loginIn struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	type loginOut struct {
		Token string            `json:"token"`
		User  domain.PublicUser `json:"user"`
	}
	httpez.RegisterAction[loginIn, loginOut](ezPublic, httpez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			u, ok := st.FindByUsername(in.Username)
			if !ok || !st.ValidatePassword(u, in.Password) {
				return loginOut{}, httpez.Unauthorized("invalid username or password")
			}
			tok, err := jwter.Issue(u.ID, u.Role)
			if err != nil || tok == "" {
				return loginOut{}, httpez.Internal("issue token failed", err)
			}
			return loginOut{Token: tok, User: u.Public()}, nil
		},
	})

	// /me：按 token uid 取最新投影
	ezAuth := httpez.New(authUser)
	httpez.RegisterAction[struct{}, domain.PublicUser](ezAuth, httpez.Action[struct{}, domain.PublicUser]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (domain.PublicUser, error) {
			u, ok := st.FindByID(c.GetInt64("userId"))
			if !ok {
				return domain.PublicUser{}, httpez.NotFound("user not found")
			}
			return *u, nil
		},
	})
}
