package domain

import (
	"errors"
	"fmt"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// 哨兵错误：冲突 / 不存在（缺失用户是正常结果，find 系列用 ok=false 表达，
// 只有 update 指向不存在的 id 才算错误）
var (
	ErrDuplicateUser = errors.New("username or email already exists")
	ErrUserNotFound  = errors.New("user not found")
)

// ValidationError 入参不合法，未发生任何写入
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// User 完整记录（含口令哈希），仅供认证路径使用
type User struct {
	ID               int64     `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	FullName         string    `json:"fullName"`
	PasswordHash     string    `json:"passwordHash"`
	Role             string    `json:"role"` // "user"/"admin"
	Level            int       `json:"level"`
	ExperiencePoints int       `json:"experiencePoints"`
	CompletedTasks   []string  `json:"completedTasks"`
	CreatedAt        time.Time `json:"createdAt"`
}

// PublicUser 对外投影，永远不带哈希
type PublicUser struct {
	ID               int64     `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	FullName         string    `json:"fullName"`
	Role             string    `json:"role"`
	Level            int       `json:"level"`
	ExperiencePoints int       `json:"experiencePoints"`
	CompletedTasks   []string  `json:"completedTasks"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (u *User) Public() PublicUser {
	tasks := make([]string, len(u.CompletedTasks))
	copy(tasks, u.CompletedTasks)
	return PublicUser{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		FullName:         u.FullName,
		Role:             u.Role,
		Level:            u.Level,
		ExperiencePoints: u.ExperiencePoints,
		CompletedTasks:   tasks,
		CreatedAt:        u.CreatedAt,
	}
}

// NewUserInput 注册入参
type NewUserInput struct {
	FullName string
	Email    string
	Username string
	Password string
}

type UserStore interface {
	Create(in NewUserInput) (PublicUser, error)
	FindByUsername(username string) (*User, bool)
	FindByEmail(email string) (*User, bool)
	FindByID(id int64) (*PublicUser, bool)
	ValidatePassword(u *User, candidate string) bool
	AllUsers() []PublicUser
	UpdateGamification(userID int64, level, xp int, completedTasks []string) (PublicUser, error)
}
