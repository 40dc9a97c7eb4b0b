package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"credlocker/internal/domain"
	"credlocker/pkg/utils"
)

// UserStore 用户记录集的唯一写入方。全量常驻内存，
// 每次变更整份落盘（写临时文件再 rename，避免写一半损坏）。
type UserStore struct {
	mu       sync.RWMutex
	path     string
	minPwLen int
	users    []*domain.User
	nextID   int64
	log      *zap.Logger
}

type Options struct {
	Path           string
	SeedDefaults   bool // 仅开发引导：文件不存在时落两个默认账号
	MinPasswordLen int
	Logger         *zap.Logger
}

func Open(o Options) (*UserStore, error) {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.MinPasswordLen <= 0 {
		o.MinPasswordLen = 6
	}
	s := &UserStore{path: o.Path, minPwLen: o.MinPasswordLen, log: o.Logger}

	b, err := os.ReadFile(o.Path)
	switch {
	case err == nil:
		if err := json.Unmarshal(b, &s.users); err != nil {
			return nil, err
		}
	case errors.Is(err, os.ErrNotExist):
		if o.SeedDefaults {
			// 默认凭据仅用于开发引导，绝不能作为生产默认值
			s.users = seedUsers()
			s.log.Warn("user store missing, seeded DEFAULT DEV CREDENTIALS (admin/password, user/password) — never ship this to production",
				zap.String("path", o.Path))
			s.persistLocked()
		}
	default:
		return nil, err
	}

	for _, u := range s.users {
		if u.ID >= s.nextID {
			s.nextID = u.ID
		}
	}
	s.nextID++
	return s, nil
}

func seedUsers() []*domain.User {
	now := time.Now()
	return []*domain.User{
		{
			ID:           1,
			Username:     "admin",
			Email:        "admin@credlocker.com",
			FullName:     "System Administrator",
			PasswordHash: utils.HashPassword("password"),
			Role:         domain.RoleAdmin,
			Level:        1,
			CompletedTasks: []string{},
			CreatedAt:    now,
		},
		{
			ID:           2,
			Username:     "user",
			Email:        "user@credlocker.com",
			FullName:     "User",
			PasswordHash: utils.HashPassword("password"),
			Role:         domain.RoleUser,
			Level:        1,
			CompletedTasks: []string{},
			CreatedAt:    now,
		},
	}
}

// persistLocked 整份落盘；失败只记日志，内存态继续生效（可用性优先，已知风险）。
// 调用方必须持有写锁。
func (s *UserStore) persistLocked() {
	b, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		s.log.Error("user store marshal failed", zap.Error(err))
		return
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.log.Error("user store mkdir failed", zap.String("dir", dir), zap.Error(err))
			return
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		s.log.Error("user store write failed, in-memory state stays authoritative",
			zap.String("path", tmp), zap.Error(err))
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.log.Error("user store rename failed, in-memory state stays authoritative",
			zap.String("path", s.path), zap.Error(err))
	}
}

func (s *UserStore) validate(in domain.NewUserInput) error {
	switch {
	case in.FullName == "":
		return &domain.ValidationError{Field: "fullName", Reason: "required"}
	case in.Email == "":
		return &domain.ValidationError{Field: "email", Reason: "required"}
	case in.Username == "":
		return &domain.ValidationError{Field: "username", Reason: "required"}
	case len(in.Password) < s.minPwLen:
		return &domain.ValidationError{Field: "password", Reason: "too short"}
	}
	return nil
}

// Create 注册新用户。username/email 全集唯一（大小写敏感精确匹配）。
func (s *UserStore) Create(in domain.NewUserInput) (domain.PublicUser, error) {
	if err := s.validate(in); err != nil {
		return domain.PublicUser{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == in.Username || u.Email == in.Email {
			return domain.PublicUser{}, domain.ErrDuplicateUser
		}
	}

	u := &domain.User{
		ID:             s.nextID,
		Username:       in.Username,
		Email:          in.Email,
		FullName:       in.FullName,
		PasswordHash:   utils.HashPassword(in.Password),
		Role:           domain.RoleUser,
		Level:          1,
		CompletedTasks: []string{},
		CreatedAt:      time.Now(),
	}
	s.nextID++
	s.users = append(s.users, u)
	s.persistLocked()
	return u.Public(), nil
}

// FindByUsername 返回完整记录（含哈希），仅限认证路径使用。
// 查无此人是正常结果，不是错误。
func (s *UserStore) FindByUsername(username string) (*domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return copyUser(u), true
		}
	}
	return nil, false
}

// FindByEmail 与 FindByUsername 同契约（同样保留哈希，见 PublicUser 的分界）
func (s *UserStore) FindByEmail(email string) (*domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return copyUser(u), true
		}
	}
	return nil, false
}

// FindByID 对外读取路径，哈希已剥离
func (s *UserStore) FindByID(id int64) (*domain.PublicUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			p := u.Public()
			return &p, true
		}
	}
	return nil, false
}

func (s *UserStore) ValidatePassword(u *domain.User, candidate string) bool {
	return utils.CheckPassword(candidate, u.PasswordHash)
}

// AllUsers 创建顺序返回全部对外投影
func (s *UserStore) AllUsers() []domain.PublicUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.PublicUser, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.Public())
	}
	return out
}

// UpdateGamification 只覆盖 level / experiencePoints / completedTasks 三个字段
func (s *UserStore) UpdateGamification(userID int64, level, xp int, completedTasks []string) (domain.PublicUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == userID {
			u.Level = level
			u.ExperiencePoints = xp
			u.CompletedTasks = append([]string(nil), completedTasks...)
			s.persistLocked()
			return u.Public(), nil
		}
	}
	return domain.PublicUser{}, domain.ErrUserNotFound
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	c.CompletedTasks = append([]string(nil), u.CompletedTasks...)
	return &c
}
