package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"credlocker/internal/domain"
)

func openTestStore(t *testing.T) (*UserStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	s, err := Open(Options{Path: path})
	require.NoError(t, err)
	return s, path
}

func validInput() domain.NewUserInput {
	return domain.NewUserInput{
		FullName: "Alice Example",
		Email:    "alice@example.com",
		Username: "alice",
		Password: "hunter22",
	}
}

func TestCreate_Success(t *testing.T) {
	t.Parallel()
	s, _ := openTestStore(t)

	u, err := s.Create(validInput())
	require.NoError(t, err)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, "alice", u.Username)
	require.Equal(t, domain.RoleUser, u.Role)
	require.Equal(t, 1, u.Level)
	require.Equal(t, 0, u.ExperiencePoints)
	require.Empty(t, u.CompletedTasks)
	require.False(t, u.CreatedAt.IsZero())

	// 对外投影序列化后不得出现任何口令字段
	b, err := json.Marshal(u)
	require.NoError(t, err)
	require.NotContains(t, string(b), "passwordHash")
	require.NotContains(t, string(b), "password")
}

func TestCreate_DuplicateUsernameAndEmail(t *testing.T) {
	t.Parallel()
	s, _ := openTestStore(t)

	_, err := s.Create(validInput())
	require.NoError(t, err)

	dupName := validInput()
	dupName.Email = "other@example.com"
	_, err = s.Create(dupName)
	require.ErrorIs(t, err, domain.ErrDuplicateUser)

	dupMail := validInput()
	dupMail.Username = "other"
	_, err = s.Create(dupMail)
	require.ErrorIs(t, err, domain.ErrDuplicateUser)

	// 冲突不得产生新记录
	require.Len(t, s.AllUsers(), 1)
}

func TestCreate_Validation(t *testing.T) {
	t.Parallel()
	s, _ := openTestStore(t)

	var ve *domain.ValidationError

	short := validInput()
	short.Password = "abc"
	_, err := s.Create(short)
	require.ErrorAs(t, err, &ve)

	empty := validInput()
	empty.FullName = ""
	_, err = s.Create(empty)
	require.ErrorAs(t, err, &ve)

	require.Empty(t, s.AllUsers())
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	s, _ := openTestStore(t)

	_, err := s.Create(validInput())
	require.NoError(t, err)

	u, ok := s.FindByUsername("alice")
	require.True(t, ok)
	require.True(t, s.ValidatePassword(u, "hunter22"))
	require.False(t, s.ValidatePassword(u, "wrong-password"))
}

func TestFindContracts(t *testing.T) {
	t.Parallel()
	s, _ := openTestStore(t)

	created, err := s.Create(validInput())
	require.NoError(t, err)

	// 内部视图保留哈希
	byName, ok := s.FindByUsername("alice")
	require.True(t, ok)
	require.NotEmpty(t, byName.PasswordHash)

	byMail, ok := s.FindByEmail("alice@example.com")
	require.True(t, ok)
	require.NotEmpty(t, byMail.PasswordHash)

	// 对外视图无哈希
	pub, ok := s.FindByID(created.ID)
	require.True(t, ok)
	require.Equal(t, created.Username, pub.Username)

	// 缺失是正常结果
	_, ok = s.FindByUsername("nobody")
	require.False(t, ok)
	_, ok = s.FindByID(999)
	require.False(t, ok)
}

func TestUpdateGamification(t *testing.T) {
	t.Parallel()
	s, _ := openTestStore(t)

	u, err := s.Create(validInput())
	require.NoError(t, err)

	got, err := s.UpdateGamification(u.ID, 2, 10, []string{"task-1"})
	require.NoError(t, err)
	require.Equal(t, 2, got.Level)
	require.Equal(t, 10, got.ExperiencePoints)
	require.Equal(t, []string{"task-1"}, got.CompletedTasks)

	_, err = s.UpdateGamification(999, 1, 0, nil)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestPersistRoundTrip(t *testing.T) {
	t.Parallel()
	s, path := openTestStore(t)

	u, err := s.Create(validInput())
	require.NoError(t, err)
	_, err = s.UpdateGamification(u.ID, 3, 42, []string{"task-1", "task-2"})
	require.NoError(t, err)

	// 重开同一文件，记录逐字段一致
	s2, err := Open(Options{Path: path})
	require.NoError(t, err)

	before, ok := s.FindByUsername("alice")
	require.True(t, ok)
	after, ok := s2.FindByUsername("alice")
	require.True(t, ok)
	require.Equal(t, before.ID, after.ID)
	require.Equal(t, before.Username, after.Username)
	require.Equal(t, before.Email, after.Email)
	require.Equal(t, before.FullName, after.FullName)
	require.Equal(t, before.PasswordHash, after.PasswordHash)
	require.Equal(t, before.Role, after.Role)
	require.Equal(t, before.Level, after.Level)
	require.Equal(t, before.ExperiencePoints, after.ExperiencePoints)
	require.Equal(t, before.CompletedTasks, after.CompletedTasks)
	require.True(t, before.CreatedAt.Equal(after.CreatedAt)) // JSON 往返丢单调钟，用 Equal 比


	// 新 id 接续而不是重复
	next, err := s2.Create(domain.NewUserInput{
		FullName: "Bob", Email: "bob@example.com", Username: "bob", Password: "secret99",
	})
	require.NoError(t, err)
	require.Equal(t, u.ID+1, next.ID)

	// 无残留临时文件
	_, err = os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err))
}

func TestSeedDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "users.json")
	s, err := Open(Options{Path: path, SeedDefaults: true})
	require.NoError(t, err)

	admin, ok := s.FindByUsername("admin")
	require.True(t, ok)
	require.Equal(t, domain.RoleAdmin, admin.Role)
	require.True(t, s.ValidatePassword(admin, "password"))

	user, ok := s.FindByUsername("user")
	require.True(t, ok)
	require.Equal(t, domain.RoleUser, user.Role)

	// 种子已落盘，重开不再重新生成
	s2, err := Open(Options{Path: path})
	require.NoError(t, err)
	require.Len(t, s2.AllUsers(), 2)
}

func TestSeedDisabled(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "users.json")
	s, err := Open(Options{Path: path})
	require.NoError(t, err)
	require.Empty(t, s.AllUsers())

	// 不存在的文件也不应被创建
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}
