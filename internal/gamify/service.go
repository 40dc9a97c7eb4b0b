package gamify

import (
	"errors"
	"sort"
	"sync"

	"credlocker/internal/domain"
)

var ErrTaskNotFound = errors.New("task not found")

// 目录项漏配奖励时的兜底值（防御路径，目录内全部任务都带奖励）
const defaultReward = 10

// Service 把任务完成事件换算成新的 (level, xp, completedTasks)。
// 规则本身不落盘，算出的下一状态整体交还 UserStore.UpdateGamification。
type Service struct {
	store   domain.UserStore
	catalog domain.TaskCatalog

	mu    sync.Mutex
	locks map[int64]*sync.Mutex // 按用户串行化 read-modify-write
}

func NewService(store domain.UserStore, catalog domain.TaskCatalog) *Service {
	return &Service{store: store, catalog: catalog, locks: make(map[int64]*sync.Mutex)}
}

func (s *Service) userLock(id int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

type CompleteResult struct {
	AlreadyCompleted bool              `json:"alreadyCompleted"`
	LeveledUp        bool              `json:"leveledUp"`
	User             domain.PublicUser `json:"user"`
}

// CompleteTask 幂等：重复完成不再发奖。
// 升级是单步的：一次完成最多 +1 级，超出下一阈值的结余保留不再折算
// （沿用产品既定节奏，不做多级连升）。
func (s *Service) CompleteTask(userID int64, taskID string) (CompleteResult, error) {
	task, ok := s.catalog.TaskByID(taskID)
	if !ok {
		return CompleteResult{}, ErrTaskNotFound
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	u, ok := s.store.FindByID(userID)
	if !ok {
		return CompleteResult{}, domain.ErrUserNotFound
	}

	if contains(u.CompletedTasks, task.ID) {
		return CompleteResult{AlreadyCompleted: true, User: *u}, nil
	}

	reward := task.ExperienceReward
	if reward <= 0 {
		reward = defaultReward
	}

	level := u.Level
	xp := u.ExperiencePoints + reward
	completed := append(append([]string(nil), u.CompletedTasks...), task.ID)

	leveled := false
	if threshold := level * 100; xp >= threshold { // 阈值取本次调用前的 level
		level++
		xp -= threshold
		leveled = true
	}

	updated, err := s.store.UpdateGamification(userID, level, xp, completed)
	if err != nil {
		return CompleteResult{}, err
	}
	return CompleteResult{LeveledUp: leveled, User: updated}, nil
}

// Leaderboard 当前全量用户的排行投影
func (s *Service) Leaderboard() []domain.LeaderboardEntry {
	return Rank(s.store.AllUsers())
}

// Rank level 降序，平级按 xp 降序，完全相同保持原相对顺序
func Rank(users []domain.PublicUser) []domain.LeaderboardEntry {
	sorted := make([]domain.PublicUser, len(users))
	copy(sorted, users)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Level != sorted[j].Level {
			return sorted[i].Level > sorted[j].Level
		}
		return sorted[i].ExperiencePoints > sorted[j].ExperiencePoints
	})
	out := make([]domain.LeaderboardEntry, 0, len(sorted))
	for _, u := range sorted {
		out = append(out, domain.LeaderboardEntry{
			Username:         u.Username,
			Level:            u.Level,
			ExperiencePoints: u.ExperiencePoints,
		})
	}
	return out
}

func contains(ss []string, v string) bool {
	for _, s := range ss {
		if s == v {
			return true
		}
	}
	return false
}
