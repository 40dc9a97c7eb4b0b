package domain

// Task 学习任务（静态目录项，进程生命周期内只读）
type Task struct {
	ID                  string `json:"id"`
	Title               string `json:"title"`
	Description         string `json:"description"`
	ExperienceReward    int    `json:"experienceReward"`
	Difficulty          string `json:"difficulty"` // easy / medium / hard
	Category            string `json:"category"`
	Documentation       string `json:"documentation"`
	VideoURL            string `json:"videoUrl"`
	ImageURL            string `json:"imageUrl"`
	MiniTaskDescription string `json:"miniTaskDescription"`
	Game                string `json:"game"`
}

// LeaderboardEntry 排行榜投影：只暴露这三个字段
type LeaderboardEntry struct {
	Username         string `json:"username"`
	Level            int    `json:"level"`
	ExperiencePoints int    `json:"experiencePoints"`
}

type TaskCatalog interface {
	AllTasks() []Task
	TaskByID(id string) (Task, bool)
}
