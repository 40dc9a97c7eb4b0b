package gamify

import (
	"strconv"

	"credlocker/internal/domain"
)

// 静态任务目录，进程启动时编译进来，生命周期内只读。
// 顺序即展示顺序。
var learningTasks = []domain.Task{
	{
		ID:                  "task-1",
		Title:               "Secure Your Passwords",
		Description:         "Learn to create strong, unique passwords and use a password manager.",
		ExperienceReward:    50,
		Difficulty:          "easy",
		Category:            "Password Security",
		Documentation:       "Learn how to create strong, unique passwords and the benefits of using a password manager. Focus on length, complexity, and avoiding personal information.",
		VideoURL:            "https://www.youtube.com/embed/pcIK4y_Qf3Q",
		ImageURL:            "/img/password-security.png",
		MiniTaskDescription: "Describe three characteristics of a strong password.",
		Game:                "/games/password-challenge.html",
	},
	{
		ID:                  "task-2",
		Title:               "Enable Two-Factor Authentication (2FA)",
		Description:         "Understand the importance of 2FA and how to enable it on your accounts.",
		ExperienceReward:    75,
		Difficulty:          "medium",
		Category:            "Account Security",
		Documentation:       "Two-factor authentication (2FA) adds an extra layer of security. Learn about different types of 2FA (SMS, authenticator apps, hardware keys) and why it's crucial.",
		VideoURL:            "https://www.youtube.com/embed/0Gv0h_v7b-g",
		ImageURL:            "/img/2fa-security.png",
		MiniTaskDescription: "List two benefits of using 2FA.",
		Game:                "/games/2fa-quiz.html",
	},
	{
		ID:                  "task-3",
		Title:               "Identify Phishing Attempts",
		Description:         "Learn to recognize common phishing tactics and protect yourself from social engineering.",
		ExperienceReward:    100,
		Difficulty:          "medium",
		Category:            "Phishing Awareness",
		Documentation:       "Phishing attacks try to trick you into revealing sensitive information. Learn to spot red flags in emails, messages, and websites, and what to do if you suspect a phishing attempt.",
		VideoURL:            "https://www.youtube.com/embed/K7yK2E5Qk4o",
		ImageURL:            "/img/phishing-awareness.png",
		MiniTaskDescription: "Identify one common sign of a phishing email.",
		Game:                "/games/phishing-game.html",
	},
	{
		ID:                  "task-4",
		Title:               "Update Your Software",
		Description:         "Understand why keeping your operating system and applications updated is crucial for security.",
		ExperienceReward:    60,
		Difficulty:          "easy",
		Category:            "System Security",
		Documentation:       "Software updates often include security patches that fix vulnerabilities. Learn why prompt updates are essential for protecting your devices from known threats.",
		VideoURL:            "https://www.youtube.com/embed/wXw-FkR08s0",
		ImageURL:            "/img/software-update.png",
		MiniTaskDescription: "Why are software updates important for security?",
		Game:                "/games/update-quiz.html",
	},
	{
		ID:                  "task-5",
		Title:               "Backup Your Data",
		Description:         "Discover best practices for backing up your important data to prevent loss.",
		ExperienceReward:    80,
		Difficulty:          "medium",
		Category:            "Data Protection",
		Documentation:       "Regular data backups are critical for disaster recovery. Learn about different backup strategies (local, cloud) and what kind of data you should prioritize.",
		VideoURL:            "https://www.youtube.com/embed/Y0J4Y64xV1o",
		ImageURL:            "/img/data-backup.png",
		MiniTaskDescription: "Name two places where you can back up your data.",
		Game:                "/games/backup-scenario.html",
	},
	{
		ID:                  "task-6",
		Title:               "Use a VPN",
		Description:         "Learn how a Virtual Private Network (VPN) protects your online privacy and security.",
		ExperienceReward:    120,
		Difficulty:          "hard",
		Category:            "Network Security",
		Documentation:       "A VPN encrypts your internet connection and masks your IP address, enhancing privacy and security, especially on public Wi-Fi. Understand how VPNs work and their benefits.",
		VideoURL:            "https://www.youtube.com/embed/W_g9vA-t-Ts",
		ImageURL:            "/img/vpn-security.png",
		MiniTaskDescription: "How does a VPN protect your online privacy?",
		Game:                "/games/vpn-use-case.html",
	},
	{
		ID:                  "task-7",
		Title:               "Secure Your Wi-Fi Network",
		Description:         "Steps to secure your home Wi-Fi network and prevent unauthorized access.",
		ExperienceReward:    90,
		Difficulty:          "medium",
		Category:            "Network Security",
		Documentation:       "Securing your Wi-Fi network prevents unauthorized access and potential cyber threats. Learn about strong passwords, encryption (WPA3), and disabling WPS.",
		VideoURL:            "https://www.youtube.com/embed/KjLwW4qG73M",
		ImageURL:            "/img/wifi-security.png",
		MiniTaskDescription: "What is one step you can take to secure your home Wi-Fi network?",
		Game:                "/games/wifi-config-game.html",
	},
}

type Catalog struct {
	tasks []domain.Task
}

func NewCatalog() *Catalog { return &Catalog{tasks: learningTasks} }

// AllTasks 声明顺序返回全部任务
func (c *Catalog) AllTasks() []domain.Task {
	out := make([]domain.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// TaskByID 精确匹配优先；未命中且入参是整数时，
// 按规范化十进制形式再试一次（"03"、3 都能命中 "3" 形状的 id）
func (c *Catalog) TaskByID(id string) (domain.Task, bool) {
	for _, t := range c.tasks {
		if t.ID == id {
			return t, true
		}
	}
	if n, err := strconv.Atoi(id); err == nil {
		canon := strconv.Itoa(n)
		if canon != id {
			for _, t := range c.tasks {
				if t.ID == canon {
					return t, true
				}
			}
		}
	}
	return domain.Task{}, false
}
