package track

import "time"

// ClickEvent 钓鱼演练点击埋点，一行一次点击
type ClickEvent struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CampaignID string    `gorm:"size:64;index;not null" json:"campaignId"`
	UserID     string    `gorm:"size:64;index;not null" json:"userId"`
	ClientIP   string    `gorm:"size:45" json:"clientIp"`
	UserAgent  string    `gorm:"size:255" json:"userAgent"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (ClickEvent) TableName() string { return "click_events" }
