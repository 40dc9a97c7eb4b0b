package track

import "gorm.io/gorm"

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Migrate() error { return r.db.AutoMigrate(&ClickEvent{}) }

func (r *Repo) Record(ev *ClickEvent) error { return r.db.Create(ev).Error }

// List 按时间倒序分页
func (r *Repo) List(offset, limit int) ([]ClickEvent, int64, error) {
	tx := r.db.Model(&ClickEvent{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var evs []ClickEvent
	if err := tx.Order("created_at desc").Offset(offset).Limit(limit).Find(&evs).Error; err != nil {
		return nil, 0, err
	}
	return evs, total, nil
}
