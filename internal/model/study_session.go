package model

import "time"

// StudySession 一次学习记录，只追加不修改。Score 存的是本次原始得分，
// 不是平滑后的 mastery。
// swagger:model StudySession
type StudySession struct {
	BaseModel
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	ConceptID uint      `gorm:"index;not null" json:"concept_id"`
	Duration  int       `gorm:"not null;default:30" json:"duration"`
	Score     int       `gorm:"not null;default:0" json:"score"`
	Notes     string    `gorm:"type:text" json:"notes"`
	StudiedAt time.Time `gorm:"index;not null" json:"studied_at"`
}

func (StudySession) TableName() string {
	return "study_sessions"
}
