package repository

import (
	"apex_tracker_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

// SessionWithNames 最近记录列表行，带概念/学科名方便前端直接展示
type SessionWithNames struct {
	ID          uint      `json:"id"`
	ConceptID   uint      `json:"concept_id"`
	Duration    int       `json:"duration"`
	Score       int       `json:"score"`
	Notes       string    `json:"notes"`
	StudiedAt   time.Time `json:"studied_at"`
	ConceptName string    `json:"concept_name"`
	SubjectName string    `json:"subject_name"`
}

// Create 追加一条学习记录，tx 可以是事务句柄
func (r *SessionRepository) Create(tx *gorm.DB, session *model.StudySession) error {
	return tx.Create(session).Error
}

func (r *SessionRepository) FindRecentByUser(userID uint, limit int) ([]SessionWithNames, error) {
	var rows []SessionWithNames
	err := r.DB.Raw(`
		SELECT ss.id, ss.concept_id, ss.duration, ss.score, ss.notes, ss.studied_at,
		       c.name AS concept_name,
		       s.name AS subject_name
		FROM study_sessions ss
		JOIN concepts c ON c.id = ss.concept_id
		JOIN subjects s ON s.id = c.subject_id
		WHERE ss.user_id = ? AND ss.deleted_at IS NULL
		ORDER BY ss.studied_at DESC
		LIMIT ?`, userID, limit).Scan(&rows).Error
	return rows, err
}

// FindSince 某时刻之后的全部记录，按天聚合在 service 层做（跨库可移植）
func (r *SessionRepository) FindSince(userID uint, cutoff time.Time) ([]model.StudySession, error) {
	var sessions []model.StudySession
	err := r.DB.Where("user_id = ? AND studied_at >= ?", userID, cutoff).
		Order("studied_at ASC").
		Find(&sessions).Error
	return sessions, err
}

// SessionTotals 全量统计
type SessionTotals struct {
	TotalSessions     int64   `json:"total_sessions"`
	TotalMinutes      int64   `json:"total_minutes"`
	AvgScore          float64 `json:"avg_score"`
	ConceptsPracticed int64   `json:"concepts_practiced"`
}

func (r *SessionRepository) TotalsByUser(userID uint) (*SessionTotals, error) {
	var totals SessionTotals
	err := r.DB.Raw(`
		SELECT COUNT(id)                    AS total_sessions,
		       COALESCE(SUM(duration), 0)  AS total_minutes,
		       COALESCE(AVG(score), 0)     AS avg_score,
		       COUNT(DISTINCT concept_id)  AS concepts_practiced
		FROM study_sessions
		WHERE user_id = ? AND deleted_at IS NULL`, userID).Scan(&totals).Error
	return &totals, err
}
