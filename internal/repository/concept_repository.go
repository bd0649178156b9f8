package repository

import (
	"apex_tracker_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ConceptRepository struct {
	DB *gorm.DB
}

func NewConceptRepository(db *gorm.DB) *ConceptRepository {
	return &ConceptRepository{DB: db}
}

// ConceptWithStats 学科详情页聚合行：概念带学习次数和最近学习时间
type ConceptWithStats struct {
	ID           uint                `json:"id"`
	SubjectID    uint                `json:"subject_id"`
	Name         string              `json:"name"`
	Mastery      int                 `json:"mastery"`
	Status       model.ConceptStatus `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	SessionCount int64               `json:"session_count"`
	LastStudied  *time.Time          `json:"last_studied"`
}

func (r *ConceptRepository) Create(concept *model.Concept) error {
	return r.DB.Create(concept).Error
}

// FindByIDForUser 带归属校验的查询，tx 可以是事务句柄
func (r *ConceptRepository) FindByIDForUser(tx *gorm.DB, id, userID uint) (*model.Concept, error) {
	var concept model.Concept
	err := tx.Joins("JOIN subjects ON subjects.id = concepts.subject_id AND subjects.deleted_at IS NULL").
		Where("concepts.id = ? AND subjects.user_id = ?", id, userID).
		First(&concept).Error
	if err != nil {
		return nil, err
	}
	return &concept, nil
}

func (r *ConceptRepository) FindBySubjectWithStats(subjectID uint) ([]ConceptWithStats, error) {
	var rows []ConceptWithStats
	err := r.DB.Raw(`
		SELECT c.id, c.subject_id, c.name, c.mastery, c.status, c.created_at,
		       COUNT(ss.id)        AS session_count,
		       MAX(ss.studied_at)  AS last_studied
		FROM concepts c
		LEFT JOIN study_sessions ss ON ss.concept_id = c.id AND ss.deleted_at IS NULL
		WHERE c.subject_id = ? AND c.deleted_at IS NULL
		GROUP BY c.id, c.subject_id, c.name, c.mastery, c.status, c.created_at
		ORDER BY c.created_at ASC`, subjectID).Scan(&rows).Error
	return rows, err
}

// UpdateMasteryCAS 条件更新掌握度：只有当 mastery 仍等于读取时的旧值才生效。
// status 与新 mastery 一起写入，保证两者不脱节。返回是否命中。
func (r *ConceptRepository) UpdateMasteryCAS(tx *gorm.DB, id uint, prevMastery, mastery int, status model.ConceptStatus) (bool, error) {
	res := tx.Model(&model.Concept{}).
		Where("id = ? AND mastery = ?", id, prevMastery).
		Updates(map[string]interface{}{
			"mastery": mastery,
			"status":  status,
		})
	return res.RowsAffected > 0, res.Error
}

// DeleteForUser 删除概念并级联其学习记录，归属不符时命中 0 行
func (r *ConceptRepository) DeleteForUser(id, userID uint) (int64, error) {
	var deleted int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where(
			"id = ? AND subject_id IN (SELECT id FROM subjects WHERE user_id = ? AND deleted_at IS NULL)",
			id, userID,
		).Delete(&model.Concept{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		if deleted == 0 {
			return nil
		}
		return tx.Where("concept_id = ?", id).Delete(&model.StudySession{}).Error
	})
	return deleted, err
}
