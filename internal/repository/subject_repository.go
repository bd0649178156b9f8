package repository

import (
	"apex_tracker_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type SubjectRepository struct {
	DB *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{DB: db}
}

// SubjectWithStats 列表页聚合行：学科带概念数和平均掌握度
type SubjectWithStats struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	Name         string    `json:"name"`
	Color        string    `json:"color"`
	Icon         string    `json:"icon"`
	CreatedAt    time.Time `json:"created_at"`
	ConceptCount int64     `json:"concept_count"`
	AvgMastery   float64   `json:"avg_mastery"`
}

func (r *SubjectRepository) Create(subject *model.Subject) error {
	return r.DB.Create(subject).Error
}

func (r *SubjectRepository) FindByIDForUser(id, userID uint) (*model.Subject, error) {
	var subject model.Subject
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&subject).Error
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *SubjectRepository) FindByUserWithStats(userID uint) ([]SubjectWithStats, error) {
	var rows []SubjectWithStats
	err := r.DB.Raw(`
		SELECT s.id, s.user_id, s.name, s.color, s.icon, s.created_at,
		       COUNT(c.id)                     AS concept_count,
		       COALESCE(ROUND(AVG(c.mastery)), 0) AS avg_mastery
		FROM subjects s
		LEFT JOIN concepts c ON c.subject_id = s.id AND c.deleted_at IS NULL
		WHERE s.user_id = ? AND s.deleted_at IS NULL
		GROUP BY s.id, s.user_id, s.name, s.color, s.icon, s.created_at
		ORDER BY s.created_at ASC`, userID).Scan(&rows).Error
	return rows, err
}

// UpdateForUser 按归属更新，返回命中行数（0 表示不存在或不属于该用户）
func (r *SubjectRepository) UpdateForUser(id, userID uint, name, color, icon string) (int64, error) {
	res := r.DB.Model(&model.Subject{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"name":  name,
			"color": color,
			"icon":  icon,
		})
	return res.RowsAffected, res.Error
}

// DeleteForUser 删除学科并级联其概念与学习记录，整体在一个事务内
func (r *SubjectRepository) DeleteForUser(id, userID uint) (int64, error) {
	var deleted int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Subject{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		if deleted == 0 {
			return nil
		}

		var conceptIDs []uint
		if err := tx.Unscoped().Model(&model.Concept{}).
			Where("subject_id = ?", id).
			Pluck("id", &conceptIDs).Error; err != nil {
			return err
		}
		if len(conceptIDs) == 0 {
			return nil
		}

		if err := tx.Where("concept_id IN ?", conceptIDs).Delete(&model.StudySession{}).Error; err != nil {
			return err
		}
		return tx.Where("subject_id = ?", id).Delete(&model.Concept{}).Error
	})
	return deleted, err
}
