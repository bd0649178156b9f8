package model

// ConceptStatus 概念掌握度的离散档位，由 mastery 唯一确定
type ConceptStatus string

const (
	StatusNew        ConceptStatus = "new"
	StatusLearning   ConceptStatus = "learning"
	StatusStruggling ConceptStatus = "struggling"
	StatusMastered   ConceptStatus = "mastered"
)

// Concept 学习概念。Mastery 恒在 [0,100]；Status 永远由 Mastery 推导，
// 每次写 Mastery 时同步重算，不允许单独设置。
// swagger:model Concept
type Concept struct {
	BaseModel
	SubjectID uint          `gorm:"index;not null" json:"subject_id"`
	Name      string        `gorm:"size:100;not null" json:"name"`
	Mastery   int           `gorm:"not null;default:0" json:"mastery"`
	Status    ConceptStatus `gorm:"size:20;not null;default:'new'" json:"status"`

	Sessions []StudySession `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Concept) TableName() string {
	return "concepts"
}

// StatusForMastery 按阈值从高到低推导档位：
// >=80 mastered, >=60 learning, >=20 struggling, 否则 new
func StatusForMastery(mastery int) ConceptStatus {
	switch {
	case mastery >= 80:
		return StatusMastered
	case mastery >= 60:
		return StatusLearning
	case mastery >= 20:
		return StatusStruggling
	default:
		return StatusNew
	}
}
