package model

// Subject 学科，概念的分组单位
// swagger:model Subject
type Subject struct {
	BaseModel
	UserID uint   `gorm:"index;not null" json:"user_id"`
	Name   string `gorm:"size:100;not null" json:"name"`
	Color  string `gorm:"size:20;not null;default:'#E8C547'" json:"color"`
	Icon   string `gorm:"size:10;not null;default:'◎'" json:"icon"`

	Concepts []Concept `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Subject) TableName() string {
	return "subjects"
}
