package model

// User 学习打卡用户。Password 为空表示仅通过 Google 登录的账号。
// swagger:model User
type User struct {
	BaseModel
	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"size:100;unique;not null" json:"email"`
	Password string `gorm:"size:100" json:"-"`

	// Streak 连续登录天数；LastLoginDate 为服务器本地日期 YYYY-MM-DD，
	// 空字符串表示从未登录。两者只在认证流程中更新，每个自然日至多一次。
	Streak        int    `gorm:"not null;default:0" json:"streak"`
	LastLoginDate string `gorm:"size:10;not null;default:''" json:"last_login_date"`

	ProfilePic string `gorm:"size:512" json:"profile_pic"`
}

func (User) TableName() string {
	return "users"
}
