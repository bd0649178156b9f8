package repository

import (
	"apex_tracker_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

// UpdateStreakCAS 条件更新连续登录天数：只有当 last_login_date 仍等于读取时的
// 旧值才生效，避免并发登录互相覆盖。返回是否命中。
func (r *UserRepository) UpdateStreakCAS(userID uint, prevLoginDate string, streak int, loginDate string) (bool, error) {
	res := r.DB.Model(&model.User{}).
		Where("id = ? AND last_login_date = ?", userID, prevLoginDate).
		Updates(map[string]interface{}{
			"streak":          streak,
			"last_login_date": loginDate,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *UserRepository) UpdateProfilePic(userID uint, profilePic string) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("profile_pic", profilePic).
		Error
}
