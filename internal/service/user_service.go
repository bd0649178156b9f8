package service

import (
	"apex_tracker_backend/internal/model"
	"apex_tracker_backend/internal/repository"
	"apex_tracker_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateProfilePic(userID uint, profilePic string) error {
	if _, err := s.GetUserByID(userID); err != nil {
		return err
	}
	return s.UserRepo.UpdateProfilePic(userID, profilePic)
}
