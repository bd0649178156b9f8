package service

import (
	"apex_tracker_backend/internal/model"
	"apex_tracker_backend/internal/repository"
	"apex_tracker_backend/internal/util"
)

type SubjectService struct {
	SubjectRepo *repository.SubjectRepository
	ConceptRepo *repository.ConceptRepository
}

func NewSubjectService(subjectRepo *repository.SubjectRepository, conceptRepo *repository.ConceptRepository) *SubjectService {
	return &SubjectService{
		SubjectRepo: subjectRepo,
		ConceptRepo: conceptRepo,
	}
}

func (s *SubjectService) Create(userID uint, name, color, icon string) (*model.Subject, error) {
	subject := &model.Subject{
		UserID: userID,
		Name:   name,
		Color:  color,
		Icon:   icon,
	}
	if err := s.SubjectRepo.Create(subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *SubjectService) ListForUser(userID uint) ([]repository.SubjectWithStats, error) {
	return s.SubjectRepo.FindByUserWithStats(userID)
}

// ListConcepts 列出某学科下的概念，先校验学科归属
func (s *SubjectService) ListConcepts(subjectID, userID uint) ([]repository.ConceptWithStats, error) {
	if _, err := s.SubjectRepo.FindByIDForUser(subjectID, userID); err != nil {
		return nil, util.ErrSubjectNotFound
	}
	return s.ConceptRepo.FindBySubjectWithStats(subjectID)
}

func (s *SubjectService) Update(id, userID uint, name, color, icon string) error {
	affected, err := s.SubjectRepo.UpdateForUser(id, userID, name, color, icon)
	if err != nil {
		return err
	}
	if affected == 0 {
		return util.ErrSubjectNotFound
	}
	return nil
}

func (s *SubjectService) Delete(id, userID uint) error {
	deleted, err := s.SubjectRepo.DeleteForUser(id, userID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return util.ErrSubjectNotFound
	}
	return nil
}
