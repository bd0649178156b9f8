package service

import (
	"apex_tracker_backend/internal/model"
	"apex_tracker_backend/internal/repository"
	"apex_tracker_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type ConceptService struct {
	ConceptRepo *repository.ConceptRepository
	SubjectRepo *repository.SubjectRepository
}

func NewConceptService(conceptRepo *repository.ConceptRepository, subjectRepo *repository.SubjectRepository) *ConceptService {
	return &ConceptService{
		ConceptRepo: conceptRepo,
		SubjectRepo: subjectRepo,
	}
}

// Create 在指定学科下新建概念，掌握度从 0 / new 起步
func (s *ConceptService) Create(userID, subjectID uint, name string) (*model.Concept, error) {
	if _, err := s.SubjectRepo.FindByIDForUser(subjectID, userID); err != nil {
		return nil, util.ErrSubjectNotFound
	}

	concept := &model.Concept{
		SubjectID: subjectID,
		Name:      name,
		Mastery:   0,
		Status:    model.StatusNew,
	}
	if err := s.ConceptRepo.Create(concept); err != nil {
		return nil, err
	}
	return concept, nil
}

// SetMastery 直接设置掌握度（0-100），档位始终重算，不接受外部指定。
// 写入带上读取时的旧值做条件，落空重读再试一次。
func (s *ConceptService) SetMastery(id, userID uint, mastery int) (*model.Concept, error) {
	if mastery < 0 || mastery > 100 {
		return nil, util.ErrMasteryOutOfRange
	}

	concept, err := s.ConceptRepo.FindByIDForUser(s.ConceptRepo.DB, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrConceptNotFound
	} else if err != nil {
		return nil, err
	}

	status := model.StatusForMastery(mastery)
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.ConceptRepo.UpdateMasteryCAS(s.ConceptRepo.DB, concept.ID, concept.Mastery, mastery, status)
		if err != nil {
			return nil, err
		}
		if ok {
			concept.Mastery = mastery
			concept.Status = status
			return concept, nil
		}

		concept, err = s.ConceptRepo.FindByIDForUser(s.ConceptRepo.DB, id, userID)
		if err != nil {
			return nil, util.ErrConceptNotFound
		}
	}
	return nil, util.ErrConflict
}

func (s *ConceptService) Delete(id, userID uint) error {
	deleted, err := s.ConceptRepo.DeleteForUser(id, userID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return util.ErrConceptNotFound
	}
	return nil
}
