package service

import (
	"apex_tracker_backend/internal/model"
	"apex_tracker_backend/internal/repository"
	"apex_tracker_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newConceptService(db *gorm.DB) *ConceptService {
	return NewConceptService(repository.NewConceptRepository(db), repository.NewSubjectRepository(db))
}

func TestConceptCreate_StartsAtZero(t *testing.T) {
	db := newTestDB(t)
	s := newConceptService(db)

	user := seedUser(t, db, "study@example.com")
	subject := seedSubject(t, db, user.ID, "Algorithms")

	concept, err := s.Create(user.ID, subject.ID, "Recursion")
	require.NoError(t, err)
	require.Equal(t, 0, concept.Mastery)
	require.Equal(t, model.StatusNew, concept.Status)

	// 学科不存在或不属于自己
	other := seedUser(t, db, "other@example.com")
	_, err = s.Create(other.ID, subject.ID, "Stolen")
	require.ErrorIs(t, err, util.ErrSubjectNotFound)

	_, err = s.Create(user.ID, 9999, "Ghost")
	require.ErrorIs(t, err, util.ErrSubjectNotFound)
}

func TestSetMastery_DerivesStatus(t *testing.T) {
	db := newTestDB(t)
	s := newConceptService(db)

	user := seedUser(t, db, "study@example.com")
	subject := seedSubject(t, db, user.ID, "Algorithms")
	concept := seedConcept(t, db, subject.ID, "Recursion", 50)

	tests := []struct {
		mastery int
		want    model.ConceptStatus
	}{
		{0, model.StatusNew},
		{20, model.StatusStruggling},
		{60, model.StatusLearning},
		{85, model.StatusMastered},
	}
	for _, tt := range tests {
		updated, err := s.SetMastery(concept.ID, user.ID, tt.mastery)
		require.NoError(t, err)
		require.Equal(t, tt.mastery, updated.Mastery)
		require.Equal(t, tt.want, updated.Status)

		var stored model.Concept
		require.NoError(t, db.First(&stored, concept.ID).Error)
		require.Equal(t, tt.mastery, stored.Mastery)
		require.Equal(t, tt.want, stored.Status)
	}
}

func TestSetMastery_Validation(t *testing.T) {
	db := newTestDB(t)
	s := newConceptService(db)

	user := seedUser(t, db, "study@example.com")
	subject := seedSubject(t, db, user.ID, "Algorithms")
	concept := seedConcept(t, db, subject.ID, "Recursion", 50)

	for _, mastery := range []int{-1, 101} {
		_, err := s.SetMastery(concept.ID, user.ID, mastery)
		require.ErrorIs(t, err, util.ErrMasteryOutOfRange)
	}

	_, err := s.SetMastery(9999, user.ID, 50)
	require.ErrorIs(t, err, util.ErrConceptNotFound)

	other := seedUser(t, db, "other@example.com")
	_, err = s.SetMastery(concept.ID, other.ID, 50)
	require.ErrorIs(t, err, util.ErrConceptNotFound)
}

// 条件更新只在旧值仍然匹配时生效
func TestUpdateMasteryCAS_MissesOnStaleValue(t *testing.T) {
	db := newTestDB(t)
	s := newConceptService(db)

	user := seedUser(t, db, "study@example.com")
	subject := seedSubject(t, db, user.ID, "Algorithms")
	concept := seedConcept(t, db, subject.ID, "Recursion", 50)

	// 另一端已经把掌握度推到了 55
	ok, err := s.ConceptRepo.UpdateMasteryCAS(db, concept.ID, 50, 55, model.StatusForMastery(55))
	require.NoError(t, err)
	require.True(t, ok)

	// 旧快照 50 再写必须落空
	ok, err = s.ConceptRepo.UpdateMasteryCAS(db, concept.ID, 50, 62, model.StatusForMastery(62))
	require.NoError(t, err)
	require.False(t, ok)

	// 服务层重读后照常收敛
	updated, err := s.SetMastery(concept.ID, user.ID, 90)
	require.NoError(t, err)
	require.Equal(t, 90, updated.Mastery)
	require.Equal(t, model.StatusMastered, updated.Status)
}

func TestConceptDelete_CascadesSessions(t *testing.T) {
	db := newTestDB(t)
	s := newConceptService(db)

	user := seedUser(t, db, "study@example.com")
	subject := seedSubject(t, db, user.ID, "Algorithms")
	concept := seedConcept(t, db, subject.ID, "Recursion", 50)
	keep := seedConcept(t, db, subject.ID, "Sorting", 30)

	at := time.Date(2025, 4, 1, 10, 0, 0, 0, time.Local)
	seedSession(t, db, user.ID, concept.ID, 80, 30, at)
	seedSession(t, db, user.ID, keep.ID, 70, 30, at)

	require.NoError(t, s.Delete(concept.ID, user.ID))

	var conceptCount, sessionCount int64
	require.NoError(t, db.Model(&model.Concept{}).Count(&conceptCount).Error)
	require.NoError(t, db.Model(&model.StudySession{}).Count(&sessionCount).Error)
	require.EqualValues(t, 1, conceptCount)
	require.EqualValues(t, 1, sessionCount)

	require.ErrorIs(t, s.Delete(concept.ID, user.ID), util.ErrConceptNotFound)

	other := seedUser(t, db, "other@example.com")
	require.ErrorIs(t, s.Delete(keep.ID, other.ID), util.ErrConceptNotFound)
}
