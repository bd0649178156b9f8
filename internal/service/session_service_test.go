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

func newSessionService(db *gorm.DB) *SessionService {
	sessionRepo := repository.NewSessionRepository(db)
	return NewSessionService(
		sessionRepo,
		repository.NewConceptRepository(db),
		NewDashboardService(sessionRepo, nil),
		db,
	)
}

func TestLogSession_SmoothsMastery(t *testing.T) {
	db := newTestDB(t)
	s := newSessionService(db)

	user := seedUser(t, db, "study@example.com")
	subject := seedSubject(t, db, user.ID, "Algorithms")
	concept := seedConcept(t, db, subject.ID, "Recursion", 50)

	// 50 * 0.7 + 90 * 0.3 = 62
	session, updated, err := s.LogSession(user.ID, concept.ID, 90, 45, "went well")
	require.NoError(t, err)
	require.Equal(t, 62, updated.Mastery)
	require.Equal(t, model.StatusLearning, updated.Status)

	// 记录行存原始得分，不存平滑值
	require.Equal(t, 90, session.Score)
	require.Equal(t, 45, session.Duration)
	require.Equal(t, "went well", session.Notes)

	var stored model.StudySession
	require.NoError(t, db.First(&stored, session.ID).Error)
	require.Equal(t, 90, stored.Score)

	// 同样的得分再来一次：62 * 0.7 + 90 * 0.3 = 70.4 -> 70
	_, updated, err = s.LogSession(user.ID, concept.ID, 90, 45, "")
	require.NoError(t, err)
	require.Equal(t, 70, updated.Mastery)
	require.Equal(t, model.StatusLearning, updated.Status)

	var storedConcept model.Concept
	require.NoError(t, db.First(&storedConcept, concept.ID).Error)
	require.Equal(t, 70, storedConcept.Mastery)
	require.Equal(t, model.StatusLearning, storedConcept.Status)
}

func TestLogSession_ScoreOutOfRange(t *testing.T) {
	db := newTestDB(t)
	s := newSessionService(db)

	user := seedUser(t, db, "study@example.com")
	subject := seedSubject(t, db, user.ID, "Algorithms")
	concept := seedConcept(t, db, subject.ID, "Recursion", 50)

	for _, score := range []int{-1, 101} {
		_, _, err := s.LogSession(user.ID, concept.ID, score, 30, "")
		require.ErrorIs(t, err, util.ErrScoreOutOfRange)
	}

	// 校验失败不能留下任何记录，概念也不能动
	var count int64
	require.NoError(t, db.Model(&model.StudySession{}).Count(&count).Error)
	require.EqualValues(t, 0, count)

	var stored model.Concept
	require.NoError(t, db.First(&stored, concept.ID).Error)
	require.Equal(t, 50, stored.Mastery)
}

func TestLogSession_DefaultDuration(t *testing.T) {
	db := newTestDB(t)
	s := newSessionService(db)

	user := seedUser(t, db, "study@example.com")
	subject := seedSubject(t, db, user.ID, "Algorithms")
	concept := seedConcept(t, db, subject.ID, "Recursion", 0)

	session, _, err := s.LogSession(user.ID, concept.ID, 80, 0, "")
	require.NoError(t, err)
	require.Equal(t, DefaultSessionDuration, session.Duration)
}

func TestLogSession_ConceptOwnership(t *testing.T) {
	db := newTestDB(t)
	s := newSessionService(db)

	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")
	subject := seedSubject(t, db, owner.ID, "Algorithms")
	concept := seedConcept(t, db, subject.ID, "Recursion", 50)

	// 不存在的概念
	_, _, err := s.LogSession(owner.ID, 9999, 80, 30, "")
	require.ErrorIs(t, err, util.ErrConceptNotFound)

	// 别人的概念对自己不可见
	_, _, err = s.LogSession(other.ID, concept.ID, 80, 30, "")
	require.ErrorIs(t, err, util.ErrConceptNotFound)

	var count int64
	require.NoError(t, db.Model(&model.StudySession{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestLogSession_BoundaryScores(t *testing.T) {
	db := newTestDB(t)
	s := newSessionService(db)

	user := seedUser(t, db, "study@example.com")
	subject := seedSubject(t, db, user.ID, "Algorithms")

	// 0 分和 100 分都是合法输入
	low := seedConcept(t, db, subject.ID, "Low", 10)
	_, updated, err := s.LogSession(user.ID, low.ID, 0, 30, "")
	require.NoError(t, err)
	require.Equal(t, 7, updated.Mastery)
	require.Equal(t, model.StatusNew, updated.Status)

	high := seedConcept(t, db, subject.ID, "High", 70)
	_, updated, err = s.LogSession(user.ID, high.ID, 100, 30, "")
	require.NoError(t, err)
	require.Equal(t, 79, updated.Mastery)
	require.Equal(t, model.StatusLearning, updated.Status)
}

func TestListRecent_NewestFirstWithNames(t *testing.T) {
	db := newTestDB(t)
	s := newSessionService(db)

	user := seedUser(t, db, "study@example.com")
	subject := seedSubject(t, db, user.ID, "Algorithms")
	concept := seedConcept(t, db, subject.ID, "Recursion", 50)

	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.Local)
	for i := 0; i < 3; i++ {
		s.now = func() time.Time { return base.Add(time.Duration(i) * time.Hour) }
		_, _, err := s.LogSession(user.ID, concept.ID, 60+i, 30, "")
		require.NoError(t, err)
	}

	rows, err := s.ListRecent(user.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, 62, rows[0].Score)
	require.Equal(t, 60, rows[2].Score)
	require.Equal(t, "Recursion", rows[0].ConceptName)
	require.Equal(t, "Algorithms", rows[0].SubjectName)
}
