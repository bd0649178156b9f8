package service

import (
	"apex_tracker_backend/internal/model"
	"apex_tracker_backend/internal/repository"
	"apex_tracker_backend/internal/util"
	"apex_tracker_backend/pkg/monitoring"
	"errors"
	"time"

	"gorm.io/gorm"
)

// DefaultSessionDuration 未填时长时的默认分钟数
const DefaultSessionDuration = 30

const recentSessionLimit = 50

type SessionService struct {
	SessionRepo *repository.SessionRepository
	ConceptRepo *repository.ConceptRepository
	Dashboard   *DashboardService
	DB          *gorm.DB

	now func() time.Time
}

func NewSessionService(
	sessionRepo *repository.SessionRepository,
	conceptRepo *repository.ConceptRepository,
	dashboard *DashboardService,
	db *gorm.DB,
) *SessionService {
	return &SessionService{
		SessionRepo: sessionRepo,
		ConceptRepo: conceptRepo,
		Dashboard:   dashboard,
		DB:          db,
		now:         time.Now,
	}
}

// LogSession 记录一次学习并平滑更新概念掌握度。
// 记录行存原始得分；概念行存平滑后的掌握度和推导档位。
// 两个写入在同一个事务里，掌握度写入以读取值为条件，并发落空时
// 在事务内重读重试一次，仍失败返回冲突，整个事务回滚，不留半截状态。
func (s *SessionService) LogSession(userID, conceptID uint, score, duration int, notes string) (*model.StudySession, *model.Concept, error) {
	if score < 0 || score > 100 {
		return nil, nil, util.ErrScoreOutOfRange
	}
	if duration <= 0 {
		duration = DefaultSessionDuration
	}

	var (
		session *model.StudySession
		concept *model.Concept
	)

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		c, err := s.ConceptRepo.FindByIDForUser(tx, conceptID, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrConceptNotFound
		} else if err != nil {
			return err
		}

		for attempt := 0; attempt < 2; attempt++ {
			newMastery, newStatus := ApplyScore(c.Mastery, score)

			ok, err := s.ConceptRepo.UpdateMasteryCAS(tx, c.ID, c.Mastery, newMastery, newStatus)
			if err != nil {
				return err
			}
			if ok {
				sess := &model.StudySession{
					UserID:    userID,
					ConceptID: c.ID,
					Duration:  duration,
					Score:     score,
					Notes:     notes,
					StudiedAt: s.now(),
				}
				if err := s.SessionRepo.Create(tx, sess); err != nil {
					return err
				}

				c.Mastery = newMastery
				c.Status = newStatus
				session, concept = sess, c
				return nil
			}

			c, err = s.ConceptRepo.FindByIDForUser(tx, conceptID, userID)
			if err != nil {
				return util.ErrConceptNotFound
			}
		}
		return util.ErrConflict
	})
	if err != nil {
		return nil, nil, err
	}

	monitoring.SessionCounter.WithLabelValues(string(concept.Status)).Inc()
	s.Dashboard.InvalidateForUser(userID)

	return session, concept, nil
}

func (s *SessionService) ListRecent(userID uint) ([]repository.SessionWithNames, error) {
	return s.SessionRepo.FindRecentByUser(userID, recentSessionLimit)
}
