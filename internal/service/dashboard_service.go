package service

import (
	"apex_tracker_backend/internal/repository"
	"apex_tracker_backend/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const dashboardCacheTTL = time.Minute

type DashboardService struct {
	SessionRepo *repository.SessionRepository
	Redis       *redis.Client

	now func() time.Time
}

func NewDashboardService(sessionRepo *repository.SessionRepository, rdb *redis.Client) *DashboardService {
	return &DashboardService{
		SessionRepo: sessionRepo,
		Redis:       rdb,
		now:         time.Now,
	}
}

// DailyActivity 过去一周内某一天的学习汇总（没有记录的天不出现）
type DailyActivity struct {
	Day          string `json:"day"`
	AvgScore     int    `json:"avg_score"`
	SessionCount int    `json:"session_count"`
	TotalMinutes int    `json:"total_minutes"`
}

// StatsOverview 全量学习统计
type StatsOverview struct {
	TotalSessions     int64 `json:"total_sessions"`
	TotalMinutes      int64 `json:"total_minutes"`
	AvgScore          int   `json:"avg_score"`
	ConceptsPracticed int64 `json:"concepts_practiced"`
}

// WeeklyActivity 最近 7 个自然日（含今天）的按天汇总。
// 按天聚合在这里做而不是 SQL，避免依赖具体数据库的日期函数。
func (s *DashboardService) WeeklyActivity(userID uint) ([]DailyActivity, error) {
	cacheKey := fmt.Sprintf("dashboard:weekly:%d", userID)
	var cached []DailyActivity
	if s.cacheGet(cacheKey, &cached) {
		return cached, nil
	}

	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -6)

	sessions, err := s.SessionRepo.FindSince(userID, start)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]*DailyActivity)
	scoreSums := make(map[string]int)
	for _, sess := range sessions {
		day := sess.StudiedAt.Format(DateLayout)
		entry, ok := byDay[day]
		if !ok {
			entry = &DailyActivity{Day: day}
			byDay[day] = entry
		}
		entry.SessionCount++
		entry.TotalMinutes += sess.Duration
		scoreSums[day] += sess.Score
	}

	days := make([]DailyActivity, 0, len(byDay))
	for day, entry := range byDay {
		entry.AvgScore = int(math.Round(float64(scoreSums[day]) / float64(entry.SessionCount)))
		days = append(days, *entry)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Day < days[j].Day })

	s.cacheSet(cacheKey, days)
	return days, nil
}

func (s *DashboardService) Stats(userID uint) (*StatsOverview, error) {
	cacheKey := fmt.Sprintf("dashboard:stats:%d", userID)
	var cached StatsOverview
	if s.cacheGet(cacheKey, &cached) {
		return &cached, nil
	}

	totals, err := s.SessionRepo.TotalsByUser(userID)
	if err != nil {
		return nil, err
	}

	stats := &StatsOverview{
		TotalSessions:     totals.TotalSessions,
		TotalMinutes:      totals.TotalMinutes,
		AvgScore:          int(math.Round(totals.AvgScore)),
		ConceptsPracticed: totals.ConceptsPracticed,
	}

	s.cacheSet(cacheKey, stats)
	return stats, nil
}

// InvalidateForUser 写入新学习记录后清掉该用户的汇总缓存
func (s *DashboardService) InvalidateForUser(userID uint) {
	if s.Redis == nil {
		return
	}
	ctx := context.Background()
	s.Redis.Del(ctx,
		fmt.Sprintf("dashboard:weekly:%d", userID),
		fmt.Sprintf("dashboard:stats:%d", userID),
	)
}

func (s *DashboardService) cacheGet(key string, out interface{}) bool {
	if s.Redis == nil {
		return false
	}
	val, err := s.Redis.Get(context.Background(), key).Result()
	if err == redis.Nil {
		return false
	} else if err != nil {
		logger.Log.Warn("dashboard cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (s *DashboardService) cacheSet(key string, val interface{}) {
	if s.Redis == nil {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := s.Redis.Set(context.Background(), key, data, dashboardCacheTTL).Err(); err != nil {
		logger.Log.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}
