package service

import (
	"apex_tracker_backend/internal/model"
	"math"
)

// 掌握度平滑权重：新值 = 70% 旧掌握度 + 30% 本次得分
const (
	masteryCarryWeight = 0.7
	masteryScoreWeight = 0.3
)

// NextMastery 指数平滑更新掌握度。两个输入都在 [0,100] 且权重和为 1，
// 四舍五入后结果必然仍在 [0,100]，不需要显式 clamp；但必须取整，
// 掌握度不允许出现小数。
func NextMastery(current, score int) int {
	return int(math.Round(float64(current)*masteryCarryWeight + float64(score)*masteryScoreWeight))
}

// ApplyScore 返回平滑后的掌握度和由它推导的档位
func ApplyScore(current, score int) (int, model.ConceptStatus) {
	mastery := NextMastery(current, score)
	return mastery, model.StatusForMastery(mastery)
}
