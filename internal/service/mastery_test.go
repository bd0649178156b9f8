package service

import (
	"apex_tracker_backend/internal/model"
	"testing"
)

func TestNextMastery_Boundaries(t *testing.T) {
	tests := []struct {
		name    string
		current int
		score   int
		want    int
	}{
		{name: "floor from zero", current: 0, score: 0, want: 0},
		{name: "zero mastery perfect score", current: 0, score: 100, want: 30},
		{name: "full mastery zero score", current: 100, score: 0, want: 70},
		{name: "ceiling stays", current: 100, score: 100, want: 100},
		{name: "weighted average", current: 50, score: 90, want: 62},
		{name: "rounds half up", current: 15, score: 80, want: 35}, // 34.5
		{name: "rounds fraction down", current: 62, score: 90, want: 70}, // 70.4
		{name: "mastered boundary", current: 80, score: 80, want: 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextMastery(tt.current, tt.score); got != tt.want {
				t.Errorf("NextMastery(%d, %d) = %d, want %d", tt.current, tt.score, got, tt.want)
			}
		})
	}
}

// 封闭性：任意合法输入的加权平均取整后不会越出 [0,100]
func TestNextMastery_StaysInRange(t *testing.T) {
	for current := 0; current <= 100; current += 5 {
		for score := 0; score <= 100; score += 5 {
			got := NextMastery(current, score)
			if got < 0 || got > 100 {
				t.Fatalf("NextMastery(%d, %d) = %d, out of [0,100]", current, score, got)
			}
		}
	}
}

// 不动点：得分恰好等于当前掌握度时掌握度不变
func TestNextMastery_FixedPoint(t *testing.T) {
	for m := 0; m <= 100; m++ {
		if got := NextMastery(m, m); got != m {
			t.Errorf("NextMastery(%d, %d) = %d, want %d", m, m, got, m)
		}
	}
}

func TestApplyScore_StatusFollowsMastery(t *testing.T) {
	tests := []struct {
		current    int
		score      int
		wantM      int
		wantStatus model.ConceptStatus
	}{
		{0, 100, 30, model.StatusStruggling},
		{100, 0, 70, model.StatusLearning},
		{80, 80, 80, model.StatusMastered},
		{50, 90, 62, model.StatusLearning},
		{10, 10, 10, model.StatusNew},
	}
	for _, tt := range tests {
		gotM, gotStatus := ApplyScore(tt.current, tt.score)
		if gotM != tt.wantM || gotStatus != tt.wantStatus {
			t.Errorf("ApplyScore(%d, %d) = (%d, %s), want (%d, %s)",
				tt.current, tt.score, gotM, gotStatus, tt.wantM, tt.wantStatus)
		}
	}
}

// 档位永远由返回的掌握度推导，和历史无关
func TestApplyScore_StatusIsDerived(t *testing.T) {
	for current := 0; current <= 100; current += 10 {
		for score := 0; score <= 100; score += 10 {
			m, status := ApplyScore(current, score)
			if status != model.StatusForMastery(m) {
				t.Fatalf("ApplyScore(%d, %d): status %s does not match StatusForMastery(%d) = %s",
					current, score, status, m, model.StatusForMastery(m))
			}
		}
	}
}

// 对同一输入反复学习，掌握度单调上升并停在一个不动点上。
// 因为每轮取整，不动点可能比得分低 1（如 89 对得分 90）。
func TestNextMastery_ConvergesToRepeatedScore(t *testing.T) {
	mastery := 50
	target := 90
	prev := mastery
	for i := 0; i < 20; i++ {
		mastery = NextMastery(mastery, target)
		if mastery < prev {
			t.Fatalf("mastery decreased from %d to %d while converging up", prev, mastery)
		}
		prev = mastery
	}
	if mastery < target-1 || mastery > target {
		t.Errorf("after 20 sessions at score %d mastery = %d, want %d or %d", target, mastery, target-1, target)
	}
	if got := NextMastery(mastery, target); got != mastery {
		t.Errorf("mastery %d is not a fixed point for score %d: next = %d", mastery, target, got)
	}
}
