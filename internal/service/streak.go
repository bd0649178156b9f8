package service

import "time"

// DateLayout 连续登录比较用的日历日期格式
const DateLayout = "2006-01-02"

// NextStreak 计算新的连续登录天数。日期按服务器本地时区的自然日比较，
// 与线上历史行为保持一致（切换到 UTC 会改变午夜前后的可见行为）。
//
// 规则按序判断：
//  1. 今天已登录过：保持不变（同日重复登录幂等）
//  2. 昨天登录过：+1
//  3. 其余（间隔 >=2 天，或从未登录）：重置为 1
//
// 返回新的天数和今天的日期串，调用方负责落库。
func NextStreak(lastLoginDate string, today time.Time, currentStreak int) (int, string) {
	todayStr := today.Format(DateLayout)

	switch lastLoginDate {
	case todayStr:
		return currentStreak, todayStr
	case today.AddDate(0, 0, -1).Format(DateLayout):
		return currentStreak + 1, todayStr
	default:
		return 1, todayStr
	}
}
