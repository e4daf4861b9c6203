package service

import (
	"Orbit/models"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

const dateLayout = "2006-01-02"

// BonusTiers 连续签到奖励档位：连续天数 -> 奖励积分
type BonusTiers map[int]int64

// ParseBonusTiers 解析 {"7":20,"30":100}，非正整数的档位被忽略
func ParseBonusTiers(raw []byte) BonusTiers {
	tiers := make(BonusTiers)
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return tiers
	}
	gjson.ParseBytes(raw).ForEach(func(key, value gjson.Result) bool {
		days, err := strconv.Atoi(key.String())
		if err != nil || days <= 0 {
			return true
		}
		tiers[days] = value.Int()
		return true
	})
	return tiers
}

// Bonus 取满足 days%k==0 且 days>=k 的最大档位 k 对应的奖励
func (t BonusTiers) Bonus(days int) int64 {
	best := 0
	for k := range t {
		if k <= 0 || days < k || days%k != 0 {
			continue
		}
		if k > best {
			best = k
		}
	}
	if best == 0 {
		return 0
	}
	return t[best]
}

// NextStreak 根据上一次签到记录计算今天的连续天数。
// 上次是昨天则 +1；是今天则不变；否则重置为 1。
// monthlyReset 时跨月也重置为 1
func NextStreak(last *models.UserCheckin, today time.Time, monthlyReset bool) int {
	if last == nil {
		return 1
	}
	todayStr := today.Format(dateLayout)
	yesterday := today.AddDate(0, 0, -1)

	switch last.CheckinDate {
	case todayStr:
		return last.ConsecutiveDays
	case yesterday.Format(dateLayout):
		if monthlyReset && yesterday.Month() != today.Month() {
			return 1
		}
		return last.ConsecutiveDays + 1
	default:
		return 1
	}
}

// untilNextMidnight 距离 now 所在时区下一个零点的时长
func untilNextMidnight(now time.Time) time.Duration {
	y, m, d := now.Date()
	next := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
	return next.Sub(now)
}
