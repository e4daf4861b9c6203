package types

import "Orbit/models"

// CheckinResult 签到结果
type CheckinResult struct {
	Record          *models.UserCheckin   `json:"record"`
	DailyPoints     int64                 `json:"daily_points"`
	BonusPoints     int64                 `json:"bonus_points"`
	TotalPoints     int64                 `json:"total_points"`
	ConsecutiveDays int                   `json:"consecutive_days"`
	Points          *PointsChange         `json:"points"`
	Config          *models.CheckinConfig `json:"config"`
}

// CheckinStatus 今日签到状态
type CheckinStatus struct {
	CheckedInToday  bool                  `json:"checked_in_today"`
	ConsecutiveDays int                   `json:"consecutive_days"`
	TodayRecord     *models.UserCheckin   `json:"today_record,omitempty"`
	Config          *models.CheckinConfig `json:"config,omitempty"`
}

// CheckinHistoryReq 按月查询签到日历
type CheckinHistoryReq struct {
	Month string `form:"month" binding:"omitempty,len=7"` // 2006-01
}

type CheckinHistory struct {
	Month       string                `json:"month"`
	Records     []*models.UserCheckin `json:"records"`
	TotalPoints int64                 `json:"total_points"`
	Days        int                   `json:"days"`
}

// SaveCheckinConfigReq 新建或更新签到规则，ConsecutiveBonus 的 key 为连续天数
type SaveCheckinConfigReq struct {
	Name             string        `json:"name" binding:"required,max=64"`
	DailyPoints      int64         `json:"daily_points" binding:"min=0"`
	ConsecutiveBonus map[int]int64 `json:"consecutive_bonus"`
	MonthlyReset     bool          `json:"monthly_reset"`
	IsActive         *bool         `json:"is_active"`
	Roles            []string      `json:"roles"`
}
