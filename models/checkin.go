package models

import (
	"time"

	"gorm.io/datatypes"
)

// CheckinConfig 签到规则，ConsecutiveBonus 形如 {"7":20,"30":100}
type CheckinConfig struct {
	ID               uint64         `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name             string         `gorm:"size:64;not null;column:name" json:"name"`
	DailyPoints      int64          `gorm:"not null;default:0;column:daily_points" json:"daily_points"`
	ConsecutiveBonus datatypes.JSON `gorm:"column:consecutive_bonus" json:"consecutive_bonus"`
	MonthlyReset     bool           `gorm:"not null;default:false;column:monthly_reset" json:"monthly_reset"`
	IsActive         bool           `gorm:"not null;index:idx_checkin_active;column:is_active" json:"is_active"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Roles []CheckinConfigRole `gorm:"foreignKey:ConfigID" json:"roles,omitempty"`
}

func (CheckinConfig) TableName() string {
	return "checkin_configs"
}

// CheckinConfigRole 签到规则与角色的绑定，无绑定的规则对所有人生效
type CheckinConfigRole struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	ConfigID uint64 `gorm:"not null;uniqueIndex:uk_config_role;column:config_id" json:"config_id"`
	Role     string `gorm:"size:32;not null;uniqueIndex:uk_config_role;column:role" json:"role"`
}

func (CheckinConfigRole) TableName() string {
	return "checkin_config_roles"
}

// UserCheckin 签到记录，(user_id, checkin_date) 唯一
type UserCheckin struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID          uint64    `gorm:"not null;uniqueIndex:uk_user_checkin_date;column:user_id" json:"user_id"`
	CheckinDate     string    `gorm:"type:varchar(10);not null;uniqueIndex:uk_user_checkin_date;column:checkin_date" json:"checkin_date"` // 2006-01-02
	PointsEarned    int64     `gorm:"not null;column:points_earned" json:"points_earned"`
	ConsecutiveDays int       `gorm:"not null;default:1;column:consecutive_days" json:"consecutive_days"`
	IsBonus         bool      `gorm:"not null;default:false;column:is_bonus" json:"is_bonus"`
	BonusPoints     int64     `gorm:"not null;default:0;column:bonus_points" json:"bonus_points"`
	ConfigID        uint64    `gorm:"column:config_id" json:"config_id"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (UserCheckin) TableName() string {
	return "user_checkins"
}
