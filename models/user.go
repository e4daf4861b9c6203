package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Users 用户表，积分与佣金余额以冗余字段保存在用户行上，变动时需先 FOR UPDATE 锁行
type Users struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Nickname string `gorm:"size:64;column:nickname" json:"nickname"`
	Mobile   string `gorm:"size:20;index:idx_mobile;column:mobile" json:"mobile"`
	Status   int8   `gorm:"not null;column:status" json:"status"` // 0-禁用, 1-正常

	CurrentPoints int64 `gorm:"not null;default:0;column:current_points" json:"current_points"` // 当前可用积分
	TotalEarned   int64 `gorm:"not null;default:0;column:total_earned" json:"total_earned"`     // 累计获得积分
	TotalSpent    int64 `gorm:"not null;default:0;column:total_spent" json:"total_spent"`       // 累计消耗积分

	CommissionBalance        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0;column:commission_balance" json:"commission_balance"`                 // 可提现佣金
	CommissionPendingBalance decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0;column:commission_pending_balance" json:"commission_pending_balance"` // 待审核佣金
	TotalCommissionEarned    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0;column:total_commission_earned" json:"total_commission_earned"`       // 累计佣金

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Users) TableName() string {
	return "users"
}

// UserRole 用户角色，签到配置按角色生效
type UserRole struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement;column:id"`
	UserID uint64 `gorm:"not null;uniqueIndex:uk_user_role;column:user_id"`
	Role   string `gorm:"size:32;not null;uniqueIndex:uk_user_role;column:role"`
}

func (UserRole) TableName() string {
	return "user_roles"
}
