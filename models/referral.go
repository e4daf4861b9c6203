package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CommissionStatusPending  = "pending"
	CommissionStatusApproved = "approved"
	CommissionStatusRejected = "rejected"
	CommissionStatusPaid     = "paid"

	EventFirstRecharge = "first_recharge"
	EventRenewal       = "renewal"

	PayoutStatusPending  = "pending"
	PayoutStatusApproved = "approved"
	PayoutStatusRejected = "rejected"
	PayoutStatusPaid     = "paid"

	PayoutMethodAlipay = "alipay"
	PayoutMethodUSDT   = "usdt"
)

// UserReferral 邀请关系，一个被邀请人只能绑定一次
type UserReferral struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	InviterID  uint64    `gorm:"not null;index:idx_referral_inviter;column:inviter_id" json:"inviter_id"`
	InviteeID  uint64    `gorm:"not null;uniqueIndex:uk_referral_invitee;column:invitee_id" json:"invitee_id"`
	InviteCode string    `gorm:"size:32;column:invite_code" json:"invite_code"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (UserReferral) TableName() string {
	return "user_referrals"
}

// ReferralCommission 返佣记录，每个订单最多一条
type ReferralCommission struct {
	ID               uint64          `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	InviterID        uint64          `gorm:"not null;index:idx_commission_inviter;column:inviter_id" json:"inviter_id"`
	InviteeID        uint64          `gorm:"not null;index:idx_commission_invitee;column:invitee_id" json:"invitee_id"`
	OrderID          string          `gorm:"size:64;not null;uniqueIndex:uk_commission_order;column:order_id" json:"order_id"`
	OrderAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;column:order_amount" json:"order_amount"`
	CommissionAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;column:commission_amount" json:"commission_amount"`
	CommissionRate   decimal.Decimal `gorm:"type:decimal(6,4);not null;column:commission_rate" json:"commission_rate"`
	EventType        string          `gorm:"size:32;not null;column:event_type" json:"event_type"`
	Status           string          `gorm:"size:16;not null;default:'pending';index:idx_commission_status;column:status" json:"status"`
	SettledAt        *time.Time      `gorm:"column:settled_at" json:"settled_at,omitempty"`
	PaidAt           *time.Time      `gorm:"column:paid_at" json:"paid_at,omitempty"`
	ReviewNotes      string          `gorm:"size:255;column:review_notes" json:"review_notes"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ReferralCommission) TableName() string {
	return "referral_commissions"
}

// ReferralPayoutRequest 提现申请，创建时即从可提现余额中预扣
type ReferralPayoutRequest struct {
	ID             uint64          `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	RequestNo      string          `gorm:"size:32;not null;uniqueIndex:uk_payout_request_no;column:request_no" json:"request_no"`
	UserID         uint64          `gorm:"not null;index:idx_payout_user;column:user_id" json:"user_id"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,2);not null;column:amount" json:"amount"`
	Method         string          `gorm:"size:16;not null;column:method" json:"method"`
	AlipayAccount  string          `gorm:"size:128;column:alipay_account" json:"alipay_account,omitempty"`
	AlipayName     string          `gorm:"size:64;column:alipay_name" json:"alipay_name,omitempty"`
	UsdtAddress    string          `gorm:"size:128;column:usdt_address" json:"usdt_address,omitempty"`
	UsdtNetwork    string          `gorm:"size:16;column:usdt_network" json:"usdt_network,omitempty"`
	Status         string          `gorm:"size:16;not null;default:'pending';index:idx_payout_status;column:status" json:"status"`
	RequestedNotes string          `gorm:"size:255;column:requested_notes" json:"requested_notes"`
	ReviewNotes    string          `gorm:"size:255;column:review_notes" json:"review_notes"`
	ReviewedBy     *uint64         `gorm:"column:reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time      `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	PaidAt         *time.Time      `gorm:"column:paid_at" json:"paid_at,omitempty"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ReferralPayoutRequest) TableName() string {
	return "referral_payout_requests"
}

// ReferralPayoutSetting 用户默认提现账号
type ReferralPayoutSetting struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID        uint64    `gorm:"not null;uniqueIndex:uk_payout_setting_user;column:user_id" json:"user_id"`
	Method        string    `gorm:"size:16;not null;column:method" json:"method"`
	AlipayAccount string    `gorm:"size:128;column:alipay_account" json:"alipay_account,omitempty"`
	AlipayName    string    `gorm:"size:64;column:alipay_name" json:"alipay_name,omitempty"`
	UsdtAddress   string    `gorm:"size:128;column:usdt_address" json:"usdt_address,omitempty"`
	UsdtNetwork   string    `gorm:"size:16;column:usdt_network" json:"usdt_network,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ReferralPayoutSetting) TableName() string {
	return "referral_payout_settings"
}
