package types

import (
	"github.com/shopspring/decimal"
)

// CreateCommissionReq 创建返佣记录
type CreateCommissionReq struct {
	InviterID        uint64          `json:"inviter_id" binding:"required"`
	InviteeID        uint64          `json:"invitee_id" binding:"required"`
	OrderID          string          `json:"order_id" binding:"required,max=64"`
	OrderAmount      decimal.Decimal `json:"order_amount"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	CommissionRate   decimal.Decimal `json:"commission_rate"`
	EventType        string          `json:"event_type" binding:"required,oneof=first_recharge renewal"`
}

// OrderPaidReq 订单支付完成后触发返佣计算
type OrderPaidReq struct {
	UserID      uint64          `json:"user_id" binding:"required"`
	OrderID     string          `json:"order_id" binding:"required,max=64"`
	OrderAmount decimal.Decimal `json:"order_amount"`
}

type UpdateCommissionStatusReq struct {
	Status      string `json:"status" binding:"required,oneof=pending approved rejected paid"`
	ReviewNotes string `json:"review_notes" binding:"max=255"`
}

type ListCommissionsReq struct {
	PageReq
	InviterID uint64 `form:"inviter_id"`
	Status    string `form:"status" binding:"omitempty,oneof=pending approved rejected paid"`
}

// PayoutAccount 提现账号
type PayoutAccount struct {
	Method        string `json:"method" binding:"omitempty,oneof=alipay usdt"`
	AlipayAccount string `json:"alipay_account"`
	AlipayName    string `json:"alipay_name"`
	UsdtAddress   string `json:"usdt_address"`
	UsdtNetwork   string `json:"usdt_network"`
}

type CreatePayoutReq struct {
	Amount decimal.Decimal `json:"amount"`
	PayoutAccount
	Notes string `json:"notes" binding:"max=255"`
}

type UpdatePayoutStatusReq struct {
	Status      string `json:"status" binding:"required,oneof=pending approved rejected paid"`
	ReviewNotes string `json:"review_notes" binding:"max=255"`
}

type ListPayoutsReq struct {
	PageReq
	UserID uint64 `form:"user_id"`
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected paid"`
}

type BindInviterReq struct {
	InviteCode string `json:"invite_code" binding:"required,max=32"`
}

// ReferralStats 推广概览
type ReferralStats struct {
	InviteCode               string          `json:"invite_code"`
	InviteeCount             int64           `json:"invitee_count"`
	CommissionBalance        decimal.Decimal `json:"commission_balance"`
	CommissionPendingBalance decimal.Decimal `json:"commission_pending_balance"`
	TotalCommissionEarned    decimal.Decimal `json:"total_commission_earned"`
}

// ReconcileIssue 对账不一致项
type ReconcileIssue struct {
	UserID   uint64 `json:"user_id"`
	Field    string `json:"field"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}
