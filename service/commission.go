package service

import (
	"Orbit/config"
	"Orbit/dao"
	"Orbit/models"
	"Orbit/pkg/database"
	"Orbit/pkg/log"
	"Orbit/types"
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	colCommissionBalance = "commission_balance"
	colCommissionPending = "commission_pending_balance"
	colCommissionEarned  = "total_commission_earned"
)

var commissionStatuses = map[string]struct{}{
	models.CommissionStatusPending:  {},
	models.CommissionStatusApproved: {},
	models.CommissionStatusRejected: {},
	models.CommissionStatusPaid:     {},
}

// credited approved 与 paid 都计入可提现余额，两者之间切换不影响余额
func credited(status string) bool {
	return status == models.CommissionStatusApproved || status == models.CommissionStatusPaid
}

type CommissionService struct {
	DB          *gorm.DB
	Ledger      *config.Ledger
	Clock       Clock
	UserDAO     *dao.Users
	ReferralDAO *dao.Referral
}

var _ ICommissionService = (*CommissionService)(nil)

type ICommissionService interface {
	CreateCommissionRecord(ctx context.Context, tx *gorm.DB, req *types.CreateCommissionReq) (*models.ReferralCommission, error)
	HasCommissionRecord(ctx context.Context, orderID string) (bool, error)
	UpdateCommissionStatus(ctx context.Context, id uint64, status, reviewNotes string) (*models.ReferralCommission, error)

	// ProcessOrderCommission 订单支付后按邀请关系生成返佣，无邀请人或已生成时返回 nil
	ProcessOrderCommission(ctx context.Context, req *types.OrderPaidReq) (*models.ReferralCommission, error)
	ListCommissions(ctx context.Context, req *types.ListCommissionsReq) (*types.Page[*models.ReferralCommission], error)
}

func (s *CommissionService) CreateCommissionRecord(ctx context.Context, tx *gorm.DB, req *types.CreateCommissionReq) (*models.ReferralCommission, error) {
	if req.InviterID == req.InviteeID {
		return nil, ErrSelfCommission
	}
	if !req.CommissionAmount.IsPositive() {
		return nil, ErrInvalidCommissionAmount
	}
	if !req.OrderAmount.IsPositive() {
		return nil, ErrInvalidOrderAmount
	}
	if req.EventType != models.EventFirstRecharge && req.EventType != models.EventRenewal {
		return nil, ErrInvalidEventType
	}

	commission := &models.ReferralCommission{
		InviterID:        req.InviterID,
		InviteeID:        req.InviteeID,
		OrderID:          req.OrderID,
		OrderAmount:      req.OrderAmount,
		CommissionAmount: req.CommissionAmount,
		CommissionRate:   req.CommissionRate,
		EventType:        req.EventType,
		Status:           models.CommissionStatusPending,
	}
	err := database.Transaction(ctx, s.DB, tx, s.Ledger.StatementTimeout, func(tx *gorm.DB) error {
		if _, err := s.UserDAO.LockByID(ctx, tx, req.InviterID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("锁定用户失败: %w", err)
		}

		if err := s.ReferralDAO.CreateCommission(ctx, tx, commission); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrCommissionExists
			}
			return fmt.Errorf("写入佣金记录失败: %w", err)
		}

		return s.ReferralDAO.AdjustBuckets(ctx, tx, req.InviterID, map[string]decimal.Decimal{
			colCommissionEarned:  req.CommissionAmount,
			colCommissionPending: req.CommissionAmount,
		})
	})
	observe("commission_create", err)
	if err != nil {
		return nil, err
	}

	log.L.Info("commission created",
		zap.Uint64("inviter_id", req.InviterID),
		zap.String("order_id", req.OrderID),
		zap.String("amount", req.CommissionAmount.String()),
	)
	return commission, nil
}

func (s *CommissionService) HasCommissionRecord(ctx context.Context, orderID string) (bool, error) {
	return s.ReferralDAO.HasCommission(ctx, orderID)
}

// UpdateCommissionStatus 按状态变化的边调整余额：
// 进入 approved/paid 加可提现，离开则减（不足时失败）；离开 pending 减待审核，进入 pending 加待审核
func (s *CommissionService) UpdateCommissionStatus(ctx context.Context, id uint64, status, reviewNotes string) (*models.ReferralCommission, error) {
	if _, ok := commissionStatuses[status]; !ok {
		return nil, ErrInvalidCommissionStatus
	}

	var commission *models.ReferralCommission
	err := database.Transaction(ctx, s.DB, nil, s.Ledger.StatementTimeout, func(tx *gorm.DB) error {
		var err error
		commission, err = s.ReferralDAO.LockCommission(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("查询佣金记录失败: %w", err)
		}
		if commission == nil {
			return ErrCommissionNotFound
		}
		if commission.Status == status {
			return ErrCommissionSameStatus
		}

		user, err := s.UserDAO.LockByID(ctx, tx, commission.InviterID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("锁定用户失败: %w", err)
		}

		amount := commission.CommissionAmount
		deltas := make(map[string]decimal.Decimal, 2)
		switch {
		case credited(commission.Status) && !credited(status):
			if user.CommissionBalance.LessThan(amount) {
				return ErrCommissionBalanceNegative
			}
			deltas[colCommissionBalance] = amount.Neg()
		case !credited(commission.Status) && credited(status):
			deltas[colCommissionBalance] = amount
		}
		if commission.Status == models.CommissionStatusPending {
			if user.CommissionPendingBalance.LessThan(amount) {
				return ErrCommissionBalanceNegative
			}
			deltas[colCommissionPending] = amount.Neg()
		}
		if status == models.CommissionStatusPending {
			deltas[colCommissionPending] = amount
		}
		if err := s.ReferralDAO.AdjustBuckets(ctx, tx, commission.InviterID, deltas); err != nil {
			return fmt.Errorf("更新佣金余额失败: %w", err)
		}

		now := s.Clock()
		updates := map[string]interface{}{
			"status":       status,
			"review_notes": reviewNotes,
		}
		switch status {
		case models.CommissionStatusPending:
			updates["settled_at"] = nil
			updates["paid_at"] = nil
			commission.SettledAt, commission.PaidAt = nil, nil
		case models.CommissionStatusApproved, models.CommissionStatusPaid:
			if commission.SettledAt == nil {
				updates["settled_at"] = now
				commission.SettledAt = &now
			}
			if status == models.CommissionStatusPaid && commission.PaidAt == nil {
				updates["paid_at"] = now
				commission.PaidAt = &now
			}
		}
		if err := s.ReferralDAO.UpdateCommission(ctx, tx, id, updates); err != nil {
			return fmt.Errorf("更新佣金状态失败: %w", err)
		}

		log.L.Info("commission status changed",
			zap.Uint64("commission_id", id),
			zap.String("from", commission.Status),
			zap.String("to", status),
		)
		commission.Status = status
		commission.ReviewNotes = reviewNotes
		return nil
	})
	observe("commission_status", err)
	if err != nil {
		return nil, err
	}
	return commission, nil
}

func (s *CommissionService) ProcessOrderCommission(ctx context.Context, req *types.OrderPaidReq) (*models.ReferralCommission, error) {
	if !req.OrderAmount.IsPositive() {
		return nil, ErrInvalidOrderAmount
	}

	ref, err := s.ReferralDAO.FindInviter(ctx, nil, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("查询邀请关系失败: %w", err)
	}
	if ref == nil {
		return nil, nil
	}

	exist, err := s.ReferralDAO.HasCommission(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("查询佣金记录失败: %w", err)
	}
	if exist {
		return nil, nil
	}

	count, err := s.ReferralDAO.CountCommissionsByInvitee(ctx, nil, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("查询佣金记录失败: %w", err)
	}
	event, rate := models.EventFirstRecharge, s.Ledger.FirstRechargeRate
	if count > 0 {
		event, rate = models.EventRenewal, s.Ledger.RenewalRate
	}

	amount := req.OrderAmount.Mul(rate).Round(2)
	if !amount.IsPositive() {
		return nil, nil
	}

	commission, err := s.CreateCommissionRecord(ctx, nil, &types.CreateCommissionReq{
		InviterID:        ref.InviterID,
		InviteeID:        req.UserID,
		OrderID:          req.OrderID,
		OrderAmount:      req.OrderAmount,
		CommissionAmount: amount,
		CommissionRate:   rate,
		EventType:        event,
	})
	if errors.Is(err, ErrCommissionExists) {
		// 并发回调同一订单
		return nil, nil
	}
	return commission, err
}

func (s *CommissionService) ListCommissions(ctx context.Context, req *types.ListCommissionsReq) (*types.Page[*models.ReferralCommission], error) {
	limit, offset := req.Normalize()
	rows, total, err := s.ReferralDAO.ListCommissions(ctx, req.InviterID, req.Status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("查询佣金记录失败: %w", err)
	}
	return types.NewPage(rows, total, limit, offset), nil
}
