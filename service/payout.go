package service

import (
	"Orbit/config"
	"Orbit/dao"
	"Orbit/models"
	"Orbit/pkg/database"
	"Orbit/pkg/log"
	"Orbit/pkg/snowflake"
	"Orbit/types"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var payoutStatuses = map[string]struct{}{
	models.PayoutStatusPending:  {},
	models.PayoutStatusApproved: {},
	models.PayoutStatusRejected: {},
	models.PayoutStatusPaid:     {},
}

// payoutTransitions 允许的状态变化，其余一律拒绝
var payoutTransitions = map[string]map[string]struct{}{
	models.PayoutStatusPending: {
		models.PayoutStatusApproved: {},
		models.PayoutStatusRejected: {},
	},
	models.PayoutStatusApproved: {
		models.PayoutStatusPaid: {},
	},
}

type PayoutService struct {
	DB          *gorm.DB
	Ledger      *config.Ledger
	Clock       Clock
	UserDAO     *dao.Users
	ReferralDAO *dao.Referral
}

var _ IPayoutService = (*PayoutService)(nil)

type IPayoutService interface {
	// CreatePayoutRequest 申请提现，金额在创建时即从可提现余额中预扣
	CreatePayoutRequest(ctx context.Context, userID uint64, req *types.CreatePayoutReq) (*models.ReferralPayoutRequest, error)
	// UpdatePayoutRequestStatus 审核提现：驳回时退回预扣金额
	UpdatePayoutRequestStatus(ctx context.Context, id uint64, status string, reviewerID uint64, reviewNotes string) (*models.ReferralPayoutRequest, error)
	ListPayoutRequests(ctx context.Context, req *types.ListPayoutsReq) (*types.Page[*models.ReferralPayoutRequest], error)

	GetPayoutSetting(ctx context.Context, userID uint64) (*models.ReferralPayoutSetting, error)
	SavePayoutSetting(ctx context.Context, userID uint64, req *types.PayoutAccount) (*models.ReferralPayoutSetting, error)
}

func (s *PayoutService) CreatePayoutRequest(ctx context.Context, userID uint64, req *types.CreatePayoutReq) (*models.ReferralPayoutRequest, error) {
	// 按分取整后再校验，避免不足一分的金额落库为 0
	amount := req.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, ErrInvalidPayoutAmount
	}
	if amount.LessThan(s.Ledger.MinPayoutAmount) {
		return nil, ErrPayoutBelowMinimum
	}

	var payout *models.ReferralPayoutRequest
	err := database.Transaction(ctx, s.DB, nil, s.Ledger.StatementTimeout, func(tx *gorm.DB) error {
		user, err := s.UserDAO.LockByID(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("锁定用户失败: %w", err)
		}
		if user.CommissionBalance.LessThan(amount) {
			return ErrInsufficientCommission
		}

		account, err := s.resolveAccount(ctx, tx, userID, req.PayoutAccount)
		if err != nil {
			return err
		}

		payout = &models.ReferralPayoutRequest{
			RequestNo:      snowflake.GenSn("PO"),
			UserID:         userID,
			Amount:         amount,
			Method:         account.Method,
			AlipayAccount:  account.AlipayAccount,
			AlipayName:     account.AlipayName,
			UsdtAddress:    account.UsdtAddress,
			UsdtNetwork:    account.UsdtNetwork,
			Status:         models.PayoutStatusPending,
			RequestedNotes: req.Notes,
		}
		if err := s.ReferralDAO.CreatePayout(ctx, tx, payout); err != nil {
			return fmt.Errorf("写入提现申请失败: %w", err)
		}

		// 预扣
		return s.ReferralDAO.AdjustBuckets(ctx, tx, userID, map[string]decimal.Decimal{
			colCommissionBalance: amount.Neg(),
		})
	})
	observe("payout_create", err)
	if err != nil {
		return nil, err
	}

	log.L.Info("payout requested",
		zap.Uint64("user_id", userID),
		zap.String("request_no", payout.RequestNo),
		zap.String("amount", amount.String()),
	)
	return payout, nil
}

// resolveAccount 请求未指定提现方式时使用用户保存的默认账号
func (s *PayoutService) resolveAccount(ctx context.Context, tx *gorm.DB, userID uint64, account types.PayoutAccount) (types.PayoutAccount, error) {
	if account.Method == "" {
		setting, err := s.ReferralDAO.FindSetting(ctx, tx, userID)
		if err != nil {
			return account, fmt.Errorf("查询提现账号失败: %w", err)
		}
		if setting == nil {
			return account, ErrPayoutAccountMissing
		}
		account = types.PayoutAccount{
			Method:        setting.Method,
			AlipayAccount: setting.AlipayAccount,
			AlipayName:    setting.AlipayName,
			UsdtAddress:   setting.UsdtAddress,
			UsdtNetwork:   setting.UsdtNetwork,
		}
	}
	return account, validateAccount(&account)
}

// validateAccount 校验并清理与提现方式无关的字段
func validateAccount(account *types.PayoutAccount) error {
	account.AlipayAccount = strings.TrimSpace(account.AlipayAccount)
	account.AlipayName = strings.TrimSpace(account.AlipayName)
	account.UsdtAddress = strings.TrimSpace(account.UsdtAddress)
	account.UsdtNetwork = strings.TrimSpace(account.UsdtNetwork)

	switch account.Method {
	case models.PayoutMethodAlipay:
		if account.AlipayAccount == "" || account.AlipayName == "" {
			return ErrAlipayAccountRequired
		}
		account.UsdtAddress, account.UsdtNetwork = "", ""
	case models.PayoutMethodUSDT:
		if account.UsdtAddress == "" || account.UsdtNetwork == "" {
			return ErrUsdtAddressRequired
		}
		account.AlipayAccount, account.AlipayName = "", ""
	default:
		return ErrInvalidPayoutMethod
	}
	return nil
}

func (s *PayoutService) UpdatePayoutRequestStatus(ctx context.Context, id uint64, status string, reviewerID uint64, reviewNotes string) (*models.ReferralPayoutRequest, error) {
	if _, ok := payoutStatuses[status]; !ok {
		return nil, ErrInvalidPayoutStatus
	}

	var payout *models.ReferralPayoutRequest
	err := database.Transaction(ctx, s.DB, nil, s.Ledger.StatementTimeout, func(tx *gorm.DB) error {
		var err error
		payout, err = s.ReferralDAO.LockPayout(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("查询提现申请失败: %w", err)
		}
		if payout == nil {
			return ErrPayoutNotFound
		}
		if payout.Status == status {
			return ErrPayoutSameStatus
		}
		next, ok := payoutTransitions[payout.Status]
		if !ok {
			return ErrPayoutFinished
		}
		if _, ok := next[status]; !ok {
			return ErrPayoutTransition
		}

		if status == models.PayoutStatusRejected {
			// 退回预扣
			if _, err := s.UserDAO.LockByID(ctx, tx, payout.UserID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrUserNotFound
				}
				return fmt.Errorf("锁定用户失败: %w", err)
			}
			err := s.ReferralDAO.AdjustBuckets(ctx, tx, payout.UserID, map[string]decimal.Decimal{
				colCommissionBalance: payout.Amount,
			})
			if err != nil {
				return fmt.Errorf("退回提现金额失败: %w", err)
			}
		}

		now := s.Clock()
		updates := map[string]interface{}{
			"status":       status,
			"review_notes": reviewNotes,
			"reviewed_by":  reviewerID,
			"reviewed_at":  now,
		}
		if status == models.PayoutStatusPaid {
			updates["paid_at"] = now
			payout.PaidAt = &now
		}
		if err := s.ReferralDAO.UpdatePayout(ctx, tx, id, updates); err != nil {
			return fmt.Errorf("更新提现状态失败: %w", err)
		}

		log.L.Info("payout status changed",
			zap.Uint64("payout_id", id),
			zap.String("from", payout.Status),
			zap.String("to", status),
			zap.Uint64("reviewer_id", reviewerID),
		)
		payout.Status = status
		payout.ReviewNotes = reviewNotes
		payout.ReviewedBy = &reviewerID
		payout.ReviewedAt = &now
		return nil
	})
	observe("payout_status", err)
	if err != nil {
		return nil, err
	}
	return payout, nil
}

func (s *PayoutService) ListPayoutRequests(ctx context.Context, req *types.ListPayoutsReq) (*types.Page[*models.ReferralPayoutRequest], error) {
	limit, offset := req.Normalize()
	rows, total, err := s.ReferralDAO.ListPayouts(ctx, req.UserID, req.Status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("查询提现申请失败: %w", err)
	}
	return types.NewPage(rows, total, limit, offset), nil
}

// GetPayoutSetting 未配置时返回 nil
func (s *PayoutService) GetPayoutSetting(ctx context.Context, userID uint64) (*models.ReferralPayoutSetting, error) {
	setting, err := s.ReferralDAO.FindSetting(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("查询提现账号失败: %w", err)
	}
	return setting, nil
}

func (s *PayoutService) SavePayoutSetting(ctx context.Context, userID uint64, req *types.PayoutAccount) (*models.ReferralPayoutSetting, error) {
	account := *req
	if err := validateAccount(&account); err != nil {
		return nil, err
	}

	setting := &models.ReferralPayoutSetting{
		UserID:        userID,
		Method:        account.Method,
		AlipayAccount: account.AlipayAccount,
		AlipayName:    account.AlipayName,
		UsdtAddress:   account.UsdtAddress,
		UsdtNetwork:   account.UsdtNetwork,
	}
	if err := s.ReferralDAO.SaveSetting(ctx, nil, setting); err != nil {
		return nil, fmt.Errorf("保存提现账号失败: %w", err)
	}
	return s.ReferralDAO.FindSetting(ctx, nil, userID)
}
