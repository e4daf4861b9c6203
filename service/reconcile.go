package service

import (
	"Orbit/config"
	"Orbit/dao"
	"Orbit/models"
	"Orbit/pkg/log"
	"Orbit/types"
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const reconcileBatch = 500

type ReconcileService struct {
	Ledger      *config.Ledger
	UserDAO     *dao.Users
	PointDAO    *dao.Point
	ReferralDAO *dao.Referral
}

var _ IReconcileService = (*ReconcileService)(nil)

// IReconcileService 核对用户行上的冗余余额与流水是否一致，只读
type IReconcileService interface {
	ReconcileUsers(ctx context.Context, userIDs []uint64) ([]types.ReconcileIssue, error)
	ReconcileAll(ctx context.Context) ([]types.ReconcileIssue, error)
}

func (s *ReconcileService) ReconcileUsers(ctx context.Context, userIDs []uint64) ([]types.ReconcileIssue, error) {
	p := pool.NewWithResults[[]types.ReconcileIssue]().
		WithMaxGoroutines(s.Ledger.ReconcileConcurrency).
		WithContext(ctx)
	for _, uid := range userIDs {
		uid := uid
		p.Go(func(ctx context.Context) ([]types.ReconcileIssue, error) {
			return s.checkUser(ctx, uid)
		})
	}

	batches, err := p.Wait()
	issues := make([]types.ReconcileIssue, 0)
	for _, b := range batches {
		issues = append(issues, b...)
	}
	return issues, err
}

func (s *ReconcileService) ReconcileAll(ctx context.Context) ([]types.ReconcileIssue, error) {
	issues := make([]types.ReconcileIssue, 0)
	var after uint64
	for {
		ids, err := s.UserDAO.ListIDs(ctx, after, reconcileBatch)
		if err != nil {
			return issues, fmt.Errorf("查询用户失败: %w", err)
		}
		if len(ids) == 0 {
			break
		}
		found, err := s.ReconcileUsers(ctx, ids)
		issues = append(issues, found...)
		if err != nil {
			return issues, err
		}
		after = ids[len(ids)-1]
	}

	log.L.Info("reconcile finished", zap.Int("issues", len(issues)))
	return issues, nil
}

func (s *ReconcileService) checkUser(ctx context.Context, uid uint64) ([]types.ReconcileIssue, error) {
	user, err := s.UserDAO.FindById(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var issues []types.ReconcileIssue
	report := func(field, expected, actual string) {
		issues = append(issues, types.ReconcileIssue{UserID: uid, Field: field, Expected: expected, Actual: actual})
		log.L.Warn("ledger mismatch",
			zap.Uint64("user_id", uid),
			zap.String("field", field),
			zap.String("expected", expected),
			zap.String("actual", actual),
		)
	}

	points, err := s.PointDAO.SumAmount(ctx, uid)
	if err != nil {
		return nil, err
	}
	if points != user.CurrentPoints {
		report("current_points", strconv.FormatInt(points, 10), strconv.FormatInt(user.CurrentPoints, 10))
	}
	if user.CurrentPoints < 0 {
		report("current_points", ">= 0", strconv.FormatInt(user.CurrentPoints, 10))
	}

	pending, err := s.ReferralDAO.SumCommissions(ctx, uid, models.CommissionStatusPending)
	if err != nil {
		return nil, err
	}
	if !pending.Equal(user.CommissionPendingBalance) {
		report(colCommissionPending, pending.StringFixed(2), user.CommissionPendingBalance.StringFixed(2))
	}

	// 可提现 = 已入账佣金 - 未驳回的提现
	settled, err := s.ReferralDAO.SumCommissions(ctx, uid, models.CommissionStatusApproved, models.CommissionStatusPaid)
	if err != nil {
		return nil, err
	}
	reserved, err := s.ReferralDAO.SumPayouts(ctx, uid, models.PayoutStatusPending, models.PayoutStatusApproved, models.PayoutStatusPaid)
	if err != nil {
		return nil, err
	}
	if balance := settled.Sub(reserved); !balance.Equal(user.CommissionBalance) {
		report(colCommissionBalance, balance.StringFixed(2), user.CommissionBalance.StringFixed(2))
	}

	for field, v := range map[string]decimal.Decimal{
		colCommissionBalance: user.CommissionBalance,
		colCommissionPending: user.CommissionPendingBalance,
	} {
		if v.IsNegative() {
			report(field, ">= 0", v.StringFixed(2))
		}
	}
	return issues, nil
}
