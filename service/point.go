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

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PointService struct {
	DB       *gorm.DB
	Ledger   *config.Ledger
	UserDAO  *dao.Users
	PointDAO *dao.Point
}

var _ IPointService = (*PointService)(nil)

// IPointService 积分账本。
// AddPoints / DeductPoints 的 tx 为事务上下文：传入时加入调用方事务，为 nil 时自行开启事务
type IPointService interface {
	AddPoints(ctx context.Context, tx *gorm.DB, req *types.AddPointsReq) (*types.PointsChange, error)
	DeductPoints(ctx context.Context, tx *gorm.DB, req *types.DeductPointsReq) (*types.PointsChange, error)
	AdminAdjust(ctx context.Context, operatorID uint64, req *types.AdminAdjustPointsReq) (*types.PointsChange, error)

	// 查询
	GetAccount(ctx context.Context, userID uint64) (*types.PointsAccount, error)
	ListPointRecords(ctx context.Context, userID uint64, req *types.ListPointRecordsReq) (*types.Page[*models.PointsRecord], error)
}

func (p *PointService) AddPoints(ctx context.Context, tx *gorm.DB, req *types.AddPointsReq) (*types.PointsChange, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidPoints
	}
	if _, ok := models.PointsTypes[req.Type]; !ok {
		return nil, ErrInvalidPointsType
	}

	var change *types.PointsChange
	err := database.Transaction(ctx, p.DB, tx, p.Ledger.StatementTimeout, func(tx *gorm.DB) error {
		user, err := p.lockUser(ctx, tx, req.UserID)
		if err != nil {
			return err
		}

		if _, err := p.PointDAO.IncreaseBalance(ctx, tx, req.UserID, req.Amount); err != nil {
			return fmt.Errorf("更新用户积分余额失败: %w", err)
		}

		record := &models.PointsRecord{
			UserID:       req.UserID,
			Amount:       req.Amount,
			BalanceAfter: user.CurrentPoints + req.Amount,
			Type:         req.Type,
			Description:  req.Description,
			RelatedID:    req.RelatedID,
			RelatedType:  req.RelatedType,
			OperatorID:   req.OperatorID,
		}
		if err := p.PointDAO.CreateRecord(ctx, tx, record); err != nil {
			return fmt.Errorf("写入积分流水失败: %w", err)
		}

		change = &types.PointsChange{
			Record:       record,
			BalanceAfter: record.BalanceAfter,
			TotalEarned:  user.TotalEarned + req.Amount,
			TotalSpent:   user.TotalSpent,
		}
		return nil
	})
	observe("points_add", err)
	if err != nil {
		return nil, err
	}

	log.L.Info("points added",
		zap.Uint64("user_id", req.UserID),
		zap.Int64("amount", req.Amount),
		zap.String("type", req.Type),
		zap.Int64("balance_after", change.BalanceAfter),
	)
	return change, nil
}

func (p *PointService) DeductPoints(ctx context.Context, tx *gorm.DB, req *types.DeductPointsReq) (*types.PointsChange, error) {
	if req.Points <= 0 {
		return nil, ErrInvalidPoints
	}
	if _, ok := models.PointsTypes[req.Source]; !ok {
		return nil, ErrInvalidPointsType
	}

	var change *types.PointsChange
	err := database.Transaction(ctx, p.DB, tx, p.Ledger.StatementTimeout, func(tx *gorm.DB) error {
		user, err := p.lockUser(ctx, tx, req.UserID)
		if err != nil {
			return err
		}
		if user.CurrentPoints < req.Points {
			return ErrInsufficientPoints
		}

		rows, err := p.PointDAO.DecreaseBalance(ctx, tx, req.UserID, req.Points)
		if err != nil {
			return fmt.Errorf("更新用户积分余额失败: %w", err)
		}
		if rows == 0 {
			return ErrInsufficientPoints
		}

		record := &models.PointsRecord{
			UserID:       req.UserID,
			Amount:       -req.Points,
			BalanceAfter: user.CurrentPoints - req.Points,
			Type:         req.Source,
			Description:  req.Description,
			RelatedID:    req.ReferenceID,
			RelatedType:  req.ReferenceType,
			OperatorID:   req.OperatorID,
		}
		if err := p.PointDAO.CreateRecord(ctx, tx, record); err != nil {
			return fmt.Errorf("写入积分流水失败: %w", err)
		}

		change = &types.PointsChange{
			Record:       record,
			BalanceAfter: record.BalanceAfter,
			TotalEarned:  user.TotalEarned,
			TotalSpent:   user.TotalSpent + req.Points,
		}
		return nil
	})
	observe("points_deduct", err)
	if err != nil {
		return nil, err
	}

	log.L.Info("points deducted",
		zap.Uint64("user_id", req.UserID),
		zap.Int64("points", req.Points),
		zap.String("source", req.Source),
		zap.Int64("balance_after", change.BalanceAfter),
	)
	return change, nil
}

// AdminAdjust 后台调整积分，正数走增加，负数走扣减
func (p *PointService) AdminAdjust(ctx context.Context, operatorID uint64, req *types.AdminAdjustPointsReq) (*types.PointsChange, error) {
	operator := operatorID
	switch {
	case req.Delta > 0:
		return p.AddPoints(ctx, nil, &types.AddPointsReq{
			UserID:      req.UserID,
			Amount:      req.Delta,
			Type:        models.PointsTypeAdminAdjust,
			Description: req.Reason,
			OperatorID:  &operator,
		})
	case req.Delta < 0:
		return p.DeductPoints(ctx, nil, &types.DeductPointsReq{
			UserID:      req.UserID,
			Points:      -req.Delta,
			Source:      models.PointsTypeAdminAdjust,
			Description: req.Reason,
			OperatorID:  &operator,
		})
	default:
		return nil, ErrInvalidPoints
	}
}

func (p *PointService) GetAccount(ctx context.Context, userID uint64) (*types.PointsAccount, error) {
	user, err := p.UserDAO.FindById(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("查询积分账户失败: %w", err)
	}
	return &types.PointsAccount{
		UserID:        user.ID,
		CurrentPoints: user.CurrentPoints,
		TotalEarned:   user.TotalEarned,
		TotalSpent:    user.TotalSpent,
	}, nil
}

func (p *PointService) ListPointRecords(ctx context.Context, userID uint64, req *types.ListPointRecordsReq) (*types.Page[*models.PointsRecord], error) {
	limit, offset := req.Normalize()
	records, total, err := p.PointDAO.ListRecords(ctx, userID, req.Action, req.Type, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("查询积分流水失败: %w", err)
	}
	return types.NewPage(records, total, limit, offset), nil
}

func (p *PointService) lockUser(ctx context.Context, tx *gorm.DB, userID uint64) (*models.Users, error) {
	user, err := p.UserDAO.LockByID(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("锁定用户失败: %w", err)
	}
	return user, nil
}
