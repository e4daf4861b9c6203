package service

import (
	"Orbit/config"
	"Orbit/dao"
	"Orbit/models"
	"Orbit/pkg/log"
	"Orbit/pkg/utils"
	"Orbit/types"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ReferralService struct {
	DB          *gorm.DB
	Ledger      *config.Ledger
	UserDAO     *dao.Users
	ReferralDAO *dao.Referral
}

var _ IReferralService = (*ReferralService)(nil)

type IReferralService interface {
	GetInviteCode(ctx context.Context, userID uint64) (string, error)
	BindInviter(ctx context.Context, inviteeID uint64, inviteCode string) (*models.UserReferral, error)
	GetReferralStats(ctx context.Context, userID uint64) (*types.ReferralStats, error)
}

// GetInviteCode 邀请码由用户ID经 hashids 编码得到，同一用户始终不变
func (s *ReferralService) GetInviteCode(_ context.Context, userID uint64) (string, error) {
	code, err := utils.GenHashID(s.Ledger.InviteSalt, userID)
	if err != nil {
		return "", fmt.Errorf("生成邀请码失败: %w", err)
	}
	return code, nil
}

func (s *ReferralService) BindInviter(ctx context.Context, inviteeID uint64, inviteCode string) (*models.UserReferral, error) {
	inviteCode = strings.TrimSpace(inviteCode)
	inviterID, err := utils.DecodeHashID(s.Ledger.InviteSalt, inviteCode)
	if err != nil {
		return nil, ErrInviteCodeInvalid
	}
	if inviterID == inviteeID {
		return nil, ErrSelfInvite
	}

	exist, err := s.UserDAO.IsExist(ctx, "id = ?", inviterID)
	if err != nil {
		return nil, fmt.Errorf("查询邀请人失败: %w", err)
	}
	if !exist {
		return nil, ErrInviteCodeInvalid
	}

	bound, err := s.ReferralDAO.FindInviter(ctx, nil, inviteeID)
	if err != nil {
		return nil, fmt.Errorf("查询邀请关系失败: %w", err)
	}
	if bound != nil {
		return nil, ErrAlreadyBound
	}

	ref := &models.UserReferral{
		InviterID:  inviterID,
		InviteeID:  inviteeID,
		InviteCode: inviteCode,
	}
	if err := s.ReferralDAO.CreateReferral(ctx, nil, ref); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyBound
		}
		return nil, fmt.Errorf("绑定邀请人失败: %w", err)
	}

	log.L.Info("inviter bound", zap.Uint64("inviter_id", inviterID), zap.Uint64("invitee_id", inviteeID))
	return ref, nil
}

func (s *ReferralService) GetReferralStats(ctx context.Context, userID uint64) (*types.ReferralStats, error) {
	user, err := s.UserDAO.FindById(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	count, err := s.ReferralDAO.CountInvitees(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("查询邀请人数失败: %w", err)
	}
	code, err := s.GetInviteCode(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &types.ReferralStats{
		InviteCode:               code,
		InviteeCount:             count,
		CommissionBalance:        user.CommissionBalance,
		CommissionPendingBalance: user.CommissionPendingBalance,
		TotalCommissionEarned:    user.TotalCommissionEarned,
	}, nil
}
