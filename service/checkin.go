package service

import (
	"Orbit/config"
	"Orbit/dao"
	"Orbit/dao/cache"
	"Orbit/models"
	"Orbit/pkg/database"
	"Orbit/pkg/log"
	"Orbit/types"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CheckinService struct {
	DB           *gorm.DB
	Ledger       *config.Ledger
	Clock        Clock
	CheckinCache *cache.CheckinStorage
	CheckinDAO   *dao.Checkin
	PointService IPointService
}

var _ ICheckinService = (*CheckinService)(nil)

type ICheckinService interface {
	PerformCheckin(ctx context.Context, userID uint64, roles []string) (*types.CheckinResult, error)
	GetCheckinStatus(ctx context.Context, userID uint64, roles []string) (*types.CheckinStatus, error)
	ListCheckinHistory(ctx context.Context, userID uint64, month string) (*types.CheckinHistory, error)

	// 后台规则管理
	CreateConfig(ctx context.Context, req *types.SaveCheckinConfigReq) (*models.CheckinConfig, error)
	UpdateConfig(ctx context.Context, id uint64, req *types.SaveCheckinConfigReq) (*models.CheckinConfig, error)
	ListConfigs(ctx context.Context, req *types.PageReq) (*types.Page[*models.CheckinConfig], error)
}

func (s *CheckinService) now() time.Time {
	return s.Clock().In(s.Ledger.Location())
}

func (s *CheckinService) PerformCheckin(ctx context.Context, userID uint64, roles []string) (*types.CheckinResult, error) {
	now := s.now()
	today := now.Format(dateLayout)

	var result *types.CheckinResult
	err := database.Transaction(ctx, s.DB, nil, s.Ledger.StatementTimeout, func(tx *gorm.DB) error {
		// 1. 今日是否已签到
		exist, err := s.CheckinDAO.FindByDate(ctx, tx, userID, today)
		if err != nil {
			return fmt.Errorf("查询签到记录失败: %w", err)
		}
		if exist != nil {
			return ErrAlreadyCheckedIn
		}

		// 2. 生效规则
		cfg, err := s.CheckinDAO.ResolveConfig(ctx, tx, roles)
		if err != nil {
			return fmt.Errorf("查询签到配置失败: %w", err)
		}
		if cfg == nil {
			return ErrCheckinUnavailable
		}

		// 3. 连续天数与奖励
		last, err := s.CheckinDAO.Latest(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("查询签到记录失败: %w", err)
		}
		days := NextStreak(last, now, cfg.MonthlyReset)
		bonus := ParseBonusTiers(cfg.ConsecutiveBonus).Bonus(days)
		total := cfg.DailyPoints + bonus

		record := &models.UserCheckin{
			UserID:          userID,
			CheckinDate:     today,
			PointsEarned:    total,
			ConsecutiveDays: days,
			IsBonus:         bonus > 0,
			BonusPoints:     bonus,
			ConfigID:        cfg.ID,
		}
		if err := s.CheckinDAO.Create(ctx, tx, record); err != nil {
			// 唯一索引冲突才是"已签到"的最终依据
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyCheckedIn
			}
			return fmt.Errorf("写入签到记录失败: %w", err)
		}

		result = &types.CheckinResult{
			Record:          record,
			DailyPoints:     cfg.DailyPoints,
			BonusPoints:     bonus,
			TotalPoints:     total,
			ConsecutiveDays: days,
			Config:          cfg,
		}
		if total <= 0 {
			return nil
		}

		// 4. 入账，与签到记录同一事务
		relatedID := record.ID
		change, err := s.PointService.AddPoints(ctx, tx, &types.AddPointsReq{
			UserID:      userID,
			Amount:      total,
			Type:        models.PointsTypeCheckin,
			Description: checkinDescription(days, cfg.DailyPoints, bonus),
			RelatedID:   &relatedID,
			RelatedType: "user_checkin",
		})
		if err != nil {
			return err
		}
		result.Points = change
		return nil
	})
	observe("checkin", err)
	if err != nil {
		return nil, err
	}

	s.CheckinCache.MarkToday(ctx, userID, today, result.ConsecutiveDays, untilNextMidnight(now))
	log.L.Info("user checked in",
		zap.Uint64("user_id", userID),
		zap.Int("consecutive_days", result.ConsecutiveDays),
		zap.Int64("points", result.TotalPoints),
	)
	return result, nil
}

func checkinDescription(days int, daily, bonus int64) string {
	if bonus > 0 {
		return fmt.Sprintf("每日签到 +%d，连续签到%d天奖励 +%d", daily, days, bonus)
	}
	return fmt.Sprintf("每日签到 +%d（连续%d天）", daily, days)
}

func (s *CheckinService) GetCheckinStatus(ctx context.Context, userID uint64, roles []string) (*types.CheckinStatus, error) {
	now := s.now()
	today := now.Format(dateLayout)

	cfg, err := s.CheckinDAO.ResolveConfig(ctx, nil, roles)
	if err != nil {
		return nil, fmt.Errorf("查询签到配置失败: %w", err)
	}
	status := &types.CheckinStatus{Config: cfg}

	if days, ok := s.CheckinCache.Get(ctx, userID, today); ok {
		status.CheckedInToday = true
		status.ConsecutiveDays = days
		return status, nil
	}

	last, err := s.CheckinDAO.Latest(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("查询签到记录失败: %w", err)
	}
	if last == nil {
		return status, nil
	}
	switch last.CheckinDate {
	case today:
		status.CheckedInToday = true
		status.TodayRecord = last
		status.ConsecutiveDays = last.ConsecutiveDays
		s.CheckinCache.MarkToday(ctx, userID, today, last.ConsecutiveDays, untilNextMidnight(now))
	case now.AddDate(0, 0, -1).Format(dateLayout):
		// 昨天签过，连续天数仍然有效；按月重置的规则跨月后从 0 开始
		status.ConsecutiveDays = last.ConsecutiveDays
		if cfg != nil && NextStreak(last, now, cfg.MonthlyReset) == 1 {
			status.ConsecutiveDays = 0
		}
	}
	return status, nil
}

func (s *CheckinService) ListCheckinHistory(ctx context.Context, userID uint64, month string) (*types.CheckinHistory, error) {
	if month == "" {
		month = s.now().Format("2006-01")
	} else if _, err := time.Parse("2006-01", month); err != nil {
		return nil, ErrInvalidMonth
	}

	records, err := s.CheckinDAO.ListByMonth(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("查询签到记录失败: %w", err)
	}
	history := &types.CheckinHistory{Month: month, Records: records, Days: len(records)}
	for _, r := range records {
		history.TotalPoints += r.PointsEarned
	}
	return history, nil
}

func (s *CheckinService) CreateConfig(ctx context.Context, req *types.SaveCheckinConfigReq) (*models.CheckinConfig, error) {
	bonus, err := encodeBonusTiers(req.ConsecutiveBonus)
	if err != nil {
		return nil, err
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	cfg := &models.CheckinConfig{
		Name:             req.Name,
		DailyPoints:      req.DailyPoints,
		ConsecutiveBonus: bonus,
		MonthlyReset:     req.MonthlyReset,
		IsActive:         active,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.CheckinDAO.CreateConfig(ctx, tx, cfg); err != nil {
			return err
		}
		return s.CheckinDAO.ReplaceConfigRoles(ctx, tx, cfg.ID, dedupe(req.Roles))
	})
	if err != nil {
		return nil, fmt.Errorf("创建签到配置失败: %w", err)
	}
	return s.CheckinDAO.FindConfig(ctx, nil, cfg.ID)
}

func (s *CheckinService) UpdateConfig(ctx context.Context, id uint64, req *types.SaveCheckinConfigReq) (*models.CheckinConfig, error) {
	bonus, err := encodeBonusTiers(req.ConsecutiveBonus)
	if err != nil {
		return nil, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.CheckinDAO.FindConfig(ctx, tx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCheckinConfigNotFound
			}
			return err
		}
		updates := map[string]interface{}{
			"name":              req.Name,
			"daily_points":      req.DailyPoints,
			"consecutive_bonus": bonus,
			"monthly_reset":     req.MonthlyReset,
		}
		if req.IsActive != nil {
			updates["is_active"] = *req.IsActive
		}
		if err := s.CheckinDAO.UpdateConfig(ctx, tx, id, updates); err != nil {
			return err
		}
		return s.CheckinDAO.ReplaceConfigRoles(ctx, tx, id, dedupe(req.Roles))
	})
	if err != nil {
		return nil, err
	}
	return s.CheckinDAO.FindConfig(ctx, nil, id)
}

func (s *CheckinService) ListConfigs(ctx context.Context, req *types.PageReq) (*types.Page[*models.CheckinConfig], error) {
	limit, offset := req.Normalize()
	configs, total, err := s.CheckinDAO.ListConfigs(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("查询签到配置失败: %w", err)
	}
	return types.NewPage(configs, total, limit, offset), nil
}

func encodeBonusTiers(tiers map[int]int64) (datatypes.JSON, error) {
	if tiers == nil {
		tiers = map[int]int64{}
	}
	for days, points := range tiers {
		if days <= 0 || points < 0 {
			return nil, ErrInvalidBonusTier
		}
	}
	raw, err := json.Marshal(tiers)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
