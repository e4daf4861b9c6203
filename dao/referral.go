package dao

import (
	"Orbit/models"
	"Orbit/pkg/database"
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Referral struct {
	Repo[models.ReferralCommission]
}

func NewReferral(db *gorm.DB) *Referral {
	return &Referral{
		Repo: NewRepo[models.ReferralCommission](db),
	}
}

// ---- 邀请关系 ----

// FindInviter 被邀请人的邀请关系，不存在时返回 nil
func (r *Referral) FindInviter(ctx context.Context, tx *gorm.DB, inviteeID uint64) (*models.UserReferral, error) {
	var rows []*models.UserReferral
	err := r.Conn(ctx, tx).Where("invitee_id = ?", inviteeID).Limit(1).Find(&rows).Error
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (r *Referral) CreateReferral(ctx context.Context, tx *gorm.DB, ref *models.UserReferral) error {
	return r.Conn(ctx, tx).Create(ref).Error
}

func (r *Referral) CountInvitees(ctx context.Context, inviterID uint64) (int64, error) {
	var count int64
	err := r.Db.WithContext(ctx).Model(&models.UserReferral{}).Where("inviter_id = ?", inviterID).Count(&count).Error
	return count, err
}

// ---- 返佣 ----

func (r *Referral) CreateCommission(ctx context.Context, tx *gorm.DB, c *models.ReferralCommission) error {
	return r.Conn(ctx, tx).Create(c).Error
}

func (r *Referral) HasCommission(ctx context.Context, orderID string) (bool, error) {
	return r.IsExist(ctx, "order_id = ?", orderID)
}

// CountCommissionsByInvitee 被邀请人已产生的返佣笔数，用于区分首充与续费
func (r *Referral) CountCommissionsByInvitee(ctx context.Context, tx *gorm.DB, inviteeID uint64) (int64, error) {
	var count int64
	err := r.Conn(ctx, tx).Model(&models.ReferralCommission{}).Where("invitee_id = ?", inviteeID).Count(&count).Error
	return count, err
}

// LockCommission 锁定返佣记录，不存在时返回 nil
func (r *Referral) LockCommission(ctx context.Context, tx *gorm.DB, id uint64) (*models.ReferralCommission, error) {
	var rows []*models.ReferralCommission
	err := r.Conn(ctx, tx).Clauses(database.ForUpdate()).Where("id = ?", id).Limit(1).Find(&rows).Error
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (r *Referral) UpdateCommission(ctx context.Context, tx *gorm.DB, id uint64, updates map[string]interface{}) error {
	return r.Conn(ctx, tx).Model(&models.ReferralCommission{}).Where("id = ?", id).Updates(updates).Error
}

func (r *Referral) ListCommissions(ctx context.Context, inviterID uint64, status string, limit, offset int) ([]*models.ReferralCommission, int64, error) {
	query := r.Db.WithContext(ctx).Model(&models.ReferralCommission{})
	if inviterID > 0 {
		query = query.Where("inviter_id = ?", inviterID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return Paginate[models.ReferralCommission](query, "id DESC", limit, offset)
}

// SumCommissions 某状态下的返佣总额
func (r *Referral) SumCommissions(ctx context.Context, inviterID uint64, statuses ...string) (decimal.Decimal, error) {
	var res struct {
		Total decimal.Decimal
	}
	err := r.Db.WithContext(ctx).Model(&models.ReferralCommission{}).
		Select("COALESCE(SUM(commission_amount), 0) AS total").
		Where("inviter_id = ? AND status IN ?", inviterID, statuses).
		Scan(&res).Error
	return res.Total, err
}

// AdjustBuckets 原子调整用户佣金余额字段，deltas 为 列名 -> 变化量
func (r *Referral) AdjustBuckets(ctx context.Context, tx *gorm.DB, userID uint64, deltas map[string]decimal.Decimal) error {
	updates := make(map[string]interface{}, len(deltas))
	for column, delta := range deltas {
		if delta.IsZero() {
			continue
		}
		updates[column] = gorm.Expr(column+" + ?", delta)
	}
	if len(updates) == 0 {
		return nil
	}
	return r.Conn(ctx, tx).Model(&models.Users{}).Where("id = ?", userID).Updates(updates).Error
}

// ---- 提现 ----

func (r *Referral) CreatePayout(ctx context.Context, tx *gorm.DB, req *models.ReferralPayoutRequest) error {
	return r.Conn(ctx, tx).Create(req).Error
}

// LockPayout 锁定提现申请，不存在时返回 nil
func (r *Referral) LockPayout(ctx context.Context, tx *gorm.DB, id uint64) (*models.ReferralPayoutRequest, error) {
	var rows []*models.ReferralPayoutRequest
	err := r.Conn(ctx, tx).Clauses(database.ForUpdate()).Where("id = ?", id).Limit(1).Find(&rows).Error
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (r *Referral) UpdatePayout(ctx context.Context, tx *gorm.DB, id uint64, updates map[string]interface{}) error {
	return r.Conn(ctx, tx).Model(&models.ReferralPayoutRequest{}).Where("id = ?", id).Updates(updates).Error
}

func (r *Referral) ListPayouts(ctx context.Context, userID uint64, status string, limit, offset int) ([]*models.ReferralPayoutRequest, int64, error) {
	query := r.Db.WithContext(ctx).Model(&models.ReferralPayoutRequest{})
	if userID > 0 {
		query = query.Where("user_id = ?", userID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return Paginate[models.ReferralPayoutRequest](query, "id DESC", limit, offset)
}

// SumPayouts 某些状态下的提现总额
func (r *Referral) SumPayouts(ctx context.Context, userID uint64, statuses ...string) (decimal.Decimal, error) {
	var res struct {
		Total decimal.Decimal
	}
	err := r.Db.WithContext(ctx).Model(&models.ReferralPayoutRequest{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND status IN ?", userID, statuses).
		Scan(&res).Error
	return res.Total, err
}

// FindSetting 用户提现账号配置，不存在时返回 nil
func (r *Referral) FindSetting(ctx context.Context, tx *gorm.DB, userID uint64) (*models.ReferralPayoutSetting, error) {
	var rows []*models.ReferralPayoutSetting
	err := r.Conn(ctx, tx).Where("user_id = ?", userID).Limit(1).Find(&rows).Error
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

// SaveSetting 按 user_id upsert
func (r *Referral) SaveSetting(ctx context.Context, tx *gorm.DB, setting *models.ReferralPayoutSetting) error {
	return r.Conn(ctx, tx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"method", "alipay_account", "alipay_name", "usdt_address", "usdt_network", "updated_at"}),
	}).Create(setting).Error
}
