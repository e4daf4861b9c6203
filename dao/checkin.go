package dao

import (
	"Orbit/models"
	"context"

	"gorm.io/gorm"
)

type Checkin struct {
	Repo[models.UserCheckin]
}

func NewCheckin(db *gorm.DB) *Checkin {
	return &Checkin{
		Repo: NewRepo[models.UserCheckin](db),
	}
}

// FindByDate 查询某天的签到记录，不存在时返回 nil
func (c *Checkin) FindByDate(ctx context.Context, tx *gorm.DB, userID uint64, date string) (*models.UserCheckin, error) {
	var records []*models.UserCheckin
	err := c.Conn(ctx, tx).
		Where("user_id = ? AND checkin_date = ?", userID, date).
		Limit(1).
		Find(&records).Error
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return records[0], nil
}

// Latest 用户最近一次签到，不存在时返回 nil
func (c *Checkin) Latest(ctx context.Context, tx *gorm.DB, userID uint64) (*models.UserCheckin, error) {
	var records []*models.UserCheckin
	err := c.Conn(ctx, tx).
		Where("user_id = ?", userID).
		Order("checkin_date DESC").
		Limit(1).
		Find(&records).Error
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return records[0], nil
}

// ListByMonth month 形如 2006-01
func (c *Checkin) ListByMonth(ctx context.Context, userID uint64, month string) ([]*models.UserCheckin, error) {
	records := make([]*models.UserCheckin, 0)
	err := c.Db.WithContext(ctx).
		Where("user_id = ? AND checkin_date LIKE ?", userID, month+"-%").
		Order("checkin_date").
		Find(&records).Error
	return records, err
}

// ResolveConfig 一次查询选出生效的签到规则：
// 启用中，且（未绑定任何角色 或 绑定角色与用户角色有交集），取最新创建的一条。
// 不存在时返回 nil
func (c *Checkin) ResolveConfig(ctx context.Context, tx *gorm.DB, roles []string) (*models.CheckinConfig, error) {
	query := c.Conn(ctx, tx).Model(&models.CheckinConfig{}).Where("is_active = ?", true)

	unbound := "NOT EXISTS (SELECT 1 FROM checkin_config_roles r WHERE r.config_id = checkin_configs.id)"
	if len(roles) > 0 {
		query = query.Where("("+unbound+" OR EXISTS (SELECT 1 FROM checkin_config_roles r WHERE r.config_id = checkin_configs.id AND r.role IN ?))", roles)
	} else {
		query = query.Where(unbound)
	}

	var configs []*models.CheckinConfig
	err := query.Order("created_at DESC").Order("id DESC").Limit(1).Find(&configs).Error
	if err != nil || len(configs) == 0 {
		return nil, err
	}
	return configs[0], nil
}

func (c *Checkin) FindConfig(ctx context.Context, tx *gorm.DB, id uint64) (*models.CheckinConfig, error) {
	var cfg models.CheckinConfig
	err := c.Conn(ctx, tx).Preload("Roles").First(&cfg, id).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Checkin) CreateConfig(ctx context.Context, tx *gorm.DB, cfg *models.CheckinConfig) error {
	return c.Conn(ctx, tx).Create(cfg).Error
}

func (c *Checkin) UpdateConfig(ctx context.Context, tx *gorm.DB, id uint64, updates map[string]interface{}) error {
	return c.Conn(ctx, tx).Model(&models.CheckinConfig{}).Where("id = ?", id).Updates(updates).Error
}

// ReplaceConfigRoles 覆盖规则绑定的角色
func (c *Checkin) ReplaceConfigRoles(ctx context.Context, tx *gorm.DB, configID uint64, roles []string) error {
	conn := c.Conn(ctx, tx)
	if err := conn.Where("config_id = ?", configID).Delete(&models.CheckinConfigRole{}).Error; err != nil {
		return err
	}
	if len(roles) == 0 {
		return nil
	}
	bindings := make([]models.CheckinConfigRole, 0, len(roles))
	for _, r := range roles {
		bindings = append(bindings, models.CheckinConfigRole{ConfigID: configID, Role: r})
	}
	return conn.Create(&bindings).Error
}

func (c *Checkin) ListConfigs(ctx context.Context, limit, offset int) ([]*models.CheckinConfig, int64, error) {
	query := c.Db.WithContext(ctx).Model(&models.CheckinConfig{})
	return Paginate[models.CheckinConfig](query, "id DESC", limit, offset, "Roles")
}
