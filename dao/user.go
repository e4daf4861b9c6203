package dao

import (
	"Orbit/models"
	"Orbit/pkg/database"
	"context"
	"fmt"

	"gorm.io/gorm"
)

type Users struct {
	Repo[models.Users]
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{
		Repo: NewRepo[models.Users](db),
	}
}

// LockByID SELECT ... FOR UPDATE 锁定用户行，所有余额读改写前必须先调用
func (u *Users) LockByID(ctx context.Context, tx *gorm.DB, userID uint64) (*models.Users, error) {
	var user models.Users
	err := u.Conn(ctx, tx).Clauses(database.ForUpdate()).
		Where("id = ?", userID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListRoles 用户角色列表
func (u *Users) ListRoles(ctx context.Context, userID uint64) ([]string, error) {
	roles := make([]string, 0)
	err := u.Db.WithContext(ctx).Model(&models.UserRole{}).
		Where("user_id = ?", userID).
		Order("role").
		Pluck("role", &roles).Error
	return roles, err
}

// ListIDs 按 ID 游标批量取用户，供对账使用
func (u *Users) ListIDs(ctx context.Context, afterID uint64, limit int) ([]uint64, error) {
	ids := make([]uint64, 0, limit)
	err := u.Db.WithContext(ctx).Model(&models.Users{}).
		Where("id > ?", afterID).
		Order("id").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

func (u *Users) Update(ctx context.Context, tx *gorm.DB, userID uint64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	err := u.Conn(ctx, tx).
		Model(&models.Users{}).
		Where("id = ?", userID).
		Updates(updates).Error

	if err != nil {
		return fmt.Errorf("dao.Users.Update error: %w", err)
	}

	return nil
}
