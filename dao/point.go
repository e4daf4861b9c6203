package dao

import (
	"Orbit/models"
	"context"

	"gorm.io/gorm"
)

type Point struct {
	Repo[models.PointsRecord]
}

func NewPoint(db *gorm.DB) *Point {
	return &Point{
		Repo: NewRepo[models.PointsRecord](db),
	}
}

// IncreaseBalance 增加积分余额与累计获得
func (p *Point) IncreaseBalance(ctx context.Context, tx *gorm.DB, userID uint64, amount int64) (int64, error) {
	result := p.Conn(ctx, tx).Model(&models.Users{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			// gorm.Expr 保证了并发下的原子加减，避免数据覆盖
			"current_points": gorm.Expr("current_points + ?", amount),
			"total_earned":   gorm.Expr("total_earned + ?", amount),
		})
	return result.RowsAffected, result.Error
}

// DecreaseBalance 扣减积分余额并累加累计消耗，余额不足时影响行数为 0
func (p *Point) DecreaseBalance(ctx context.Context, tx *gorm.DB, userID uint64, points int64) (int64, error) {
	result := p.Conn(ctx, tx).Model(&models.Users{}).
		Where("id = ? AND current_points >= ?", userID, points).
		Updates(map[string]interface{}{
			"current_points": gorm.Expr("current_points - ?", points),
			"total_spent":    gorm.Expr("total_spent + ?", points),
		})
	return result.RowsAffected, result.Error
}

func (p *Point) CreateRecord(ctx context.Context, tx *gorm.DB, record *models.PointsRecord) error {
	return p.Conn(ctx, tx).Create(record).Error
}

// ListRecords 分页筛选查询，action: income / expense
func (p *Point) ListRecords(ctx context.Context, userID uint64, action, recordType string, limit, offset int) ([]*models.PointsRecord, int64, error) {
	query := p.Db.WithContext(ctx).Model(&models.PointsRecord{}).Where("user_id = ?", userID)

	switch action {
	case "income":
		query = query.Where("amount > ?", 0)
	case "expense":
		query = query.Where("amount < ?", 0)
	}
	if recordType != "" {
		query = query.Where("type = ?", recordType)
	}

	return Paginate[models.PointsRecord](query, "id DESC", limit, offset)
}

// SumAmount 用户流水总和，应与 users.current_points 相等
func (p *Point) SumAmount(ctx context.Context, userID uint64) (int64, error) {
	var res struct {
		Total int64
	}
	err := p.Db.WithContext(ctx).Model(&models.PointsRecord{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ?", userID).
		Scan(&res).Error
	return res.Total, err
}
