package dao

import (
	"Orbit/models"
	"Orbit/pkg/database"
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type VirtualProduct struct {
	Repo[models.PointsProduct]
}

func NewVirtualProduct(db *gorm.DB) *VirtualProduct {
	return &VirtualProduct{
		Repo: NewRepo[models.PointsProduct](db),
	}
}

// LockProduct 锁定商品行，不存在时返回 nil
func (p *VirtualProduct) LockProduct(ctx context.Context, tx *gorm.DB, productID uint64) (*models.PointsProduct, error) {
	var products []*models.PointsProduct
	err := p.Conn(ctx, tx).Clauses(database.ForUpdate()).
		Where("id = ?", productID).
		Limit(1).
		Find(&products).Error
	if err != nil || len(products) == 0 {
		return nil, err
	}
	return products[0], nil
}

// ClaimAvailableItem 取一条可用卡密并加锁。
// SKIP LOCKED 让并发兑换的事务各自拿到不同的行，没有可用行时返回 nil
func (p *VirtualProduct) ClaimAvailableItem(ctx context.Context, tx *gorm.DB, productID uint64) (*models.VirtualProductItem, error) {
	var items []*models.VirtualProductItem
	err := p.Conn(ctx, tx).Clauses(database.ForUpdateSkipLocked()).
		Where("product_id = ? AND status = ?", productID, models.ItemStatusAvailable).
		Order("id").
		Limit(1).
		Find(&items).Error
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return items[0], nil
}

// MarkItemUsed available -> used，只会成功一次
func (p *VirtualProduct) MarkItemUsed(ctx context.Context, tx *gorm.DB, itemID, userID uint64, at time.Time) (int64, error) {
	result := p.Conn(ctx, tx).Model(&models.VirtualProductItem{}).
		Where("id = ? AND status = ?", itemID, models.ItemStatusAvailable).
		Updates(map[string]interface{}{
			"status":      models.ItemStatusUsed,
			"redeemed_by": userID,
			"redeemed_at": at,
		})
	return result.RowsAffected, result.Error
}

// DecrementStock 有限库存减一，最低为 0
func (p *VirtualProduct) DecrementStock(ctx context.Context, tx *gorm.DB, productID uint64) error {
	return p.Conn(ctx, tx).Model(&models.PointsProduct{}).
		Where("id = ? AND stock <> ?", productID, models.UnlimitedStock).
		Update("stock", gorm.Expr("CASE WHEN stock > 0 THEN stock - 1 ELSE 0 END")).Error
}

func (p *VirtualProduct) SetStock(ctx context.Context, tx *gorm.DB, productID uint64, stock int64) error {
	return p.Conn(ctx, tx).Model(&models.PointsProduct{}).
		Where("id = ?", productID).
		Update("stock", stock).Error
}

func (p *VirtualProduct) CreateExchange(ctx context.Context, tx *gorm.DB, exchange *models.PointsExchange) error {
	return p.Conn(ctx, tx).Create(exchange).Error
}

// CreateItems 批量写入卡密
func (p *VirtualProduct) CreateItems(ctx context.Context, tx *gorm.DB, items []*models.VirtualProductItem) error {
	if len(items) == 0 {
		return nil
	}
	return p.Conn(ctx, tx).CreateInBatches(items, 500).Error
}

// ExistingCodes 返回已存在的卡密，用于导入去重
func (p *VirtualProduct) ExistingCodes(ctx context.Context, tx *gorm.DB, productID uint64, codes []string) (map[string]struct{}, error) {
	found := make([]string, 0)
	err := p.Conn(ctx, tx).Model(&models.VirtualProductItem{}).
		Where("product_id = ? AND code IN ?", productID, codes).
		Pluck("code", &found).Error
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(found))
	for _, c := range found {
		set[c] = struct{}{}
	}
	return set, nil
}

func (p *VirtualProduct) CountAvailable(ctx context.Context, tx *gorm.DB, productID uint64) (int64, error) {
	var count int64
	err := p.Conn(ctx, tx).Model(&models.VirtualProductItem{}).
		Where("product_id = ? AND status = ?", productID, models.ItemStatusAvailable).
		Count(&count).Error
	return count, err
}

// ListActive 上架中的虚拟商品，tag 不为空时按标签过滤
func (p *VirtualProduct) ListActive(ctx context.Context, tag string, limit, offset int) ([]*models.PointsProduct, int64, error) {
	query := p.Db.WithContext(ctx).Model(&models.PointsProduct{}).
		Where("type = ? AND is_active = ?", models.ProductTypeVirtual, true)
	if tag != "" {
		query = query.Where(datatypes.JSONArrayQuery("tags").Contains(tag))
	}
	return Paginate[models.PointsProduct](query, "id DESC", limit, offset)
}

func (p *VirtualProduct) ListExchanges(ctx context.Context, userID uint64, limit, offset int) ([]*models.PointsExchange, int64, error) {
	query := p.Db.WithContext(ctx).Model(&models.PointsExchange{}).Where("user_id = ?", userID)
	return Paginate[models.PointsExchange](query, "id DESC", limit, offset)
}
