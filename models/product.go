package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ProductTypeVirtual = "virtual"

	// UnlimitedStock 不限库存
	UnlimitedStock = -1

	ItemStatusAvailable = "available"
	ItemStatusUsed      = "used"

	ExchangeStatusCompleted = "completed"
)

// PointsProduct 积分商城商品，对应 points_products 表
type PointsProduct struct {
	ID          uint64                      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name        string                      `gorm:"size:128;not null;column:name" json:"name"`
	Type        string                      `gorm:"size:16;not null;default:'virtual';column:type" json:"type"`
	PointsCost  int64                       `gorm:"not null;column:points_cost" json:"points_cost"`
	Stock       int64                       `gorm:"not null;column:stock" json:"stock"` // -1 表示不限
	Tags        datatypes.JSONSlice[string] `gorm:"column:tags" json:"tags"`
	IsActive    bool                        `gorm:"not null;index:idx_product_active;column:is_active" json:"is_active"`
	Details     datatypes.JSON              `gorm:"column:details" json:"details"`
	Description string                      `gorm:"type:text;column:description" json:"description"`
	CoverImage  string                      `gorm:"size:512;default:'';column:cover_image" json:"cover_image"`
	CreatedAt   time.Time                   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time                   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt              `gorm:"index;column:deleted_at" json:"-"`
}

func (PointsProduct) TableName() string {
	return "points_products"
}

// TracksStock 是否为有限库存
func (p *PointsProduct) TracksStock() bool {
	return p.Stock != UnlimitedStock
}

// VirtualProductItem 虚拟商品库存条目（卡密），状态只会从 available 变为 used
type VirtualProductItem struct {
	ID         uint64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	ProductID  uint64     `gorm:"not null;index:idx_item_product_status;column:product_id" json:"product_id"`
	Code       string     `gorm:"size:255;not null;column:code" json:"code"`
	Status     string     `gorm:"size:16;not null;default:'available';index:idx_item_product_status;column:status" json:"status"`
	BatchID    string     `gorm:"size:36;index;column:batch_id" json:"batch_id"`
	RedeemedBy *uint64    `gorm:"column:redeemed_by" json:"redeemed_by,omitempty"`
	RedeemedAt *time.Time `gorm:"column:redeemed_at" json:"redeemed_at,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (VirtualProductItem) TableName() string {
	return "virtual_product_items"
}

// PointsExchange 兑换记录，冗余商品价格与卡密
type PointsExchange struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	ExchangeNo  string    `gorm:"size:32;not null;uniqueIndex:uk_exchange_no;column:exchange_no" json:"exchange_no"`
	UserID      uint64    `gorm:"not null;index:idx_exchange_user;column:user_id" json:"user_id"`
	ProductID   uint64    `gorm:"not null;column:product_id" json:"product_id"`
	ProductName string    `gorm:"size:128;column:product_name" json:"product_name"`
	ItemID      uint64    `gorm:"not null;column:item_id" json:"item_id"`
	PointsCost  int64     `gorm:"not null;column:points_cost" json:"points_cost"`
	Code        string    `gorm:"size:255;column:code" json:"code"`
	Status      string    `gorm:"size:16;not null;column:status" json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PointsExchange) TableName() string {
	return "points_exchanges"
}
