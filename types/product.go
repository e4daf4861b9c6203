package types

import (
	"Orbit/models"
	"encoding/json"
)

type CreateVirtualProductReq struct {
	Name        string          `json:"name" binding:"required,max=128"`
	PointsCost  int64           `json:"points_cost" binding:"required,gt=0"`
	Stock       *int64          `json:"stock"` // 为空或 -1 表示不限库存
	Tags        []string        `json:"tags"`
	Details     json.RawMessage `json:"details"`
	Description string          `json:"description"`
	CoverImage  string          `json:"cover_image"`
	IsActive    *bool           `json:"is_active"`
}

// ImportItemsReq 批量导入卡密
type ImportItemsReq struct {
	Codes []string `json:"codes" binding:"required,min=1,max=5000"`
}

type ImportItemsResult struct {
	BatchID  string `json:"batch_id"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Stock    int64  `json:"stock"`
}

type ListProductsReq struct {
	PageReq
	Tag string `form:"tag"`
}

// ProductDetail 商品详情，附可用库存数
type ProductDetail struct {
	*models.PointsProduct
	AvailableItems int64  `json:"available_items"`
	Usage          string `json:"usage,omitempty"` // details.usage
}

// RedeemResult 兑换结果
type RedeemResult struct {
	Product  *models.PointsProduct      `json:"product"`
	Item     *models.VirtualProductItem `json:"item"`
	Exchange *models.PointsExchange     `json:"exchange"`
	Points   *PointsChange              `json:"points"`
}
