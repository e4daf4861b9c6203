package service

import (
	"Orbit/config"
	"Orbit/dao"
	"Orbit/models"
	"Orbit/pkg/database"
	"Orbit/pkg/log"
	"Orbit/pkg/snowflake"
	"Orbit/types"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type VirtualProductService struct {
	DB           *gorm.DB
	Ledger       *config.Ledger
	Clock        Clock
	ProductDAO   *dao.VirtualProduct
	PointService IPointService
}

var _ IVirtualProductService = (*VirtualProductService)(nil)

type IVirtualProductService interface {
	// RedeemVirtualProduct 积分兑换虚拟商品，扣积分、发卡密、写兑换记录在同一事务内完成
	RedeemVirtualProduct(ctx context.Context, productID, userID uint64) (*types.RedeemResult, error)

	GetProduct(ctx context.Context, productID uint64) (*types.ProductDetail, error)
	ListProducts(ctx context.Context, req *types.ListProductsReq) (*types.Page[*models.PointsProduct], error)
	ListExchanges(ctx context.Context, userID uint64, req *types.PageReq) (*types.Page[*models.PointsExchange], error)

	// 后台
	CreateProduct(ctx context.Context, req *types.CreateVirtualProductReq) (*models.PointsProduct, error)
	ImportItems(ctx context.Context, productID uint64, req *types.ImportItemsReq) (*types.ImportItemsResult, error)
}

func (s *VirtualProductService) RedeemVirtualProduct(ctx context.Context, productID, userID uint64) (*types.RedeemResult, error) {
	var result *types.RedeemResult
	err := database.Transaction(ctx, s.DB, nil, s.Ledger.StatementTimeout, func(tx *gorm.DB) error {
		// 1. 锁商品
		product, err := s.ProductDAO.LockProduct(ctx, tx, productID)
		if err != nil {
			return fmt.Errorf("查询商品失败: %w", err)
		}
		if product == nil || product.Type != models.ProductTypeVirtual || !product.IsActive {
			return ErrProductUnavailable
		}

		// 2. 取一条可用卡密
		item, err := s.ProductDAO.ClaimAvailableItem(ctx, tx, productID)
		if err != nil {
			return fmt.Errorf("查询商品库存失败: %w", err)
		}
		if item == nil {
			return ErrOutOfStock
		}

		// 3. 扣积分
		change, err := s.PointService.DeductPoints(ctx, tx, &types.DeductPointsReq{
			UserID:        userID,
			Points:        product.PointsCost,
			Source:        models.PointsTypePointsMall,
			Description:   "兑换 " + product.Name,
			ReferenceID:   &product.ID,
			ReferenceType: "points_product",
		})
		if err != nil {
			return err
		}

		// 4. 兑换记录、卡密、库存
		exchange := &models.PointsExchange{
			ExchangeNo:  snowflake.GenSn("EX"),
			UserID:      userID,
			ProductID:   product.ID,
			ProductName: product.Name,
			ItemID:      item.ID,
			PointsCost:  product.PointsCost,
			Code:        item.Code,
			Status:      models.ExchangeStatusCompleted,
		}
		if err := s.ProductDAO.CreateExchange(ctx, tx, exchange); err != nil {
			return fmt.Errorf("写入兑换记录失败: %w", err)
		}

		now := s.Clock()
		rows, err := s.ProductDAO.MarkItemUsed(ctx, tx, item.ID, userID, now)
		if err != nil {
			return fmt.Errorf("更新卡密状态失败: %w", err)
		}
		if rows == 0 {
			return ErrOutOfStock
		}
		item.Status = models.ItemStatusUsed
		item.RedeemedBy = &userID
		item.RedeemedAt = &now

		if product.TracksStock() {
			if err := s.ProductDAO.DecrementStock(ctx, tx, product.ID); err != nil {
				return fmt.Errorf("扣减库存失败: %w", err)
			}
			if product.Stock > 0 {
				product.Stock--
			}
		}

		result = &types.RedeemResult{
			Product:  product,
			Item:     item,
			Exchange: exchange,
			Points:   change,
		}
		return nil
	})
	observe("redeem", err)
	if err != nil {
		log.L.Warn("redeem rolled back",
			zap.Uint64("user_id", userID),
			zap.Uint64("product_id", productID),
			zap.Error(err),
		)
		return nil, err
	}

	log.L.Info("virtual product redeemed",
		zap.Uint64("user_id", userID),
		zap.Uint64("product_id", productID),
		zap.String("exchange_no", result.Exchange.ExchangeNo),
	)
	return result, nil
}

func (s *VirtualProductService) GetProduct(ctx context.Context, productID uint64) (*types.ProductDetail, error) {
	product, err := s.ProductDAO.FindById(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("查询商品失败: %w", err)
	}
	available, err := s.ProductDAO.CountAvailable(ctx, nil, productID)
	if err != nil {
		return nil, fmt.Errorf("查询商品库存失败: %w", err)
	}

	detail := &types.ProductDetail{PointsProduct: product, AvailableItems: available}
	if len(product.Details) > 0 {
		detail.Usage = gjson.GetBytes(product.Details, "usage").String()
	}
	return detail, nil
}

func (s *VirtualProductService) ListProducts(ctx context.Context, req *types.ListProductsReq) (*types.Page[*models.PointsProduct], error) {
	limit, offset := req.Normalize()
	products, total, err := s.ProductDAO.ListActive(ctx, req.Tag, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("查询商品列表失败: %w", err)
	}
	return types.NewPage(products, total, limit, offset), nil
}

func (s *VirtualProductService) ListExchanges(ctx context.Context, userID uint64, req *types.PageReq) (*types.Page[*models.PointsExchange], error) {
	limit, offset := req.Normalize()
	exchanges, total, err := s.ProductDAO.ListExchanges(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("查询兑换记录失败: %w", err)
	}
	return types.NewPage(exchanges, total, limit, offset), nil
}

func (s *VirtualProductService) CreateProduct(ctx context.Context, req *types.CreateVirtualProductReq) (*models.PointsProduct, error) {
	var details datatypes.JSON
	if len(req.Details) > 0 {
		if !json.Valid(req.Details) {
			return nil, ErrInvalidDetails
		}
		details = datatypes.JSON(req.Details)
	}

	stock := int64(models.UnlimitedStock)
	if req.Stock != nil && *req.Stock >= 0 {
		stock = *req.Stock
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	product := &models.PointsProduct{
		Name:        req.Name,
		Type:        models.ProductTypeVirtual,
		PointsCost:  req.PointsCost,
		Stock:       stock,
		Tags:        datatypes.NewJSONSlice(tags),
		IsActive:    active,
		Details:     details,
		Description: req.Description,
		CoverImage:  req.CoverImage,
	}
	if err := s.ProductDAO.Create(ctx, nil, product); err != nil {
		return nil, fmt.Errorf("创建商品失败: %w", err)
	}
	return product, nil
}

// ImportItems 导入卡密，跳过空白与重复。有限库存的商品按可用卡密数重算库存
func (s *VirtualProductService) ImportItems(ctx context.Context, productID uint64, req *types.ImportItemsReq) (*types.ImportItemsResult, error) {
	codes := make([]string, 0, len(req.Codes))
	for _, c := range req.Codes {
		codes = append(codes, strings.TrimSpace(c))
	}
	codes = dedupe(codes)
	if len(codes) == 0 {
		return nil, ErrNoCodes
	}

	result := &types.ImportItemsResult{BatchID: uuid.NewString()}
	err := database.Transaction(ctx, s.DB, nil, s.Ledger.StatementTimeout, func(tx *gorm.DB) error {
		product, err := s.ProductDAO.LockProduct(ctx, tx, productID)
		if err != nil {
			return fmt.Errorf("查询商品失败: %w", err)
		}
		if product == nil {
			return ErrProductNotFound
		}

		existing, err := s.ProductDAO.ExistingCodes(ctx, tx, productID, codes)
		if err != nil {
			return fmt.Errorf("查询已有卡密失败: %w", err)
		}
		items := make([]*models.VirtualProductItem, 0, len(codes))
		for _, code := range codes {
			if _, ok := existing[code]; ok {
				continue
			}
			items = append(items, &models.VirtualProductItem{
				ProductID: productID,
				Code:      code,
				Status:    models.ItemStatusAvailable,
				BatchID:   result.BatchID,
			})
		}
		if err := s.ProductDAO.CreateItems(ctx, tx, items); err != nil {
			return fmt.Errorf("写入卡密失败: %w", err)
		}
		result.Imported = len(items)
		result.Skipped = len(req.Codes) - len(items)

		result.Stock = product.Stock
		if !product.TracksStock() {
			return nil
		}
		available, err := s.ProductDAO.CountAvailable(ctx, tx, productID)
		if err != nil {
			return fmt.Errorf("查询商品库存失败: %w", err)
		}
		if err := s.ProductDAO.SetStock(ctx, tx, productID, available); err != nil {
			return fmt.Errorf("更新库存失败: %w", err)
		}
		result.Stock = available
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.L.Info("virtual items imported",
		zap.Uint64("product_id", productID),
		zap.String("batch_id", result.BatchID),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}
