package service

import (
	"Orbit/models"
	"Orbit/types"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func (f *fixture) createProduct(cost int64, stock *int64, codes ...string) *models.PointsProduct {
	f.t.Helper()
	ctx := f.t.Context()
	product, err := f.products.CreateProduct(ctx, &types.CreateVirtualProductReq{
		Name:       "会员月卡",
		PointsCost: cost,
		Stock:      stock,
		Tags:       []string{"vip"},
		Details:    json.RawMessage(`{"usage":"在个人中心兑换"}`),
	})
	require.NoError(f.t, err)
	if len(codes) > 0 {
		_, err := f.products.ImportItems(ctx, product.ID, &types.ImportItemsReq{Codes: codes})
		require.NoError(f.t, err)
	}
	return product
}

func (f *fixture) fund(userID uint64, points int64) {
	f.t.Helper()
	_, err := f.points.AddPoints(f.t.Context(), nil, &types.AddPointsReq{
		UserID: userID, Amount: points, Type: models.PointsTypePurchase,
	})
	require.NoError(f.t, err)
}

func TestRedeem_Success(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	user := f.createUser()
	f.fund(user.ID, 100)
	product := f.createProduct(30, int64Ptr(0), "CODE-1", "CODE-2")

	res, err := f.products.RedeemVirtualProduct(ctx, product.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "CODE-1", res.Item.Code)
	assert.Equal(t, models.ItemStatusUsed, res.Item.Status)
	assert.Equal(t, int64(70), res.Points.BalanceAfter)
	assert.Equal(t, "CODE-1", res.Exchange.Code)
	assert.NotEmpty(t, res.Exchange.ExchangeNo)
	assert.Equal(t, int64(1), res.Product.Stock)

	detail, err := f.products.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.AvailableItems)
	assert.Equal(t, int64(1), detail.Stock)
	assert.Equal(t, "在个人中心兑换", detail.Usage)

	exchanges, err := f.products.ListExchanges(ctx, user.ID, &types.PageReq{})
	require.NoError(t, err)
	assert.Len(t, exchanges.Items, 1)
	f.requireReconciled(user.ID)
}

// SQLite 夹具只有一个连接，10 个请求实际上是排队执行的，这里验证的是结果而不是锁。
// FOR UPDATE SKIP LOCKED 的真实并发路径见 TestRedeem_ConcurrentSingleItemOnServer
func TestRedeem_ConcurrentSingleItem(t *testing.T) {
	assertSingleWinner(t, newFixture(t))
}

// 需要 ORBIT_TEST_DSN，多连接下由行锁保证只有一个请求拿到卡密
func TestRedeem_ConcurrentSingleItemOnServer(t *testing.T) {
	assertSingleWinner(t, newServerFixture(t))
}

func assertSingleWinner(t *testing.T, f *fixture) {
	t.Helper()
	ctx := t.Context()
	user := f.createUser()
	f.fund(user.ID, 1000)
	product := f.createProduct(10, int64Ptr(0), "ONLY-ONE")

	var ok, outOfStock, other atomic.Int32
	var wg conc.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Go(func() {
			_, err := f.products.RedeemVirtualProduct(ctx, product.ID, user.ID)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, ErrOutOfStock):
				outOfStock.Add(1)
			default:
				other.Add(1)
			}
		})
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(9), outOfStock.Load())
	assert.Equal(t, int32(0), other.Load())

	detail, err := f.products.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), detail.AvailableItems)
	assert.Equal(t, int64(0), detail.Stock)
	assert.Equal(t, int64(990), f.reload(user.ID).CurrentPoints)
	f.requireReconciled(user.ID)
}

func TestRedeem_InsufficientPointsRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	user := f.createUser()
	f.fund(user.ID, 5)
	product := f.createProduct(10, nil, "CODE-1")

	_, err := f.products.RedeemVirtualProduct(ctx, product.ID, user.ID)
	require.ErrorIs(t, err, ErrInsufficientPoints)

	detail, err := f.products.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.AvailableItems)
	assert.Equal(t, int64(models.UnlimitedStock), detail.Stock)

	var exchanges int64
	require.NoError(t, f.db.Model(&models.PointsExchange{}).Count(&exchanges).Error)
	assert.Zero(t, exchanges)
	assert.Equal(t, int64(5), f.reload(user.ID).CurrentPoints)
}

func TestRedeem_Unavailable(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	user := f.createUser()
	f.fund(user.ID, 100)

	_, err := f.products.RedeemVirtualProduct(ctx, 404, user.ID)
	assert.ErrorIs(t, err, ErrProductUnavailable)

	off, err := f.products.CreateProduct(ctx, &types.CreateVirtualProductReq{Name: "下架", PointsCost: 1, IsActive: boolPtr(false)})
	require.NoError(t, err)
	_, err = f.products.RedeemVirtualProduct(ctx, off.ID, user.ID)
	assert.ErrorIs(t, err, ErrProductUnavailable)

	empty := f.createProduct(1, nil)
	_, err = f.products.RedeemVirtualProduct(ctx, empty.ID, user.ID)
	assert.ErrorIs(t, err, ErrOutOfStock)
}

func TestImportItems_DedupeAndStock(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	product := f.createProduct(10, int64Ptr(0), "A", "B")

	res, err := f.products.ImportItems(ctx, product.ID, &types.ImportItemsReq{Codes: []string{"B", " C ", "C", "", "D"}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 3, res.Skipped)
	assert.Equal(t, int64(4), res.Stock)
	assert.NotEmpty(t, res.BatchID)

	_, err = f.products.ImportItems(ctx, product.ID, &types.ImportItemsReq{Codes: []string{" "}})
	assert.ErrorIs(t, err, ErrNoCodes)

	_, err = f.products.ImportItems(ctx, 999, &types.ImportItemsReq{Codes: []string{"X"}})
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = f.products.CreateProduct(ctx, &types.CreateVirtualProductReq{Name: "坏", PointsCost: 1, Details: json.RawMessage(`{bad`)})
	assert.ErrorIs(t, err, ErrInvalidDetails)
}

func TestListProducts_ByTag(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	f.createProduct(10, nil)
	_, err := f.products.CreateProduct(ctx, &types.CreateVirtualProductReq{Name: "其他", PointsCost: 5, Tags: []string{"tool"}})
	require.NoError(t, err)

	page, err := f.products.ListProducts(ctx, &types.ListProductsReq{Tag: "vip"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "会员月卡", page.Items[0].Name)

	page, err = f.products.ListProducts(ctx, &types.ListProductsReq{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Pagination.Total)
}
