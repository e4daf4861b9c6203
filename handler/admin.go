package handler

import (
	"Orbit/config"
	"Orbit/middleware"
	"Orbit/pkg/context"
	"Orbit/pkg/response"
	"Orbit/service"
	"Orbit/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Admin 后台管理接口，需要 admin 角色
type Admin struct {
	Config            *config.Config
	PointService      service.IPointService
	CheckinService    service.ICheckinService
	ProductService    service.IVirtualProductService
	CommissionService service.ICommissionService
	PayoutService     service.IPayoutService
	ReconcileService  service.IReconcileService
}

type reconcileReq struct {
	UserIDs []uint64 `json:"user_ids"`
}

func (h *Admin) RegisterRouter(r gin.IRouter) {
	g := r.Group("/v1/admin")
	g.Use(middleware.Auth([]byte(h.Config.Jwt.Secret)), middleware.AdminOnly())

	g.POST("/points/adjust", context.Wrap(h.AdjustPoints))

	g.GET("/checkin-configs", context.Wrap(h.ListCheckinConfigs))
	g.POST("/checkin-configs", context.Wrap(h.CreateCheckinConfig))
	g.PUT("/checkin-configs/:id", context.Wrap(h.UpdateCheckinConfig))

	g.POST("/products", context.Wrap(h.CreateProduct))
	g.POST("/products/:id/items", context.Wrap(h.ImportItems))

	g.GET("/commissions", context.Wrap(h.ListCommissions))
	g.PUT("/commissions/:id/status", context.Wrap(h.UpdateCommissionStatus))
	g.POST("/orders/paid", context.Wrap(h.OrderPaid))

	g.GET("/payouts", context.Wrap(h.ListPayouts))
	g.PUT("/payouts/:id/status", context.Wrap(h.UpdatePayoutStatus))

	g.POST("/reconcile", context.Wrap(h.Reconcile))
}

func (h *Admin) AdjustPoints(c *gin.Context) error {
	operator, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}
	var req types.AdminAdjustPointsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.Invalid(err.Error())
	}
	change, err := h.PointService.AdminAdjust(c.Request.Context(), operator, &req)
	if err != nil {
		return err
	}
	response.Success(c, change)
	return nil
}

func (h *Admin) ListCheckinConfigs(c *gin.Context) error {
	var req types.PageReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.Invalid(err.Error())
	}
	page, err := h.CheckinService.ListConfigs(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Success(c, page)
	return nil
}

func (h *Admin) CreateCheckinConfig(c *gin.Context) error {
	var req types.SaveCheckinConfigReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.Invalid(err.Error())
	}
	cfg, err := h.CheckinService.CreateConfig(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Success(c, cfg)
	return nil
}

func (h *Admin) UpdateCheckinConfig(c *gin.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req types.SaveCheckinConfigReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.Invalid(err.Error())
	}
	cfg, err := h.CheckinService.UpdateConfig(c.Request.Context(), id, &req)
	if err != nil {
		return err
	}
	response.Success(c, cfg)
	return nil
}

func (h *Admin) CreateProduct(c *gin.Context) error {
	var req types.CreateVirtualProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.Invalid(err.Error())
	}
	product, err := h.ProductService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Success(c, product)
	return nil
}

// ImportItems 批量导入卡密
func (h *Admin) ImportItems(c *gin.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req types.ImportItemsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.Invalid(err.Error())
	}
	result, err := h.ProductService.ImportItems(c.Request.Context(), id, &req)
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

func (h *Admin) ListCommissions(c *gin.Context) error {
	var req types.ListCommissionsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.Invalid(err.Error())
	}
	page, err := h.CommissionService.ListCommissions(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Success(c, page)
	return nil
}

func (h *Admin) UpdateCommissionStatus(c *gin.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req types.UpdateCommissionStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.Invalid(err.Error())
	}
	commission, err := h.CommissionService.UpdateCommissionStatus(c.Request.Context(), id, req.Status, req.ReviewNotes)
	if err != nil {
		return err
	}
	response.Success(c, commission)
	return nil
}

// OrderPaid 订单支付回调，按邀请关系生成返佣；无邀请人或已返佣时 data 为空
func (h *Admin) OrderPaid(c *gin.Context) error {
	var req types.OrderPaidReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.Invalid(err.Error())
	}
	commission, err := h.CommissionService.ProcessOrderCommission(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Success(c, commission)
	return nil
}

func (h *Admin) ListPayouts(c *gin.Context) error {
	var req types.ListPayoutsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.Invalid(err.Error())
	}
	page, err := h.PayoutService.ListPayoutRequests(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Success(c, page)
	return nil
}

func (h *Admin) UpdatePayoutStatus(c *gin.Context) error {
	reviewer, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req types.UpdatePayoutStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.Invalid(err.Error())
	}
	payout, err := h.PayoutService.UpdatePayoutRequestStatus(c.Request.Context(), id, req.Status, reviewer, req.ReviewNotes)
	if err != nil {
		return err
	}
	response.Success(c, payout)
	return nil
}

// Reconcile user_ids 为空时全量对账
func (h *Admin) Reconcile(c *gin.Context) error {
	var req reconcileReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			return response.Invalid(err.Error())
		}
	}
	var (
		issues []types.ReconcileIssue
		err    error
	)
	if len(req.UserIDs) == 0 {
		issues, err = h.ReconcileService.ReconcileAll(c.Request.Context())
	} else {
		issues, err = h.ReconcileService.ReconcileUsers(c.Request.Context(), req.UserIDs)
	}
	if err != nil {
		return err
	}
	response.Success(c, gin.H{"issues": issues, "count": len(issues)})
	return nil
}
