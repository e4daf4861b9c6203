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

type Referral struct {
	Config            *config.Config
	ReferralService   service.IReferralService
	CommissionService service.ICommissionService
	PayoutService     service.IPayoutService
}

func (h *Referral) RegisterRouter(r gin.IRouter) {
	g := r.Group("/v1/referral")
	g.Use(middleware.Auth([]byte(h.Config.Jwt.Secret)))
	g.GET("/invite-code", context.Wrap(h.InviteCode))
	g.POST("/bind", context.Wrap(h.Bind))
	g.GET("/stats", context.Wrap(h.Stats))
	g.GET("/commissions", context.Wrap(h.Commissions))
	g.GET("/payout-setting", context.Wrap(h.GetPayoutSetting))
	g.PUT("/payout-setting", context.Wrap(h.SavePayoutSetting))
	g.POST("/payouts", context.Wrap(h.CreatePayout))
	g.GET("/payouts", context.Wrap(h.Payouts))
}

func (h *Referral) InviteCode(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}
	code, err := h.ReferralService.GetInviteCode(c.Request.Context(), uid)
	if err != nil {
		return err
	}
	response.Success(c, gin.H{"invite_code": code})
	return nil
}

func (h *Referral) Bind(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}
	var req types.BindInviterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.Invalid(err.Error())
	}
	ref, err := h.ReferralService.BindInviter(c.Request.Context(), uid, req.InviteCode)
	if err != nil {
		return err
	}
	response.Success(c, ref)
	return nil
}

func (h *Referral) Stats(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}
	stats, err := h.ReferralService.GetReferralStats(c.Request.Context(), uid)
	if err != nil {
		return err
	}
	response.Success(c, stats)
	return nil
}

// Commissions 当前用户作为邀请人获得的佣金
func (h *Referral) Commissions(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}
	var req types.ListCommissionsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.Invalid(err.Error())
	}
	req.InviterID = uid
	page, err := h.CommissionService.ListCommissions(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Success(c, page)
	return nil
}

func (h *Referral) GetPayoutSetting(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}
	setting, err := h.PayoutService.GetPayoutSetting(c.Request.Context(), uid)
	if err != nil {
		return err
	}
	response.Success(c, setting)
	return nil
}

func (h *Referral) SavePayoutSetting(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}
	var req types.PayoutAccount
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.Invalid(err.Error())
	}
	setting, err := h.PayoutService.SavePayoutSetting(c.Request.Context(), uid, &req)
	if err != nil {
		return err
	}
	response.Success(c, setting)
	return nil
}

// CreatePayout 申请提现，账号为空时使用已保存的提现设置
func (h *Referral) CreatePayout(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}
	var req types.CreatePayoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.Invalid(err.Error())
	}
	payout, err := h.PayoutService.CreatePayoutRequest(c.Request.Context(), uid, &req)
	if err != nil {
		return err
	}
	response.Success(c, payout)
	return nil
}

func (h *Referral) Payouts(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}
	var req types.ListPayoutsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.Invalid(err.Error())
	}
	req.UserID = uid
	page, err := h.PayoutService.ListPayoutRequests(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Success(c, page)
	return nil
}
