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

type Checkin struct {
	Config         *config.Config
	CheckinService service.ICheckinService
}

func (h *Checkin) RegisterRouter(r gin.IRouter) {
	g := r.Group("/v1/checkin")
	g.Use(middleware.Auth([]byte(h.Config.Jwt.Secret)))
	g.POST("", context.Wrap(h.Checkin))
	g.GET("/status", context.Wrap(h.Status))
	g.GET("/history", context.Wrap(h.History))
}

// Checkin 每日签到
func (h *Checkin) Checkin(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}
	result, err := h.CheckinService.PerformCheckin(c.Request.Context(), uid, context.GetRoles(c))
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

func (h *Checkin) Status(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}
	status, err := h.CheckinService.GetCheckinStatus(c.Request.Context(), uid, context.GetRoles(c))
	if err != nil {
		return err
	}
	response.Success(c, status)
	return nil
}

// History 按月查询签到记录，month 为空时取当月
func (h *Checkin) History(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}
	var req types.CheckinHistoryReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.Invalid(err.Error())
	}
	history, err := h.CheckinService.ListCheckinHistory(c.Request.Context(), uid, req.Month)
	if err != nil {
		return err
	}
	response.Success(c, history)
	return nil
}
