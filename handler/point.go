package handler

import (
	"Orbit/config"
	"Orbit/middleware"
	"Orbit/pkg/context"
	"Orbit/pkg/response"
	"Orbit/service"
	"Orbit/types"

	"github.com/gin-gonic/gin"
)

type Point struct {
	Config       *config.Config
	PointService service.IPointService
}

func (p *Point) RegisterRouter(r gin.IRouter) {
	g := r.Group("/v1/points")
	g.Use(middleware.Auth([]byte(p.Config.Jwt.Secret)))
	g.GET("/balance", context.Wrap(p.Balance))
	g.GET("/records", context.Wrap(p.Records))
}

func (p *Point) Balance(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(401, "未登录")
	}
	account, err := p.PointService.GetAccount(c.Request.Context(), uid)
	if err != nil {
		return err
	}
	response.Success(c, account)
	return nil
}

func (p *Point) Records(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(401, "未登录")
	}
	var req types.ListPointRecordsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.Invalid(err.Error())
	}
	page, err := p.PointService.ListPointRecords(c.Request.Context(), uid, &req)
	if err != nil {
		return err
	}
	response.Success(c, page)
	return nil
}
