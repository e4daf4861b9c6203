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

type Product struct {
	Config         *config.Config
	ProductService service.IVirtualProductService
}

func (h *Product) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(h.Config.Jwt.Secret))

	g := r.Group("/v1/products")
	g.GET("", context.Wrap(h.List))
	g.GET("/:id", context.Wrap(h.Detail))
	g.POST("/:id/redeem", authorize, context.Wrap(h.Redeem))

	r.GET("/v1/exchanges", authorize, context.Wrap(h.Exchanges))
}

func (h *Product) List(c *gin.Context) error {
	var req types.ListProductsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.Invalid(err.Error())
	}
	page, err := h.ProductService.ListProducts(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Success(c, page)
	return nil
}

func (h *Product) Detail(c *gin.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.ProductService.GetProduct(c.Request.Context(), id)
	if err != nil {
		return err
	}
	response.Success(c, detail)
	return nil
}

// Redeem 积分兑换虚拟商品，成功后返回卡密
func (h *Product) Redeem(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	result, err := h.ProductService.RedeemVirtualProduct(c.Request.Context(), id, uid)
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

func (h *Product) Exchanges(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}
	var req types.PageReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.Invalid(err.Error())
	}
	page, err := h.ProductService.ListExchanges(c.Request.Context(), uid, &req)
	if err != nil {
		return err
	}
	response.Success(c, page)
	return nil
}
