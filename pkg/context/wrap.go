package context

import (
	"Orbit/pkg/response"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CtxUserID = "user_id"
	CtxRoles  = "roles"
)

type HandlerFunc func(*gin.Context) error

func Wrap(h func(*gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h(c); err != nil {

			// 如果已经写过响应，直接返回
			if c.Writer.Written() {
				return
			}
			be := response.FromError(err)
			status := http.StatusOK
			if be.Code >= http.StatusInternalServerError {
				status = http.StatusInternalServerError
			}
			c.JSON(status, response.Response{
				Code: be.Code,
				Msg:  be.Msg,
			})
		}
	}
}

func GetUserID(c *gin.Context) (uint64, error) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return 0, errors.New("user_id 不存在")
	}

	uid, ok := v.(uint64)
	if !ok {
		return 0, errors.New("user_id 类型错误")
	}

	return uid, nil
}

func GetRoles(c *gin.Context) []string {
	v, ok := c.Get(CtxRoles)
	if !ok {
		return nil
	}
	roles, _ := v.([]string)
	return roles
}
