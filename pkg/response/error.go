package response

import (
	"Orbit/pkg/log"
	"Orbit/pkg/utils"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BizError struct {
	Code int
	Msg  string
}

func (e *BizError) Error() string {
	return e.Msg
}

func NewError(code int, msg string) *BizError {
	return &BizError{
		Code: code,
		Msg:  msg,
	}
}

// 错误分类：参数校验、资源不存在、状态冲突、系统异常
func Invalid(msg string) *BizError  { return NewError(http.StatusBadRequest, msg) }
func NotFound(msg string) *BizError { return NewError(http.StatusNotFound, msg) }
func Conflict(msg string) *BizError { return NewError(http.StatusBadRequest, msg) }
func Internal(msg string) *BizError { return NewError(http.StatusInternalServerError, msg) }

// ErrBusy 锁等待或事务超时
var ErrBusy = Internal("系统繁忙，请稍后再试")

// FromError 将任意错误归一成 BizError，超时统一映射为 ErrBusy
func FromError(err error) *BizError {
	var be *BizError
	if errors.As(err, &be) {
		return be
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrBusy
	}
	return Internal(err.Error())
}

// ErrorMiddleware 兜底 panic 并把 c.Errors 转成统一响应
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.L.Error("panic recovered",
					zap.String("path", c.Request.URL.Path),
					zap.String("trace", utils.PanicTrace(r)),
				)
				c.JSON(http.StatusInternalServerError, Response{
					Code: 500,
					Msg:  "系统异常",
				})
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) > 0 {
			be := FromError(c.Errors.Last().Err)
			Fail(c, be.Code, be.Msg)
			c.Abort()
		}
	}
}

func Abort(c *gin.Context, httpStatus int, msg string) {
	c.AbortWithStatusJSON(httpStatus, Response{
		Code: httpStatus,
		Msg:  msg,
		Data: nil,
	})
}
