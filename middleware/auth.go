package middleware

import (
	"Orbit/pkg/context"
	"Orbit/pkg/jwt"
	"Orbit/pkg/log"
	"Orbit/pkg/response"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	TokenTypeAccess = "access"
	RoleAdmin       = "admin"
)

// Auth 校验 Bearer 令牌，将用户ID与角色写入上下文
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "缺少 Authorization")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Abort(c, http.StatusUnauthorized, "Authorization 格式错误")
			return
		}

		claims, err := jwt.ParseToken(secret, TokenTypeAccess, parts[1])
		if err != nil {
			log.L.Debug("invalid token", zap.Error(err))
			response.Abort(c, http.StatusUnauthorized, "登录已失效，请重新登录")
			return
		}
		c.Set(context.CtxUserID, claims.UserID)
		c.Set(context.CtxRoles, claims.Roles)

		c.Next()
	}
}

// AdminOnly 需放在 Auth 之后
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, r := range context.GetRoles(c) {
			if r == RoleAdmin {
				c.Next()
				return
			}
		}
		response.Abort(c, http.StatusForbidden, "无权限")
	}
}
