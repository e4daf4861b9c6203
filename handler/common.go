package handler

import (
	"Orbit/pkg/response"
	"strconv"

	"github.com/gin-gonic/gin"
)

// pathID 解析路径中的自增ID
func pathID(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, response.Invalid("无效的 " + name)
	}
	return id, nil
}
