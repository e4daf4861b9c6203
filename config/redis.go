package config

import "fmt"

// Redis 签到状态缓存。Address 为空时不连接 redis，签到查询直接回源数据库
type Redis struct {
	Address  string `json:"address" yaml:"address"`
	Port     int    `json:"port" yaml:"port"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	Database int    `json:"database" yaml:"database"` // 与其他业务共用实例时单独指定库号
}

// Enabled 是否启用缓存
func (r *Redis) Enabled() bool {
	return r != nil && r.Address != ""
}

// Addr host:port，未配置端口时使用 6379
func (r *Redis) Addr() string {
	port := r.Port
	if port == 0 {
		port = 6379
	}
	return fmt.Sprintf("%s:%d", r.Address, port)
}
