package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 配置信息
type Config struct {
	App    *App    `json:"app" yaml:"app"`
	Redis  *Redis  `json:"redis" yaml:"redis"`
	MySQL  *MySQL  `json:"mysql" yaml:"mysql"`
	Jwt    *Jwt    `json:"jwt" yaml:"jwt"`
	Server *Server `json:"server" yaml:"server"`
	Ledger *Ledger `json:"ledger" yaml:"ledger"`
}

type Server struct {
	Http int `json:"http" yaml:"http"`
}

func New(filename string) *Config {

	content, err := os.ReadFile(filename)
	if err != nil {
		panic(err)
	}

	var conf Config
	if err := yaml.Unmarshal(content, &conf); err != nil {
		panic(fmt.Sprintf("解析 config.yaml 读取错误: %v", err))
	}
	conf.applyDefaults()

	return &conf
}

func (c *Config) applyDefaults() {
	if c.App == nil {
		c.App = &App{Env: "dev"}
	}
	if c.Server == nil {
		c.Server = &Server{Http: 8080}
	}
	if c.MySQL == nil {
		c.MySQL = &MySQL{}
	}
	if c.Jwt == nil {
		c.Jwt = &Jwt{}
	}
	if c.Ledger == nil {
		c.Ledger = &Ledger{}
	}
	c.Ledger.applyDefaults()
}

// Debug 调试模式
func (c *Config) Debug() bool {
	return c.App.Debug
}

// ProvideLedgerConfig 供 wire 注入账务配置
func ProvideLedgerConfig(cfg *Config) *Ledger {
	return cfg.Ledger
}
