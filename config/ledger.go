package config

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledger 积分、签到、返佣相关的账务配置
type Ledger struct {
	// StatementTimeout 单个账务事务允许占用行锁的最长时间
	StatementTimeout time.Duration `json:"statement_timeout" yaml:"statement_timeout"`
	// Timezone 签到日期按该时区切分
	Timezone string `json:"timezone" yaml:"timezone"`
	// InviteSalt 邀请码 hashids 盐
	InviteSalt string `json:"invite_salt" yaml:"invite_salt"`
	// FirstRechargeRate 首充返佣比例
	FirstRechargeRate decimal.Decimal `json:"first_recharge_rate" yaml:"first_recharge_rate"`
	// RenewalRate 续费返佣比例
	RenewalRate decimal.Decimal `json:"renewal_rate" yaml:"renewal_rate"`
	// MinPayoutAmount 单笔最低提现金额
	MinPayoutAmount decimal.Decimal `json:"min_payout_amount" yaml:"min_payout_amount"`
	// ReconcileConcurrency 对账并发数
	ReconcileConcurrency int `json:"reconcile_concurrency" yaml:"reconcile_concurrency"`

	location *time.Location
}

func (l *Ledger) applyDefaults() {
	if l.StatementTimeout <= 0 {
		l.StatementTimeout = 5 * time.Second
	}
	if l.Timezone == "" {
		l.Timezone = "Asia/Shanghai"
	}
	if l.InviteSalt == "" {
		l.InviteSalt = "orbit-invite"
	}
	if l.FirstRechargeRate.IsZero() {
		l.FirstRechargeRate = decimal.RequireFromString("0.10")
	}
	if l.RenewalRate.IsZero() {
		l.RenewalRate = decimal.RequireFromString("0.05")
	}
	if l.ReconcileConcurrency <= 0 {
		l.ReconcileConcurrency = 8
	}
	l.location = loadLocation(l.Timezone)
}

// Location 签到使用的时区，加载失败时退回 UTC+8
func (l *Ledger) Location() *time.Location {
	if l.location != nil {
		return l.location
	}
	return loadLocation(l.Timezone)
}

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("CST", 8*3600)
	}
	return loc
}

// DefaultLedger 测试及命令行工具使用的默认配置
func DefaultLedger() *Ledger {
	l := &Ledger{}
	l.applyDefaults()
	return l
}
