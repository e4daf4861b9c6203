package models

// All 需要迁移的表，migrate 命令与测试共用
func All() []any {
	return []any{
		&Users{},
		&UserRole{},
		&PointsRecord{},
		&CheckinConfig{},
		&CheckinConfigRole{},
		&UserCheckin{},
		&PointsProduct{},
		&VirtualProductItem{},
		&PointsExchange{},
		&UserReferral{},
		&ReferralCommission{},
		&ReferralPayoutRequest{},
		&ReferralPayoutSetting{},
	}
}
