package models

import "time"

// 积分变动类型
const (
	PointsTypeCheckin          = "checkin"
	PointsTypeResourceDownload = "resource_download"
	PointsTypeAdminAdjust      = "admin_adjust"
	PointsTypeTransferIn       = "transfer_in"
	PointsTypeTransferOut      = "transfer_out"
	PointsTypeCardRedeem       = "card_redeem"
	PointsTypePurchase         = "purchase"
	PointsTypePointsMall       = "points_mall"
)

var PointsTypes = map[string]struct{}{
	PointsTypeCheckin:          {},
	PointsTypeResourceDownload: {},
	PointsTypeAdminAdjust:      {},
	PointsTypeTransferIn:       {},
	PointsTypeTransferOut:      {},
	PointsTypeCardRedeem:       {},
	PointsTypePurchase:         {},
	PointsTypePointsMall:       {},
}

// PointsRecord 积分流水，只追加不修改
type PointsRecord struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID       uint64    `gorm:"not null;index:idx_points_user_id;column:user_id" json:"user_id"`
	Amount       int64     `gorm:"not null;column:amount" json:"amount"`               // 变动数额（正负）
	BalanceAfter int64     `gorm:"not null;column:balance_after" json:"balance_after"` // 变动后余额
	Type         string    `gorm:"size:32;not null;index:idx_points_type;column:type" json:"type"`
	Description  string    `gorm:"size:255;column:description" json:"description"`
	RelatedID    *uint64   `gorm:"column:related_id" json:"related_id,omitempty"`
	RelatedType  string    `gorm:"size:32;column:related_type" json:"related_type,omitempty"`
	OperatorID   *uint64   `gorm:"column:operator_id" json:"operator_id,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PointsRecord) TableName() string {
	return "points_records"
}
