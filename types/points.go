package types

import "Orbit/models"

// AddPointsReq 增加积分
type AddPointsReq struct {
	UserID      uint64
	Amount      int64
	Type        string
	Description string
	RelatedID   *uint64
	RelatedType string
	OperatorID  *uint64
}

// DeductPointsReq 扣减积分
type DeductPointsReq struct {
	UserID        uint64
	Points        int64
	Source        string
	Description   string
	ReferenceID   *uint64
	ReferenceType string
	OperatorID    *uint64
}

// PointsChange 一次积分变动的结果
type PointsChange struct {
	Record       *models.PointsRecord `json:"record"`
	BalanceAfter int64                `json:"balance_after"`
	TotalEarned  int64                `json:"total_earned"`
	TotalSpent   int64                `json:"total_spent"`
}

// PointsAccount 账户概览统计
type PointsAccount struct {
	UserID        uint64 `json:"user_id"`
	CurrentPoints int64  `json:"current_points"` // 当前可用积分余额
	TotalEarned   int64  `json:"total_earned"`   // 历史累计获得
	TotalSpent    int64  `json:"total_spent"`    // 历史累计使用
}

// ListPointRecordsReq 流水筛选
type ListPointRecordsReq struct {
	PageReq
	Action string `form:"action" binding:"omitempty,oneof=all income expense"`
	Type   string `form:"type"`
}

// AdminAdjustPointsReq 后台调整积分，Delta 为正加负减
type AdminAdjustPointsReq struct {
	UserID uint64 `json:"user_id" binding:"required"`
	Delta  int64  `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required,max=255"`
}
