package service

import "Orbit/pkg/response"

// 积分
var (
	ErrUserNotFound       = response.NotFound("用户不存在")
	ErrInvalidPoints      = response.Invalid("积分数额必须大于0")
	ErrInvalidPointsType  = response.Invalid("无效的积分类型")
	ErrInsufficientPoints = response.Conflict("积分余额不足")
)

// 签到
var (
	ErrAlreadyCheckedIn      = response.Conflict("今日已签到")
	ErrCheckinUnavailable    = response.Conflict("签到功能未配置或无权限")
	ErrCheckinConfigNotFound = response.NotFound("签到配置不存在")
	ErrInvalidBonusTier      = response.Invalid("连续签到奖励配置无效")
	ErrInvalidMonth          = response.Invalid("月份格式应为 YYYY-MM")
)

// 积分商城
var (
	ErrProductUnavailable = response.NotFound("商品不存在或已下架")
	ErrProductNotFound    = response.NotFound("商品不存在")
	ErrOutOfStock         = response.Conflict("库存不足")
	ErrInvalidDetails     = response.Invalid("商品详情必须是合法的 JSON")
	ErrNoCodes            = response.Invalid("卡密不能为空")
)

// 返佣
var (
	ErrCommissionExists          = response.Conflict("该订单已产生佣金")
	ErrCommissionNotFound        = response.NotFound("佣金记录不存在")
	ErrInvalidCommissionStatus   = response.Invalid("无效的佣金状态")
	ErrCommissionSameStatus      = response.Conflict("佣金状态未变化")
	ErrInvalidCommissionAmount   = response.Invalid("佣金金额必须大于0")
	ErrInvalidOrderAmount        = response.Invalid("订单金额必须大于0")
	ErrInvalidEventType          = response.Invalid("无效的返佣事件类型")
	ErrSelfCommission            = response.Invalid("邀请人与被邀请人不能相同")
	ErrCommissionBalanceNegative = response.Conflict("可提现佣金不足，无法变更该佣金状态")
)

// 提现
var (
	ErrInsufficientCommission = response.Conflict("可提现余额不足")
	ErrPayoutAccountMissing   = response.Invalid("请先配置提现账号")
	ErrInvalidPayoutAmount    = response.Invalid("提现金额必须大于0")
	ErrPayoutBelowMinimum     = response.Invalid("低于最低提现金额")
	ErrPayoutNotFound         = response.NotFound("提现申请不存在")
	ErrInvalidPayoutStatus    = response.Invalid("无效的提现状态")
	ErrPayoutSameStatus       = response.Conflict("提现状态未变化")
	ErrPayoutFinished         = response.Conflict("提现申请已处理完成，不能再变更")
	ErrPayoutTransition       = response.Conflict("不允许的提现状态变更")
	ErrInvalidPayoutMethod    = response.Invalid("不支持的提现方式")
	ErrAlipayAccountRequired  = response.Invalid("请填写支付宝账号和实名")
	ErrUsdtAddressRequired    = response.Invalid("请填写 USDT 地址和网络")
)

// 邀请
var (
	ErrInviteCodeInvalid = response.Invalid("邀请码无效")
	ErrSelfInvite        = response.Invalid("不能绑定自己的邀请码")
	ErrAlreadyBound      = response.Conflict("已绑定邀请人")
)
