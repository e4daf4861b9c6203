package service

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewClock,

	wire.Struct(new(PointService), "*"),
	wire.Bind(new(IPointService), new(*PointService)),

	wire.Struct(new(CheckinService), "*"),
	wire.Bind(new(ICheckinService), new(*CheckinService)),

	wire.Struct(new(VirtualProductService), "*"),
	wire.Bind(new(IVirtualProductService), new(*VirtualProductService)),

	wire.Struct(new(CommissionService), "*"),
	wire.Bind(new(ICommissionService), new(*CommissionService)),

	wire.Struct(new(PayoutService), "*"),
	wire.Bind(new(IPayoutService), new(*PayoutService)),

	wire.Struct(new(ReferralService), "*"),
	wire.Bind(new(IReferralService), new(*ReferralService)),

	wire.Struct(new(ReconcileService), "*"),
	wire.Bind(new(IReconcileService), new(*ReconcileService)),
)
