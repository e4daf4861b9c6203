package service

import (
	"Orbit/models"
	"Orbit/types"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) createCommission(inviterID, inviteeID uint64, orderID string) *models.ReferralCommission {
	f.t.Helper()
	c, err := f.commissions.CreateCommissionRecord(f.t.Context(), nil, &types.CreateCommissionReq{
		InviterID:        inviterID,
		InviteeID:        inviteeID,
		OrderID:          orderID,
		OrderAmount:      dec("100"),
		CommissionAmount: dec("10"),
		CommissionRate:   dec("0.1"),
		EventType:        models.EventFirstRecharge,
	})
	require.NoError(f.t, err)
	return c
}

func requireBuckets(t *testing.T, user *models.Users, balance, pending, earned string) {
	t.Helper()
	assert.True(t, dec(balance).Equal(user.CommissionBalance), "balance: want %s got %s", balance, user.CommissionBalance)
	assert.True(t, dec(pending).Equal(user.CommissionPendingBalance), "pending: want %s got %s", pending, user.CommissionPendingBalance)
	assert.True(t, dec(earned).Equal(user.TotalCommissionEarned), "earned: want %s got %s", earned, user.TotalCommissionEarned)
}

func TestCommission_Transitions(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	inviter, invitee := f.createUser(), f.createUser()

	c := f.createCommission(inviter.ID, invitee.ID, "ORDER-1")
	assert.Equal(t, models.CommissionStatusPending, c.Status)
	requireBuckets(t, f.reload(inviter.ID), "0", "10", "10")

	approved, err := f.commissions.UpdateCommissionStatus(ctx, c.ID, models.CommissionStatusApproved, "ok")
	require.NoError(t, err)
	require.NotNil(t, approved.SettledAt)
	assert.Nil(t, approved.PaidAt)
	requireBuckets(t, f.reload(inviter.ID), "10", "0", "10")

	paid, err := f.commissions.UpdateCommissionStatus(ctx, c.ID, models.CommissionStatusPaid, "")
	require.NoError(t, err)
	require.NotNil(t, paid.PaidAt)
	assert.WithinDuration(t, *approved.SettledAt, *paid.SettledAt, time.Millisecond)
	requireBuckets(t, f.reload(inviter.ID), "10", "0", "10")

	var stored models.ReferralCommission
	require.NoError(t, f.db.First(&stored, c.ID).Error)
	assert.Equal(t, models.CommissionStatusPaid, stored.Status)
	assert.NotNil(t, stored.PaidAt)
	assert.NotNil(t, stored.SettledAt)
	f.requireReconciled(inviter.ID)
}

func TestCommission_RejectAndReopen(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	inviter, invitee := f.createUser(), f.createUser()
	c := f.createCommission(inviter.ID, invitee.ID, "ORDER-1")

	_, err := f.commissions.UpdateCommissionStatus(ctx, c.ID, models.CommissionStatusRejected, "刷单")
	require.NoError(t, err)
	requireBuckets(t, f.reload(inviter.ID), "0", "0", "10")

	reopened, err := f.commissions.UpdateCommissionStatus(ctx, c.ID, models.CommissionStatusPending, "")
	require.NoError(t, err)
	assert.Nil(t, reopened.SettledAt)
	requireBuckets(t, f.reload(inviter.ID), "0", "10", "10")

	_, err = f.commissions.UpdateCommissionStatus(ctx, c.ID, models.CommissionStatusPending, "")
	assert.ErrorIs(t, err, ErrCommissionSameStatus)

	_, err = f.commissions.UpdateCommissionStatus(ctx, c.ID, "cancelled", "")
	assert.ErrorIs(t, err, ErrInvalidCommissionStatus)

	_, err = f.commissions.UpdateCommissionStatus(ctx, 999, models.CommissionStatusApproved, "")
	assert.ErrorIs(t, err, ErrCommissionNotFound)
	f.requireReconciled(inviter.ID)
}

// 已入账的佣金被提现后不能再撤回，否则可提现余额会变成负数
func TestCommission_RevokeBlockedByPayout(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	inviter, invitee := f.createUser(), f.createUser()
	c := f.createCommission(inviter.ID, invitee.ID, "ORDER-1")
	_, err := f.commissions.UpdateCommissionStatus(ctx, c.ID, models.CommissionStatusApproved, "")
	require.NoError(t, err)

	_, err = f.payouts.CreatePayoutRequest(ctx, inviter.ID, &types.CreatePayoutReq{
		Amount:        dec("10"),
		PayoutAccount: types.PayoutAccount{Method: models.PayoutMethodAlipay, AlipayAccount: "a@b.com", AlipayName: "张三"},
	})
	require.NoError(t, err)

	_, err = f.commissions.UpdateCommissionStatus(ctx, c.ID, models.CommissionStatusRejected, "")
	require.ErrorIs(t, err, ErrCommissionBalanceNegative)
	requireBuckets(t, f.reload(inviter.ID), "0", "0", "10")
	f.requireReconciled(inviter.ID)
}

func TestCommission_CreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	inviter, invitee := f.createUser(), f.createUser()
	f.createCommission(inviter.ID, invitee.ID, "ORDER-1")

	_, err := f.commissions.CreateCommissionRecord(ctx, nil, &types.CreateCommissionReq{
		InviterID: inviter.ID, InviteeID: invitee.ID, OrderID: "ORDER-1",
		OrderAmount: dec("100"), CommissionAmount: dec("10"), EventType: models.EventRenewal,
	})
	require.ErrorIs(t, err, ErrCommissionExists)
	requireBuckets(t, f.reload(inviter.ID), "0", "10", "10")

	has, err := f.commissions.HasCommissionRecord(ctx, "ORDER-1")
	require.NoError(t, err)
	assert.True(t, has)
	has, err = f.commissions.HasCommissionRecord(ctx, "ORDER-2")
	require.NoError(t, err)
	assert.False(t, has)

	base := types.CreateCommissionReq{
		InviterID: inviter.ID, InviteeID: invitee.ID, OrderID: "ORDER-3",
		OrderAmount: dec("100"), CommissionAmount: dec("10"), EventType: models.EventRenewal,
	}
	bad := base
	bad.InviteeID = inviter.ID
	_, err = f.commissions.CreateCommissionRecord(ctx, nil, &bad)
	assert.ErrorIs(t, err, ErrSelfCommission)

	bad = base
	bad.CommissionAmount = dec("0")
	_, err = f.commissions.CreateCommissionRecord(ctx, nil, &bad)
	assert.ErrorIs(t, err, ErrInvalidCommissionAmount)

	bad = base
	bad.EventType = "gift"
	_, err = f.commissions.CreateCommissionRecord(ctx, nil, &bad)
	assert.ErrorIs(t, err, ErrInvalidEventType)
}

func TestCommission_ProcessOrder(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	inviter, invitee, stranger := f.createUser(), f.createUser(), f.createUser()

	code, err := f.referrals.GetInviteCode(ctx, inviter.ID)
	require.NoError(t, err)
	_, err = f.referrals.BindInviter(ctx, invitee.ID, code)
	require.NoError(t, err)

	first, err := f.commissions.ProcessOrderCommission(ctx, &types.OrderPaidReq{UserID: invitee.ID, OrderID: "O-1", OrderAmount: dec("100")})
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, models.EventFirstRecharge, first.EventType)
	assert.True(t, dec("10").Equal(first.CommissionAmount))

	renewal, err := f.commissions.ProcessOrderCommission(ctx, &types.OrderPaidReq{UserID: invitee.ID, OrderID: "O-2", OrderAmount: dec("99.99")})
	require.NoError(t, err)
	require.NotNil(t, renewal)
	assert.Equal(t, models.EventRenewal, renewal.EventType)
	assert.True(t, dec("5").Equal(renewal.CommissionAmount), renewal.CommissionAmount.String())

	again, err := f.commissions.ProcessOrderCommission(ctx, &types.OrderPaidReq{UserID: invitee.ID, OrderID: "O-1", OrderAmount: dec("100")})
	require.NoError(t, err)
	assert.Nil(t, again)

	none, err := f.commissions.ProcessOrderCommission(ctx, &types.OrderPaidReq{UserID: stranger.ID, OrderID: "O-3", OrderAmount: dec("100")})
	require.NoError(t, err)
	assert.Nil(t, none)

	page, err := f.commissions.ListCommissions(ctx, &types.ListCommissionsReq{InviterID: inviter.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Pagination.Total)
	requireBuckets(t, f.reload(inviter.ID), "0", "15", "15")
	f.requireReconciled(inviter.ID)
}

func TestCommission_InviterMissing(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	inviter, invitee := f.createUser(), f.createUser()
	c := f.createCommission(inviter.ID, invitee.ID, "ORDER-1")

	require.NoError(t, f.db.Delete(&models.Users{}, inviter.ID).Error)

	_, err := f.commissions.UpdateCommissionStatus(ctx, c.ID, models.CommissionStatusApproved, "")
	require.ErrorIs(t, err, ErrUserNotFound)

	var stored models.ReferralCommission
	require.NoError(t, f.db.First(&stored, c.ID).Error)
	assert.Equal(t, models.CommissionStatusPending, stored.Status)
	assert.Nil(t, stored.SettledAt)
}
