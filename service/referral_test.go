package service

import (
	"Orbit/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferral_BindInviter(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	inviter, invitee := f.createUser(), f.createUser()

	code, err := f.referrals.GetInviteCode(ctx, inviter.ID)
	require.NoError(t, err)
	again, err := f.referrals.GetInviteCode(ctx, inviter.ID)
	require.NoError(t, err)
	assert.Equal(t, code, again)
	assert.GreaterOrEqual(t, len(code), 8)

	_, err = f.referrals.BindInviter(ctx, inviter.ID, code)
	assert.ErrorIs(t, err, ErrSelfInvite)

	_, err = f.referrals.BindInviter(ctx, invitee.ID, "!!bad!!")
	assert.ErrorIs(t, err, ErrInviteCodeInvalid)

	ref, err := f.referrals.BindInviter(ctx, invitee.ID, " "+code+" ")
	require.NoError(t, err)
	assert.Equal(t, inviter.ID, ref.InviterID)

	_, err = f.referrals.BindInviter(ctx, invitee.ID, code)
	assert.ErrorIs(t, err, ErrAlreadyBound)

	// 合法编码但用户不存在
	ghost, err := f.referrals.GetInviteCode(ctx, 424242)
	require.NoError(t, err)
	_, err = f.referrals.BindInviter(ctx, f.createUser().ID, ghost)
	assert.ErrorIs(t, err, ErrInviteCodeInvalid)
}

func TestReferral_Stats(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	inviter := f.createUser()
	for i := 0; i < 2; i++ {
		code, err := f.referrals.GetInviteCode(ctx, inviter.ID)
		require.NoError(t, err)
		_, err = f.referrals.BindInviter(ctx, f.createUser().ID, code)
		require.NoError(t, err)
	}
	c := f.createCommission(inviter.ID, f.createUser().ID, "ORDER-1")
	_, err := f.commissions.UpdateCommissionStatus(ctx, c.ID, models.CommissionStatusApproved, "")
	require.NoError(t, err)
	f.createCommission(inviter.ID, f.createUser().ID, "ORDER-2")

	stats, err := f.referrals.GetReferralStats(ctx, inviter.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.InviteeCount)
	assert.NotEmpty(t, stats.InviteCode)
	assert.True(t, dec("10").Equal(stats.CommissionBalance))
	assert.True(t, dec("10").Equal(stats.CommissionPendingBalance))
	assert.True(t, dec("20").Equal(stats.TotalCommissionEarned))

	_, err = f.referrals.GetReferralStats(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
