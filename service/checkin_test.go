package service

import (
	"Orbit/models"
	"Orbit/types"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func boolPtr(b bool) *bool { return &b }

func (f *fixture) createConfig(req *types.SaveCheckinConfigReq) *models.CheckinConfig {
	f.t.Helper()
	cfg, err := f.checkin.CreateConfig(f.t.Context(), req)
	require.NoError(f.t, err)
	return cfg
}

func TestBonusTiers_Bonus(t *testing.T) {
	tiers := ParseBonusTiers([]byte(`{"7":20,"30":100,"x":5,"-3":9}`))
	assert.Len(t, tiers, 2)

	cases := map[int]int64{
		1:  0,
		6:  0,
		7:  20,
		14: 20,
		30: 100,
		60: 100,
		35: 20,
		31: 0,
	}
	for days, want := range cases {
		assert.Equal(t, want, tiers.Bonus(days), "days=%d", days)
	}

	assert.Equal(t, int64(0), ParseBonusTiers(nil).Bonus(7))
	assert.Equal(t, int64(0), ParseBonusTiers([]byte("not json")).Bonus(7))
}

func TestNextStreak(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	today := time.Date(2025, 3, 1, 8, 0, 0, 0, loc)

	assert.Equal(t, 1, NextStreak(nil, today, false))
	assert.Equal(t, 5, NextStreak(&models.UserCheckin{CheckinDate: "2025-02-28", ConsecutiveDays: 4}, today, false))
	assert.Equal(t, 4, NextStreak(&models.UserCheckin{CheckinDate: "2025-03-01", ConsecutiveDays: 4}, today, false))
	assert.Equal(t, 1, NextStreak(&models.UserCheckin{CheckinDate: "2025-02-27", ConsecutiveDays: 4}, today, false))
	// 跨月重置
	assert.Equal(t, 1, NextStreak(&models.UserCheckin{CheckinDate: "2025-02-28", ConsecutiveDays: 4}, today, true))
	assert.Equal(t, 2, NextStreak(&models.UserCheckin{CheckinDate: "2025-03-01", ConsecutiveDays: 1}, today.AddDate(0, 0, 1), true))
}

func TestUntilNextMidnight(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	now := time.Date(2025, 3, 1, 23, 30, 0, 0, loc)
	assert.Equal(t, 30*time.Minute, untilNextMidnight(now))
}

func TestCheckin_SevenDayStreak(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	user := f.createUser()
	f.createConfig(&types.SaveCheckinConfigReq{
		Name:             "default",
		DailyPoints:      10,
		ConsecutiveBonus: map[int]int64{7: 20},
	})

	earned := make([]int64, 0, 7)
	for day := 0; day < 7; day++ {
		res, err := f.checkin.PerformCheckin(ctx, user.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, day+1, res.ConsecutiveDays)
		earned = append(earned, res.TotalPoints)
		f.advance(1)
	}

	assert.Equal(t, []int64{10, 10, 10, 10, 10, 10, 30}, earned)
	assert.Equal(t, int64(90), f.reload(user.ID).CurrentPoints)
	f.requireReconciled(user.ID)
}

func TestCheckin_DoubleCheckinRejected(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	user := f.createUser()
	f.createConfig(&types.SaveCheckinConfigReq{Name: "default", DailyPoints: 10})

	_, err := f.checkin.PerformCheckin(ctx, user.ID, nil)
	require.NoError(t, err)

	f.now = f.now.Add(2 * time.Hour)
	_, err = f.checkin.PerformCheckin(ctx, user.ID, nil)
	require.ErrorIs(t, err, ErrAlreadyCheckedIn)

	assert.Equal(t, int64(10), f.reload(user.ID).CurrentPoints)
	f.requireReconciled(user.ID)
}

// 并发请求都通过了"今日未签到"的预检查，由唯一索引兜底
func TestCheckin_DuplicateKeyMeansAlreadyCheckedIn(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	user := f.createUser()
	f.createConfig(&types.SaveCheckinConfigReq{Name: "default", DailyPoints: 10})

	raced := false
	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("test:checkin_race", func(tx *gorm.DB) {
		rec, ok := tx.Statement.Dest.(*models.UserCheckin)
		if !ok || raced {
			return
		}
		raced = true
		// 同一事务内抢先写入同一天的记录
		other := &models.UserCheckin{UserID: rec.UserID, CheckinDate: rec.CheckinDate, ConsecutiveDays: 1, ConfigID: rec.ConfigID}
		if err := tx.Session(&gorm.Session{NewDB: true}).Create(other).Error; err != nil {
			_ = tx.AddError(err)
		}
	}))

	_, err := f.checkin.PerformCheckin(ctx, user.ID, nil)
	require.ErrorIs(t, err, ErrAlreadyCheckedIn)
	require.True(t, raced)

	// 整个事务回滚，积分和流水都没有变化
	assert.Zero(t, f.reload(user.ID).CurrentPoints)
	var records int64
	require.NoError(t, f.db.Model(&models.PointsRecord{}).Where("user_id = ?", user.ID).Count(&records).Error)
	assert.Zero(t, records)
	var checkins int64
	require.NoError(t, f.db.Model(&models.UserCheckin{}).Where("user_id = ?", user.ID).Count(&checkins).Error)
	assert.Zero(t, checkins)

	res, err := f.checkin.PerformCheckin(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), res.TotalPoints)
	f.requireReconciled(user.ID)
}

func TestCheckin_StatusAfterMonthlyReset(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	user := f.createUser()
	f.createConfig(&types.SaveCheckinConfigReq{Name: "monthly", DailyPoints: 10, MonthlyReset: true})

	// 2月28日签到，3月1日查询
	f.advance(-1)
	_, err := f.checkin.PerformCheckin(ctx, user.ID, nil)
	require.NoError(t, err)
	f.advance(1)

	status, err := f.checkin.GetCheckinStatus(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.False(t, status.CheckedInToday)
	assert.Zero(t, status.ConsecutiveDays)

	res, err := f.checkin.PerformCheckin(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ConsecutiveDays)
}

func TestCheckin_StatusAcrossMonthWithoutReset(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	user := f.createUser()
	f.createConfig(&types.SaveCheckinConfigReq{Name: "default", DailyPoints: 10})

	f.advance(-1)
	_, err := f.checkin.PerformCheckin(ctx, user.ID, nil)
	require.NoError(t, err)
	f.advance(1)

	status, err := f.checkin.GetCheckinStatus(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, status.ConsecutiveDays)
}

func TestCheckin_SkippedDayResetsStreak(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	user := f.createUser()
	f.createConfig(&types.SaveCheckinConfigReq{Name: "default", DailyPoints: 5})

	for i := 0; i < 3; i++ {
		_, err := f.checkin.PerformCheckin(ctx, user.ID, nil)
		require.NoError(t, err)
		f.advance(1)
	}
	// 第 4 天未签，第 5 天重新计数
	f.advance(1)
	res, err := f.checkin.PerformCheckin(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ConsecutiveDays)

	// 第 1 天签、第 2 天漏签、第 3 天签
	other := f.createUser()
	_, err = f.checkin.PerformCheckin(ctx, other.ID, nil)
	require.NoError(t, err)
	f.advance(2)
	res, err = f.checkin.PerformCheckin(ctx, other.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ConsecutiveDays)
}

func TestCheckin_ConfigResolution(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	_, err := f.checkin.PerformCheckin(ctx, f.createUser().ID, nil)
	require.ErrorIs(t, err, ErrCheckinUnavailable)

	f.createConfig(&types.SaveCheckinConfigReq{Name: "vip", DailyPoints: 50, Roles: []string{"vip"}})

	// 只有绑定角色的规则时，无该角色的用户不能签到
	_, err = f.checkin.PerformCheckin(ctx, f.createUser().ID, []string{"member"})
	require.ErrorIs(t, err, ErrCheckinUnavailable)

	res, err := f.checkin.PerformCheckin(ctx, f.createUser("vip").ID, []string{"vip"})
	require.NoError(t, err)
	assert.Equal(t, int64(50), res.TotalPoints)

	f.createConfig(&types.SaveCheckinConfigReq{Name: "all", DailyPoints: 10})
	res, err = f.checkin.PerformCheckin(ctx, f.createUser().ID, []string{"member"})
	require.NoError(t, err)
	assert.Equal(t, "all", res.Config.Name)

	disabled := f.createConfig(&types.SaveCheckinConfigReq{Name: "off", DailyPoints: 99, IsActive: boolPtr(false)})
	assert.False(t, disabled.IsActive)
	res, err = f.checkin.PerformCheckin(ctx, f.createUser().ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), res.TotalPoints)
}

func TestCheckin_StatusAndHistory(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	user := f.createUser()
	f.createConfig(&types.SaveCheckinConfigReq{Name: "default", DailyPoints: 10})

	status, err := f.checkin.GetCheckinStatus(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.False(t, status.CheckedInToday)
	require.NotNil(t, status.Config)

	_, err = f.checkin.PerformCheckin(ctx, user.ID, nil)
	require.NoError(t, err)

	status, err = f.checkin.GetCheckinStatus(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.True(t, status.CheckedInToday)
	assert.Equal(t, 1, status.ConsecutiveDays)

	f.advance(1)
	status, err = f.checkin.GetCheckinStatus(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.False(t, status.CheckedInToday)
	assert.Equal(t, 1, status.ConsecutiveDays)

	history, err := f.checkin.ListCheckinHistory(ctx, user.ID, "2025-03")
	require.NoError(t, err)
	assert.Equal(t, 1, history.Days)
	assert.Equal(t, int64(10), history.TotalPoints)

	_, err = f.checkin.ListCheckinHistory(ctx, user.ID, "2025-13")
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestCheckin_UpdateConfig(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	cfg := f.createConfig(&types.SaveCheckinConfigReq{Name: "default", DailyPoints: 10, Roles: []string{"a", "a", "b"}})
	assert.Len(t, cfg.Roles, 2)

	updated, err := f.checkin.UpdateConfig(ctx, cfg.ID, &types.SaveCheckinConfigReq{
		Name:             "default",
		DailyPoints:      20,
		ConsecutiveBonus: map[int]int64{3: 5},
		IsActive:         boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(20), updated.DailyPoints)
	assert.Empty(t, updated.Roles)
	assert.Equal(t, int64(5), ParseBonusTiers(updated.ConsecutiveBonus).Bonus(3))

	_, err = f.checkin.UpdateConfig(ctx, 999, &types.SaveCheckinConfigReq{Name: "x"})
	assert.ErrorIs(t, err, ErrCheckinConfigNotFound)

	_, err = f.checkin.CreateConfig(ctx, &types.SaveCheckinConfigReq{Name: "bad", ConsecutiveBonus: map[int]int64{0: 5}})
	assert.ErrorIs(t, err, ErrInvalidBonusTier)

	page, err := f.checkin.ListConfigs(ctx, &types.PageReq{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Pagination.Total)
}
