package service

import (
	"Orbit/config"
	"Orbit/dao"
	"Orbit/dao/cache"
	"Orbit/models"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	t      *testing.T
	db     *gorm.DB
	ledger *config.Ledger
	now    time.Time

	points      *PointService
	checkin     *CheckinService
	products    *VirtualProductService
	commissions *CommissionService
	payouts     *PayoutService
	referrals   *ReferralService
	reconcile   *ReconcileService
}

// newFixture 每个测试一个独立的内存库，单连接让事务串行执行
func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))
	return newFixtureWithDB(t, db)
}

// newServerFixture 连接 ORBIT_TEST_DSN 指定的 MySQL / Postgres，用真实的行锁跑并发用例。
// 未设置时跳过。会清空并重建所有账务表，不要指向业务库
func newServerFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := os.Getenv("ORBIT_TEST_DSN")
	if dsn == "" {
		t.Skip("ORBIT_TEST_DSN not set")
	}
	dialector := mysql.Open(dsn)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialector = postgres.Open(dsn)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(20)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrator().DropTable(models.All()...))
	require.NoError(t, db.AutoMigrate(models.All()...))
	return newFixtureWithDB(t, db)
}

func newFixtureWithDB(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()

	ledger := config.DefaultLedger()
	ledger.MinPayoutAmount = decimal.NewFromInt(10)

	f := &fixture{
		t:      t,
		db:     db,
		ledger: ledger,
		now:    time.Date(2025, 3, 1, 9, 30, 0, 0, ledger.Location()),
	}
	clock := func() time.Time { return f.now }

	users, points, checkins := dao.NewUsers(db), dao.NewPoint(db), dao.NewCheckin(db)
	products, referral := dao.NewVirtualProduct(db), dao.NewReferral(db)

	f.points = &PointService{DB: db, Ledger: ledger, UserDAO: users, PointDAO: points}
	f.checkin = &CheckinService{
		DB:           db,
		Ledger:       ledger,
		Clock:        clock,
		CheckinCache: cache.NewCheckinStorage(nil),
		CheckinDAO:   checkins,
		PointService: f.points,
	}
	f.products = &VirtualProductService{DB: db, Ledger: ledger, Clock: clock, ProductDAO: products, PointService: f.points}
	f.commissions = &CommissionService{DB: db, Ledger: ledger, Clock: clock, UserDAO: users, ReferralDAO: referral}
	f.payouts = &PayoutService{DB: db, Ledger: ledger, Clock: clock, UserDAO: users, ReferralDAO: referral}
	f.referrals = &ReferralService{DB: db, Ledger: ledger, UserDAO: users, ReferralDAO: referral}
	f.reconcile = &ReconcileService{Ledger: ledger, UserDAO: users, PointDAO: points, ReferralDAO: referral}
	return f
}

func (f *fixture) createUser(roles ...string) *models.Users {
	f.t.Helper()
	user := &models.Users{Nickname: "tester", Status: 1}
	require.NoError(f.t, f.db.Create(user).Error)
	for _, r := range roles {
		require.NoError(f.t, f.db.Create(&models.UserRole{UserID: user.ID, Role: r}).Error)
	}
	return user
}

func (f *fixture) reload(id uint64) *models.Users {
	f.t.Helper()
	var user models.Users
	require.NoError(f.t, f.db.First(&user, id).Error)
	return &user
}

// advance 把时钟往后拨 days 天
func (f *fixture) advance(days int) {
	f.now = f.now.AddDate(0, 0, days)
}

// requireReconciled 余额与流水一致
func (f *fixture) requireReconciled(ids ...uint64) {
	f.t.Helper()
	issues, err := f.reconcile.ReconcileUsers(f.t.Context(), ids)
	require.NoError(f.t, err)
	require.Empty(f.t, issues)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
