package cache

import (
	"Orbit/pkg/log"
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CheckinStorage 缓存"今日已签到"标记，仅用于加速查询，签到是否成功以数据库唯一索引为准。
// redis 为 nil 时所有操作都是空操作
type CheckinStorage struct {
	redis *redis.Client
}

func NewCheckinStorage(rds *redis.Client) *CheckinStorage {
	return &CheckinStorage{rds}
}

// MarkToday 记录今日已签到，value 为连续天数，过期时间为次日零点
// @params uid     用户ID
// @params date    签到日期 2006-01-02
// @params days    连续签到天数
// @params expire  距离次日零点的时长
func (c *CheckinStorage) MarkToday(ctx context.Context, uid uint64, date string, days int, expire time.Duration) {
	if c.redis == nil || expire <= 0 {
		return
	}
	// 写缓存失败不影响签到结果，下次查询回源数据库
	if err := c.redis.Set(ctx, c.name(uid, date), days, expire).Err(); err != nil {
		log.L.Warn("mark checkin cache", zap.Uint64("user_id", uid), zap.String("date", date), zap.Error(err))
	}
}

// Get 返回缓存的连续天数，未命中时 ok 为 false
// @params uid     用户ID
// @params date    签到日期 2006-01-02
func (c *CheckinStorage) Get(ctx context.Context, uid uint64, date string) (days int, ok bool) {
	if c.redis == nil {
		return 0, false
	}
	i, err := c.redis.Get(ctx, c.name(uid, date)).Int()
	if err != nil {
		return 0, false
	}
	return i, true
}

func (c *CheckinStorage) name(uid uint64, date string) string {
	return fmt.Sprintf("orbit:checkin:%s:%d", date, uid)
}
