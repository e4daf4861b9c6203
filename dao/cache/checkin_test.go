package cache

import (
	"Orbit/pkg/log"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	core, logs := observer.New(zapcore.WarnLevel)
	prev := log.L
	log.L = zap.New(core)
	t.Cleanup(func() { log.L = prev })
	return logs
}

func TestCheckinStorage_NilClient(t *testing.T) {
	logs := observeLogs(t)
	c := NewCheckinStorage(nil)

	c.MarkToday(t.Context(), 1, "2025-03-01", 3, time.Hour)
	_, ok := c.Get(t.Context(), 1, "2025-03-01")
	assert.False(t, ok)
	assert.Zero(t, logs.Len())
}

// redis 不可用时签到照常完成，只留下一条告警
func TestCheckinStorage_MarkTodayUnreachable(t *testing.T) {
	logs := observeLogs(t)
	rds := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rds.Close() })
	c := NewCheckinStorage(rds)

	c.MarkToday(t.Context(), 42, "2025-03-01", 3, time.Hour)

	entries := logs.FilterMessage("mark checkin cache").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, uint64(42), fields["user_id"])
	assert.Equal(t, "2025-03-01", fields["date"])
	assert.NotEmpty(t, fields["error"])

	_, ok := c.Get(t.Context(), 42, "2025-03-01")
	assert.False(t, ok)
}

// 过期时间非正数时不写缓存
func TestCheckinStorage_MarkTodayExpired(t *testing.T) {
	logs := observeLogs(t)
	rds := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { _ = rds.Close() })

	NewCheckinStorage(rds).MarkToday(t.Context(), 42, "2025-03-01", 3, 0)
	assert.Zero(t, logs.Len())
}
