package database

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Transaction 在事务上下文中执行 fn。
// tx 不为空时直接加入调用方的事务，由外层负责提交或回滚；
// 为空时以 db 开启新事务，并用 timeout 限定整个事务持有行锁的时间。
func Transaction(ctx context.Context, db *gorm.DB, tx *gorm.DB, timeout time.Duration, fn func(tx *gorm.DB) error) error {
	if tx != nil {
		return fn(tx)
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ForUpdate SELECT ... FOR UPDATE
func ForUpdate() clause.Expression {
	return clause.Locking{Strength: "UPDATE"}
}

// ForUpdateSkipLocked SELECT ... FOR UPDATE SKIP LOCKED，并发分配时各事务拿到不同的行
func ForUpdateSkipLocked() clause.Expression {
	return clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}
}
