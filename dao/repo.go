package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repo 通用单表操作，tx 参数为事务上下文，传 nil 时使用 Repo 自身的连接
type Repo[T any] struct {
	Db *gorm.DB
}

func NewRepo[T any](db *gorm.DB) Repo[T] {
	return Repo[T]{Db: db}
}

// Conn 返回本次操作使用的连接：事务内用 tx（沿用事务自身的 context 与超时），否则用 Repo 的连接
func (r *Repo[T]) Conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.Db.WithContext(ctx)
}

func (r *Repo[T]) Create(ctx context.Context, tx *gorm.DB, data *T) error {
	return r.Conn(ctx, tx).Create(data).Error
}

func (r *Repo[T]) FindById(ctx context.Context, id uint64) (*T, error) {
	var item T
	if err := r.Db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repo[T]) FindByWhere(ctx context.Context, where string, args ...any) (*T, error) {
	var item T
	if err := r.Db.WithContext(ctx).Where(where, args...).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repo[T]) IsExist(ctx context.Context, where string, args ...any) (bool, error) {
	var item T
	err := r.Db.WithContext(ctx).Select("id").Where(where, args...).Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *Repo[T]) Count(ctx context.Context, where string, args ...any) (int64, error) {
	var count int64
	err := r.Db.WithContext(ctx).Model(new(T)).Where(where, args...).Count(&count).Error
	return count, err
}

// Paginate 按 query 计数并取一页，order 为排序子句，preloads 只作用于取数据
func Paginate[T any](query *gorm.DB, order string, limit, offset int, preloads ...string) ([]*T, int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Model(new(T)).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	items := make([]*T, 0, limit)
	if total == 0 {
		return items, 0, nil
	}
	find := query.Session(&gorm.Session{})
	for _, p := range preloads {
		find = find.Preload(p)
	}
	err := find.Order(order).Limit(limit).Offset(offset).Find(&items).Error
	return items, total, err
}
