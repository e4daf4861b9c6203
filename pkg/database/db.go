package database

import (
	"Orbit/config"
	"Orbit/pkg/log"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 初始化数据库连接，返回的 cleanup 用于进程退出时关闭连接池
func NewDB(conf *config.Config) (*gorm.DB, func(), error) {
	var dialector gorm.Dialector
	switch conf.MySQL.Driver {
	case "postgres":
		dialector = postgres.Open(conf.MySQL.Dsn())
	case "", "mysql":
		dialector = mysql.Open(conf.MySQL.Dsn())
	default:
		return nil, nil, fmt.Errorf("unsupported database driver: %s", conf.MySQL.Driver)
	}

	gormLogger := logger.Default.LogMode(logger.Warn)
	if conf.Debug() {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger,
	})
	if err != nil {
		log.L.Error("failed to connect database", zap.Error(err))
		return nil, nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	if conf.MySQL.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(conf.MySQL.MaxOpenConns)
	}
	if conf.MySQL.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(conf.MySQL.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.L.Info("connect database success", zap.String("driver", db.Dialector.Name()))

	cleanup := func() {
		if err := sqlDB.Close(); err != nil {
			log.L.Warn("close database", zap.Error(err))
			return
		}
		log.L.Info("database closed")
	}
	return db, cleanup, nil
}
