package mysql

import (
	"errors"
	"strings"
	"time"

	"ChatDDing/config"

	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var global *gorm.DB

// DB 返回全局 gorm.DB（未初始化时为 nil）。
func DB() *gorm.DB { return global }

// ReplaceGlobal 设置全局 gorm.DB。
func ReplaceGlobal(db *gorm.DB) { global = db }

// Build 基于配置创建 MySQL 连接池并做一次 Ping 验证。
func Build(cfg config.MySQLConfig) (*gorm.DB, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, errors.New("mysql dsn is empty")
	}

	db, err := gorm.Open(gormmysql.Open(cfg.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(parseLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdle)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLife)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// parseLogLevel 解析 gorm 日志级别，未知值回退 warn。
func parseLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// 连接池兜底参数，配置为 0 时使用
const (
	defaultConnMaxIdle = 10 * time.Minute
	defaultConnMaxLife = time.Hour
)

// Normalize 填充缺省连接池参数。
func Normalize(cfg *config.MySQLConfig) {
	if cfg.ConnMaxIdle <= 0 {
		cfg.ConnMaxIdle = defaultConnMaxIdle
	}
	if cfg.ConnMaxLife <= 0 {
		cfg.ConnMaxLife = defaultConnMaxLife
	}
}
