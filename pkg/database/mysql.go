// Package database 负责初始化 MySQL 和 Redis 连接。
package database

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"ai-portal-go/internal/config"
	"ai-portal-go/pkg/log"
)

var DB *gorm.DB

// gormConfig 让 gorm 只把慢查询和错误通过 zap 以 warn 级别输出，记录不存在不算错误。
func gormConfig(cfg config.MySQLConfig) *gorm.Config {
	return &gorm.Config{
		Logger: gormlogger.New(log.Writer{Prefix: "[gorm] "}, gormlogger.Config{
			SlowThreshold:             cfg.SlowQueryThreshold(),
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

// OpenMySQL 按配置打开连接并设置连接池。
func OpenMySQL(cfg config.MySQLConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), gormConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("连接 MySQL 失败: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取 sql.DB 失败: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime())
	return db, nil
}

// InitMySQL 初始化全局 DB，失败时退出进程。
func InitMySQL(cfg config.MySQLConfig) {
	db, err := OpenMySQL(cfg)
	if err != nil {
		log.Fatal("MySQL 初始化失败", err)
	}
	DB = db
	log.Infof("MySQL 连接成功，连接池 idle=%d open=%d", cfg.MaxIdleConns, cfg.MaxOpenConns)
}

// Migrate 按给定模型自动建表或补齐字段。
func Migrate(models ...interface{}) {
	start := time.Now()
	if err := DB.AutoMigrate(models...); err != nil {
		log.Fatal("数据库表迁移失败", err)
	}
	log.Infof("数据库表迁移完成，共 %d 个模型，耗时 %s", len(models), time.Since(start).Round(time.Millisecond))
}
