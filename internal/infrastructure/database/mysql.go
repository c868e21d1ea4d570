package database

import (
	"fmt"
	"log"
	"time"

	"fundsystem/internal/config"
	"fundsystem/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitMySQL 初始化 MySQL 连接
func InitMySQL(cfg *config.MySQLConfig) *gorm.DB {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatalf("连接 MySQL 失败: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("获取底层 DB 失败: %v", err)
	}

	// 连接池配置
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 自动迁移表结构
	err = db.AutoMigrate(
		&model.Fund{},
		&model.FundTransaction{},
		&model.NotificationOutbox{},
	)
	if err != nil {
		log.Fatalf("自动迁移表结构失败: %v", err)
	}

	DB = db
	log.Println("MySQL 连接成功")
	return db
}

// SeedFunds 初始化基金目录
// 目录为空时写入默认基金，已有数据则跳过（目录运行期间只读）
func SeedFunds(db *gorm.DB, funds []model.Fund) {
	var count int64
	if err := db.Model(&model.Fund{}).Count(&count).Error; err != nil {
		log.Fatalf("查询基金目录失败: %v", err)
	}
	if count > 0 {
		return
	}

	if err := db.Create(&funds).Error; err != nil {
		log.Fatalf("初始化基金目录失败: %v", err)
	}
	log.Printf("基金目录初始化完成: %d 条", len(funds))
}
