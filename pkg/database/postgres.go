package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSNFromEnv 从环境变量拼接连接串，缺省值面向本地开发
func DSNFromEnv() string {
	host := envOr("DB_HOST", "localhost")
	user := envOr("DB_USER", "bazaar_admin")
	password := envOr("DB_PASSWORD", "1234")
	name := envOr("DB_NAME", "bazaar_catalog")
	port := envOr("DB_PORT", "5432")
	sslmode := envOr("DB_SSLMODE", "disable")

	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, password, name, port, sslmode)
}

// InitDB 初始化数据库连接
// models: 需要自动建表/迁移的结构体指针
func InitDB(dsn string, models ...interface{}) *gorm.DB {
	// 线上只打印慢查询和错误，要看全量 SQL 把级别调到 Info
	dbLogger := logger.Default.LogMode(logger.Warn)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	// 连接池参数：目录服务以读为主，连接数不用开太大
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("获取底层 SQL DB 失败: %v", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("数据库连接成功")

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			log.Fatalf("自动建表出错: %v", err)
		}
	}

	return db
}

func envOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
