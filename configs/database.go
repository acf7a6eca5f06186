package configs

import (
	"fmt"
	"time"

	"conecta.church/configs/configslog"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var db *gorm.DB

// InitDB opens the postgres connection pool and stores the shared handle.
func InitDB() *gorm.DB {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		GetEnv("DB_HOST", "localhost"),
		GetEnv("DB_USER", "conecta"),
		GetEnv("DB_PASSWORD", ""),
		GetEnv("DB_NAME", "conecta"),
		GetEnv("DB_PORT", "5432"),
		GetEnv("DB_SSLMODE", "disable"),
	)

	logMode := gormlogger.Silent
	if GetEnv("APP_ENV", "development") != "production" {
		logMode = gormlogger.Warn
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	})
	if err != nil {
		configslog.Log.Fatal("database connection failed", zap.Error(err))
	}

	sqlDB, err := conn.DB()
	if err != nil {
		configslog.Log.Fatal("database handle unavailable", zap.Error(err))
	}
	sqlDB.SetMaxOpenConns(GetEnvAsInt("DB_MAX_OPEN_CONNS", 25))
	sqlDB.SetMaxIdleConns(GetEnvAsInt("DB_MAX_IDLE_CONNS", 5))
	sqlDB.SetConnMaxLifetime(time.Duration(GetEnvAsInt("DB_CONN_MAX_LIFETIME_MIN", 30)) * time.Minute)

	db = conn
	configslog.SLog.Infof("database connected: %s@%s", GetEnv("DB_NAME", "conecta"), GetEnv("DB_HOST", "localhost"))
	return db
}

// GetDB returns the shared database handle established by InitDB.
func GetDB() *gorm.DB {
	return db
}
