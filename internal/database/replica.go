package database

import (
	"fmt"
	"time"

	"forumhub/internal/config"
	"forumhub/internal/middleware"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var readReplica *gorm.DB

// GetReadDB returns the read-replica connection, or nil when no replica
// is configured. Callers fall back to the primary.
func GetReadDB() *gorm.DB {
	return readReplica
}

// SetReadDB overrides the read-replica connection. Used by tests.
func SetReadDB(db *gorm.DB) {
	readReplica = db
}

// ConnectReadReplica opens the optional read-replica connection. A replica
// is configured by setting DB_READ_HOST; all other parameters are shared
// with the primary.
func ConnectReadReplica(cfg *config.Config) error {
	if cfg.DBReadHost == "" {
		return nil
	}

	sslMode := cfg.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBReadHost,
		cfg.DBPort,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		sslMode,
	)

	gormLogger := &CustomGormLogger{
		logger: middleware.Logger,
		Config: logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return fmt.Errorf("failed to connect to read replica: %w", err)
	}
	if err := configurePool(db, cfg); err != nil {
		return err
	}

	middleware.Logger.Info("Read replica connected successfully")
	readReplica = db
	return nil
}
