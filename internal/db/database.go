package db

import (
	"fmt"

	"github.com/frecha/iotech-storefront/config"
	"github.com/frecha/iotech-storefront/internal/app/model"
	appLogger "github.com/frecha/iotech-storefront/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Initialize opens the snapshot store. Postgres for shared deployments,
// sqlite for single-node ones.
func Initialize(cfg *config.SnapshotConfig) error {
	appLogger.Info("Connecting to snapshot store", map[string]interface{}{
		"driver": cfg.Driver,
	})

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	default:
		dialector = postgres.Open(cfg.DSN())
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to snapshot store: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	appLogger.Info("Snapshot store connection established", map[string]interface{}{
		"driver": cfg.Driver,
	})
	return nil
}

// Migrate creates the snapshot schema.
func Migrate() error {
	return DB.AutoMigrate(&model.CartSnapshot{})
}

// Close closes the database connection
func Close() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
