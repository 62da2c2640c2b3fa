package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gym-service/internal/model"
	"gym-service/pkg/config"
)

var db *gorm.DB

// InitDB connects to PostgreSQL, configures the pool and migrates the
// schema.
func InitDB(cfg *config.Config) error {
	// PreferSimpleProtocol avoids "prepared statement already exists"
	// errors behind connection poolers.
	pgConfig := postgres.Config{
		DSN:                  cfg.DB.GetDSN(),
		PreferSimpleProtocol: true,
	}

	conn, err := gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger: logger.Default.LogMode(cfg.DB.LogLevel),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("get database handle: %w", err)
	}

	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	}

	if err := Migrate(conn); err != nil {
		return err
	}

	db = conn
	return nil
}

// Migrate creates or updates the table structure for every collection.
func Migrate(conn *gorm.DB) error {
	err := conn.AutoMigrate(
		&model.User{},
		&model.Member{},
		&model.Package{},
		&model.Bill{},
		&model.StoreItem{},
		&model.DietPlan{},
		&model.Notification{},
		&model.TestRecord{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return db
}
