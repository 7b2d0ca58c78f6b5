package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/caffeinepub/total-amount-calculator-app/internal/remote"
)

// NewDatabase establishes a GORM connection backed by pgx and migrates the
// two remote-ledger tables. The schema is small enough that AutoMigrate is
// the whole migration story.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)

	if err := db.AutoMigrate(&remote.DailyTotal{}, &remote.UserProfile{}); err != nil {
		return nil, fmt.Errorf("migrate remote ledger schema: %w", err)
	}
	return db, nil
}
