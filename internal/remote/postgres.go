package remote

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresLedger is the GORM-backed implementation of Ledger.
type PostgresLedger struct {
	db *gorm.DB
}

func NewPostgresLedger(db *gorm.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

func (l *PostgresLedger) GetBalanceSheet(ctx context.Context, branch string) ([]DailyTotal, error) {
	var totals []DailyTotal
	err := l.db.WithContext(ctx).
		Where("branch = ?", branch).
		Order("date DESC").
		Find(&totals).Error
	return totals, err
}

func (l *PostgresLedger) GetDailyTotal(ctx context.Context, branch, date string) (*DailyTotal, error) {
	var total DailyTotal
	err := l.db.WithContext(ctx).
		Where("branch = ? AND date = ?", branch, date).
		First(&total).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &total, nil
}

func (l *PostgresLedger) SaveDailyTotal(ctx context.Context, branch, date string, totalRevenue int64, quantities []ProductQuantity) error {
	record := DailyTotal{
		Branch:            branch,
		Date:              date,
		TotalRevenue:      totalRevenue,
		ProductQuantities: quantities,
	}
	return l.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "branch"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"total_revenue", "product_quantities"}),
		}).
		Create(&record).Error
}

func (l *PostgresLedger) ClearDailyTotals(ctx context.Context, branch string) error {
	return l.db.WithContext(ctx).
		Where("branch = ?", branch).
		Delete(&DailyTotal{}).Error
}

func (l *PostgresLedger) GetUserProfile(ctx context.Context, branch string) (*UserProfile, error) {
	var profile UserProfile
	err := l.db.WithContext(ctx).
		Where("branch = ?", branch).
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (l *PostgresLedger) SaveUserProfile(ctx context.Context, profile UserProfile) error {
	return l.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "branch"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "bill_print_location"}),
		}).
		Create(&profile).Error
}

var _ Ledger = (*PostgresLedger)(nil)
