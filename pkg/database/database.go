package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mediguard/mediguard/internal/config"
	"github.com/mediguard/mediguard/internal/domain"
	"github.com/mediguard/mediguard/internal/domain/authenticity"
	"github.com/mediguard/mediguard/internal/domain/medicine"
	"github.com/mediguard/mediguard/internal/domain/prescription"
	"github.com/mediguard/mediguard/internal/domain/reminder"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt:                              true,
		DisableForeignKeyConstraintWhenMigrating: false,
		DisableAutomaticPing:                     false,
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: false,
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	schemas := []string{"account", "clinical", "audit"} // logical namespace
	for _, schema := range schemas {
		if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)).Error; err != nil {
			return fmt.Errorf("creating schema %s: %w", schema, err)
		}
	}

	models := []any{
		&domain.User{},
		&domain.AuditLog{},
		&prescription.Prescription{},
		&medicine.Medicine{},
		&reminder.Reminder{},
		&authenticity.Log{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		name  string
		query string
	}{
		// Startup recovery scans pending reminders by firing instant
		{
			name:  "idx_reminders_pending_due",
			query: `CREATE INDEX IF NOT EXISTS idx_reminders_pending_due ON clinical.reminders (remind_at) WHERE status = 'pending'`,
		},
		{
			name:  "idx_reminders_user_upcoming",
			query: `CREATE INDEX IF NOT EXISTS idx_reminders_user_upcoming ON clinical.reminders (user_id, status, remind_at)`,
		},
		{
			name:  "idx_medicines_user_verified",
			query: `CREATE INDEX IF NOT EXISTS idx_medicines_user_verified ON clinical.medicines (user_id, verified) WHERE deleted_at IS NULL`,
		},
		{
			name:  "idx_prescriptions_user_uploaded",
			query: `CREATE INDEX IF NOT EXISTS idx_prescriptions_user_uploaded ON clinical.prescriptions (user_id, uploaded_on DESC) WHERE deleted_at IS NULL`,
		},
		{
			name:  "idx_authenticity_logs_user_scanned",
			query: `CREATE INDEX IF NOT EXISTS idx_authenticity_logs_user_scanned ON clinical.authenticity_logs (user_id, scanned_on DESC)`,
		},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.query).Error; err != nil {
			_ = err
		}
	}

	return nil
}
