package infra

import (
	"fmt"

	"github.com/warklp/saasBarber-sub001/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that
// AutoMigrate cannot express (partial indexes, check constraints).
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
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations applies AutoMigrate plus schema patches. Shared with the
// integration tests so both paths build the same schema.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Customer{},
		&model.BarberService{},
		&model.Product{},
		&model.Appointment{},
		&model.Comanda{},
		&model.ComandaItem{},
		&model.CommissionDetail{},
		&model.StockMovement{},
		&model.AuditLog{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot fully handle.
// Each statement is guarded so re-running on an already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Item rows must reference exactly one of service / product.
		{"comanda_items xor check", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_comanda_items_one_ref') THEN
    ALTER TABLE comanda_items
      ADD CONSTRAINT chk_comanda_items_one_ref
      CHECK ((service_id IS NULL) <> (product_id IS NULL));
  END IF;
END $$`},
		// Partial index for the commission repair cron query.
		{"comandas pending commission index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_comandas_pending_commission') THEN
    CREATE INDEX idx_comandas_pending_commission
        ON comandas (closed_at)
        WHERE status = 'closed' AND total_commission = 0;
  END IF;
END $$`},
		// Movement ledger lookups by product, newest first.
		{"stock_movements product/created index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_stock_movements_product_created') THEN
    CREATE INDEX idx_stock_movements_product_created
        ON stock_movements (product_id, created_at DESC);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
