package database

import (
	"fmt"

	"courier-booking/logger"
	"courier-booking/models/asset"
	"courier-booking/models/log"
	"courier-booking/models/shipment"
	"courier-booking/models/user"

	"gorm.io/gorm"
)

// migrationStages orders models so every foreign key target exists before its referrer
func migrationStages() [][]interface{} {
	return [][]interface{}{
		// Stage 1: accounts
		{&user.User{}},
		// Stage 2: bookings owned by users
		{&shipment.Shipment{}},
		// Stage 3: history, assets and request logs
		{&shipment.ShipmentStatusEvent{}, &asset.PaymentQRCode{}, &log.Log{}},
	}
}

// Migrate runs staged auto migration followed by the secondary indexes
func Migrate(db *gorm.DB) error {
	for i, stage := range migrationStages() {
		for _, model := range stage {
			if err := db.AutoMigrate(model); err != nil {
				return fmt.Errorf("stage %d: failed to migrate %T: %w", i+1, model, err)
			}
		}
	}
	return createIndexes(db)
}

type indexDef struct {
	name string
	sql  string
}

var indexes = []indexDef{
	{"idx_shipments_user_booking", "CREATE INDEX IF NOT EXISTS idx_shipments_user_booking ON shipments(user_id, booking_date DESC)"},
	{"idx_shipments_sender_city", "CREATE INDEX IF NOT EXISTS idx_shipments_sender_city ON shipments(sender_city)"},
	{"idx_shipments_receiver_city", "CREATE INDEX IF NOT EXISTS idx_shipments_receiver_city ON shipments(receiver_city)"},
	{"idx_shipment_status_events_shipment_created", "CREATE INDEX IF NOT EXISTS idx_shipment_status_events_shipment_created ON shipment_status_events(shipment_id, created_at)"},
	{"idx_logs_method", "CREATE INDEX IF NOT EXISTS idx_logs_method ON logs(method)"},
	{"idx_logs_status_code", "CREATE INDEX IF NOT EXISTS idx_logs_status_code ON logs(status_code)"},
	{"idx_logs_created_at", "CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)"},
}

// createIndexes creates additional indexes for the admin listing and log queries
func createIndexes(db *gorm.DB) error {
	for _, idx := range indexes {
		if err := db.Exec(idx.sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}
	return nil
}

// TableStatus is one row of the migration status report
type TableStatus struct {
	Model   string
	Table   string
	Present bool
}

// Status reports which model tables already exist
func Status(db *gorm.DB) ([]TableStatus, error) {
	var report []TableStatus
	for _, stage := range migrationStages() {
		for _, model := range stage {
			stmt := &gorm.Statement{DB: db}
			if err := stmt.Parse(model); err != nil {
				return nil, fmt.Errorf("parse %T: %w", model, err)
			}
			present := db.Migrator().HasTable(model)
			if !present {
				logger.Warning(fmt.Sprintf("Table %s is missing", stmt.Schema.Table))
			}
			report = append(report, TableStatus{
				Model:   fmt.Sprintf("%T", model),
				Table:   stmt.Schema.Table,
				Present: present,
			})
		}
	}
	return report, nil
}
