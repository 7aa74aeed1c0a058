package database

import (
	"log"

	"github.com/eventdesk/registration-api/internal/config"
	"github.com/eventdesk/registration-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath+"?_busy_timeout=5000"), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	return db
}

// Migrate creates the schema. A partial unique index on live registrations
// backs the one-live-registration-per-participant-and-event rule at the
// storage layer; gorm struct tags cannot express the WHERE clause, and the
// index must not apply to history snapshots, so it is created here.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Participant{},
		&models.Category{},
		&models.Event{},
		&models.Registration{},
		&models.RegistrationHistory{},
		&models.APIKey{},
	)
	if err != nil {
		return err
	}

	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_registrations_participant_event_live
		ON registrations(participant_id, event_id)
		WHERE status IN ('ACCEPTED','WAITLISTED') AND deleted_at IS NULL`).Error
}
