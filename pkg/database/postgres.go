package database

import (
	"log"

	"github.com/Zain0205/travelin-be/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.TravelPackage{},
		&models.Hotel{},
		&models.Flight{},
		&models.Booking{},
		&models.BookingHotel{},
		&models.BookingFlight{},
		&models.Payment{},
		&models.Reschedule{},
		&models.Refund{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// One refund per booking, enforced by the database so concurrent requests
	// cannot both slip past the application-level existence check
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_refund_booking
		ON refunds (booking_id)
	`)

	// Quota can never go negative, whatever the application does
	db.Exec(`
		DO $$ BEGIN
			ALTER TABLE travel_packages
			ADD CONSTRAINT chk_package_quota CHECK (quota >= 0);
		EXCEPTION WHEN duplicate_object THEN NULL;
		END $$
	`)

	return db
}
