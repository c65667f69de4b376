package repository

import (
	"context"

	"github.com/Zain0205/travelin-be/internal/models"
	"gorm.io/gorm"
)

type RescheduleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, reschedule *models.Reschedule) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Reschedule, error)
	Resolve(ctx context.Context, tx *gorm.DB, id uint, status models.RescheduleStatus) (bool, error)
}

type rescheduleRepository struct {
	db *gorm.DB
}

func NewRescheduleRepository(db *gorm.DB) RescheduleRepository {
	return &rescheduleRepository{db: db}
}

func (r *rescheduleRepository) Create(ctx context.Context, tx *gorm.DB, reschedule *models.Reschedule) error {
	return tx.WithContext(ctx).Create(reschedule).Error
}

func (r *rescheduleRepository) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Reschedule, error) {
	var reschedule models.Reschedule
	err := tx.WithContext(ctx).
		Preload("Booking.TravelPackage").
		Preload("Booking.BookingHotels.Hotel").
		Preload("Booking.BookingFlights.Flight").
		First(&reschedule, id).Error
	if err != nil {
		return nil, err
	}
	return &reschedule, nil
}

// Resolve flips a pending reschedule to its terminal status. The status guard
// in the WHERE clause makes resolution single-shot: a second attempt matches
// zero rows.
func (r *rescheduleRepository) Resolve(ctx context.Context, tx *gorm.DB, id uint, status models.RescheduleStatus) (bool, error) {
	result := tx.WithContext(ctx).
		Model(&models.Reschedule{}).
		Where("id = ? AND status = ?", id, models.RescheduleStatusPending).
		Update("status", status)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
