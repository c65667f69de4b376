package repository

import (
	"context"

	"github.com/Zain0205/travelin-be/internal/models"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, payment *models.Payment) error
	FindByOrderID(ctx context.Context, tx *gorm.DB, orderID string) (*models.Payment, error)
	FindByUser(ctx context.Context, id, userID uint) (*models.Payment, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Payment, error)
	LatestConfirmedByBooking(ctx context.Context, tx *gorm.DB, bookingID uint) (*models.Payment, error)
	Updates(ctx context.Context, tx *gorm.DB, id uint, fields map[string]any) error
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	return tx.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) FindByOrderID(ctx context.Context, tx *gorm.DB, orderID string) (*models.Payment, error) {
	var payment models.Payment
	err := tx.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByUser(ctx context.Context, id, userID uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Joins("JOIN bookings ON bookings.id = payments.booking_id").
		Where("payments.id = ? AND bookings.user_id = ?", id, userID).
		Preload("Booking").
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) ListByUser(ctx context.Context, userID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Joins("JOIN bookings ON bookings.id = payments.booking_id").
		Where("bookings.user_id = ?", userID).
		Order("payments.created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) LatestConfirmedByBooking(ctx context.Context, tx *gorm.DB, bookingID uint) (*models.Payment, error) {
	var payment models.Payment
	err := tx.WithContext(ctx).
		Where("booking_id = ? AND payment_date IS NOT NULL", bookingID).
		Order("payment_date DESC").
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) Updates(ctx context.Context, tx *gorm.DB, id uint, fields map[string]any) error {
	return tx.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ?", id).
		Updates(fields).Error
}
