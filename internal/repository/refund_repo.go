package repository

import (
	"context"
	"time"

	"github.com/Zain0205/travelin-be/internal/models"
	"gorm.io/gorm"
)

type RefundFilter struct {
	Status      models.RefundStatus
	BookingType models.BookingType
	StartDate   *time.Time
	EndDate     *time.Time
	Page        int
	Limit       int
}

type RefundRepository interface {
	Create(ctx context.Context, tx *gorm.DB, refund *models.Refund) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Refund, error)
	FindScoped(ctx context.Context, id uint, actor models.Actor) (*models.Refund, error)
	ExistsForBooking(ctx context.Context, tx *gorm.DB, bookingID uint) (bool, error)
	List(ctx context.Context, filter RefundFilter, actor models.Actor) ([]models.Refund, int64, error)
	Resolve(ctx context.Context, tx *gorm.DB, id uint, fields map[string]any) (bool, error)
	Updates(ctx context.Context, tx *gorm.DB, id uint, fields map[string]any) error
}

type refundRepository struct {
	db *gorm.DB
}

func NewRefundRepository(db *gorm.DB) RefundRepository {
	return &refundRepository{db: db}
}

func withRefundDetails(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Booking.User").
		Preload("Booking.TravelPackage").
		Preload("Booking.BookingHotels.Hotel").
		Preload("Booking.BookingFlights.Flight").
		Preload("Booking.Payments").
		Preload("Processor")
}

func (r *refundRepository) Create(ctx context.Context, tx *gorm.DB, refund *models.Refund) error {
	return tx.WithContext(ctx).Create(refund).Error
}

func (r *refundRepository) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Refund, error) {
	var refund models.Refund
	if err := withRefundDetails(tx.WithContext(ctx)).First(&refund, id).Error; err != nil {
		return nil, err
	}
	return &refund, nil
}

func (r *refundRepository) FindScoped(ctx context.Context, id uint, actor models.Actor) (*models.Refund, error) {
	q := r.db.WithContext(ctx).Where("refunds.id = ?", id)
	q = applyRefundActorScope(q, actor)

	var refund models.Refund
	if err := withRefundDetails(q).First(&refund).Error; err != nil {
		return nil, err
	}
	return &refund, nil
}

func (r *refundRepository) ExistsForBooking(ctx context.Context, tx *gorm.DB, bookingID uint) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Refund{}).
		Where("booking_id = ?", bookingID).
		Count(&count).Error
	return count > 0, err
}

func (r *refundRepository) List(ctx context.Context, filter RefundFilter, actor models.Actor) ([]models.Refund, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Refund{})

	if filter.Status != "" {
		q = q.Where("refunds.status = ?", filter.Status)
	}
	if filter.BookingType != "" {
		q = q.Joins("JOIN bookings ON bookings.id = refunds.booking_id").
			Where("bookings.type = ?", filter.BookingType)
	}
	if filter.StartDate != nil && filter.EndDate != nil {
		q = q.Where("refunds.created_at BETWEEN ? AND ?", *filter.StartDate, *filter.EndDate)
	}
	q = applyRefundActorScope(q, actor)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	var refunds []models.Refund
	err := withRefundDetails(q).
		Order("refunds.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&refunds).Error
	if err != nil {
		return nil, 0, err
	}
	return refunds, total, nil
}

// Resolve applies fields to a refund only while it is still pending. The
// returned bool is false when another request resolved it first.
func (r *refundRepository) Resolve(ctx context.Context, tx *gorm.DB, id uint, fields map[string]any) (bool, error) {
	res := tx.WithContext(ctx).
		Model(&models.Refund{}).
		Where("id = ? AND status = ?", id, models.RefundStatusPending).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *refundRepository) Updates(ctx context.Context, tx *gorm.DB, id uint, fields map[string]any) error {
	return tx.WithContext(ctx).
		Model(&models.Refund{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func applyRefundActorScope(q *gorm.DB, actor models.Actor) *gorm.DB {
	switch actor.Role {
	case models.RoleCustomer:
		return q.Where("refunds.user_id = ?", actor.ID)
	case models.RoleAgent:
		return q.Where(`EXISTS (
			SELECT 1 FROM bookings b WHERE b.id = refunds.booking_id AND (
				EXISTS (SELECT 1 FROM travel_packages tp WHERE tp.id = b.package_id AND tp.agent_id = ?)
				OR EXISTS (SELECT 1 FROM booking_hotels bh JOIN hotels h ON h.id = bh.hotel_id WHERE bh.booking_id = b.id AND h.agent_id = ?)
				OR EXISTS (SELECT 1 FROM booking_flights bf JOIN flights f ON f.id = bf.flight_id WHERE bf.booking_id = b.id AND f.agent_id = ?)
			)
		)`, actor.ID, actor.ID, actor.ID)
	default:
		return q
	}
}
