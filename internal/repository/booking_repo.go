package repository

import (
	"context"
	"time"

	"github.com/Zain0205/travelin-be/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// agentScopeCond restricts bookings to those touching a catalog entity owned
// by the given agent: the package, any hotel line item, or any flight segment.
const agentScopeCond = `(
	EXISTS (SELECT 1 FROM travel_packages tp WHERE tp.id = bookings.package_id AND tp.agent_id = ?)
	OR EXISTS (SELECT 1 FROM booking_hotels bh JOIN hotels h ON h.id = bh.hotel_id WHERE bh.booking_id = bookings.id AND h.agent_id = ?)
	OR EXISTS (SELECT 1 FROM booking_flights bf JOIN flights f ON f.id = bf.flight_id WHERE bf.booking_id = bookings.id AND f.agent_id = ?)
)`

type BookingFilter struct {
	Status        models.BookingStatus
	PaymentStatus models.PaymentStatus
	Type          models.BookingType
	StartDate     *time.Time
	EndDate       *time.Time
	Page          int
	Limit         int
}

type BookingRepository interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error)
	FindScoped(ctx context.Context, id uint, actor models.Actor) (*models.Booking, error)
	FindByUser(ctx context.Context, tx *gorm.DB, id, userID uint) (*models.Booking, error)
	List(ctx context.Context, filter BookingFilter, actor models.Actor) ([]models.Booking, int64, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.BookingStatus) error
	Updates(ctx context.Context, tx *gorm.DB, id uint, fields map[string]any) error
	GetDB() *gorm.DB
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *bookingRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Create(booking).Error
}

func withDetails(q *gorm.DB) *gorm.DB {
	return q.
		Preload("User").
		Preload("TravelPackage").
		Preload("BookingHotels.Hotel").
		Preload("BookingFlights.Flight").
		Preload("Payments")
}

func (r *bookingRepository) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := withDetails(tx.WithContext(ctx)).First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindByIDForUpdate locks the booking row for the duration of the enclosing
// transaction. Line items and payments are loaded with a second query so the
// locking clause applies to the bookings table only.
func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, tx, id)
}

func (r *bookingRepository) FindScoped(ctx context.Context, id uint, actor models.Actor) (*models.Booking, error) {
	q := r.db.WithContext(ctx).Where("bookings.id = ?", id)
	q = applyActorScope(q, actor)

	var booking models.Booking
	if err := withDetails(q).Preload("Reschedules").First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByUser(ctx context.Context, tx *gorm.DB, id, userID uint) (*models.Booking, error) {
	var booking models.Booking
	err := withDetails(tx.WithContext(ctx)).
		Where("bookings.id = ? AND bookings.user_id = ?", id, userID).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) List(ctx context.Context, filter BookingFilter, actor models.Actor) ([]models.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Booking{})

	if filter.Status != "" {
		q = q.Where("bookings.status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		q = q.Where("bookings.payment_status = ?", filter.PaymentStatus)
	}
	if filter.Type != "" {
		q = q.Where("bookings.type = ?", filter.Type)
	}
	if filter.StartDate != nil {
		q = q.Where("bookings.travel_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("bookings.travel_date <= ?", *filter.EndDate)
	}
	q = applyActorScope(q, actor)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	var bookings []models.Booking
	err := withDetails(q).
		Order("bookings.booking_date DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.BookingStatus) error {
	return tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *bookingRepository) Updates(ctx context.Context, tx *gorm.DB, id uint, fields map[string]any) error {
	return tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func applyActorScope(q *gorm.DB, actor models.Actor) *gorm.DB {
	switch actor.Role {
	case models.RoleCustomer:
		return q.Where("bookings.user_id = ?", actor.ID)
	case models.RoleAgent:
		return q.Where(agentScopeCond, actor.ID, actor.ID, actor.ID)
	default: // admin sees everything
		return q
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}
