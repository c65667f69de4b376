package service

import (
	"context"
	"errors"
	"time"

	"github.com/Zain0205/travelin-be/internal/apperr"
	"github.com/Zain0205/travelin-be/internal/metrics"
	"github.com/Zain0205/travelin-be/internal/models"
	"github.com/Zain0205/travelin-be/internal/repository"
	"gorm.io/gorm"
)

type HotelItemInput struct {
	HotelID      uint
	CheckInDate  time.Time
	CheckOutDate time.Time
	Nights       int
}

type FlightItemInput struct {
	FlightID      uint
	PassengerName string
	SeatClass     string
}

type CreateBookingInput struct {
	Type       models.BookingType
	TravelDate time.Time
	PackageID  uint
	Hotels     []HotelItemInput
	Flights    []FlightItemInput
}

type BookingService interface {
	CreateBooking(ctx context.Context, input CreateBookingInput, userID uint) (*models.Booking, error)
	GetBookings(ctx context.Context, filter repository.BookingFilter, actor models.Actor) ([]models.Booking, int64, error)
	GetBookingByID(ctx context.Context, id uint, actor models.Actor) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id uint, status models.BookingStatus, actor models.Actor) (*models.Booking, error)
	RequestReschedule(ctx context.Context, bookingID uint, requestedDate time.Time, userID uint) (*models.Reschedule, error)
	HandleReschedule(ctx context.Context, id uint, approve bool, actor models.Actor) (*models.Reschedule, error)
}

type bookingService struct {
	bookingRepo    repository.BookingRepository
	catalogRepo    repository.CatalogRepository
	rescheduleRepo repository.RescheduleRepository
	notifier       Notifier
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	catalogRepo repository.CatalogRepository,
	rescheduleRepo repository.RescheduleRepository,
	notifier Notifier,
) BookingService {
	return &bookingService{
		bookingRepo:    bookingRepo,
		catalogRepo:    catalogRepo,
		rescheduleRepo: rescheduleRepo,
		notifier:       notifier,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, input CreateBookingInput, userID uint) (*models.Booking, error) {
	var booking *models.Booking
	var err error

	switch input.Type {
	case models.BookingTypePackage:
		booking, err = s.createPackageBooking(ctx, input, userID)
	case models.BookingTypeHotel:
		booking, err = s.createHotelBooking(ctx, input, userID)
	case models.BookingTypeFlight:
		booking, err = s.createFlightBooking(ctx, input, userID)
	case models.BookingTypeCustom:
		booking, err = s.createCustomBooking(ctx, input, userID)
	default:
		return nil, apperr.Invalid("invalid booking type: %s", input.Type)
	}
	if err != nil {
		return nil, err
	}

	metrics.BookingsCreated.WithLabelValues(string(booking.Type)).Inc()
	if s.notifier != nil {
		s.notifier.BookingCreated(ctx, userID, booking)
	}
	return booking, nil
}

// createPackageBooking takes a quota seat and inserts the booking in one
// transaction. The decrement is a conditional UPDATE checked by affected
// rows, so two concurrent requests against quota 1 cannot both win.
func (s *bookingService) createPackageBooking(ctx context.Context, input CreateBookingInput, userID uint) (*models.Booking, error) {
	var booking *models.Booking

	err := s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		pkg, err := s.catalogRepo.FindPackageByID(ctx, tx, input.PackageID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("travel package %d not found", input.PackageID)
			}
			return err
		}

		taken, err := s.catalogRepo.DecrementQuota(ctx, tx, pkg.ID)
		if err != nil {
			return err
		}
		if !taken {
			return apperr.InvalidState("travel package %d is fully booked", pkg.ID)
		}

		packageID := pkg.ID
		booking = &models.Booking{
			UserID:        userID,
			PackageID:     &packageID,
			Type:          models.BookingTypePackage,
			TravelDate:    input.TravelDate,
			TotalPrice:    pkg.Price,
			Status:        models.StatusPending,
			PaymentStatus: models.PaymentUnpaid,
		}
		return s.bookingRepo.Create(ctx, tx, booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) createHotelBooking(ctx context.Context, input CreateBookingInput, userID uint) (*models.Booking, error) {
	if len(input.Hotels) == 0 {
		return nil, apperr.Invalid("hotel booking requires at least one hotel")
	}

	var booking *models.Booking
	err := s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		items, total, err := s.buildHotelItems(ctx, tx, input.Hotels)
		if err != nil {
			return err
		}

		booking = &models.Booking{
			UserID:        userID,
			Type:          models.BookingTypeHotel,
			TravelDate:    input.Hotels[0].CheckInDate,
			TotalPrice:    total,
			Status:        models.StatusPending,
			PaymentStatus: models.PaymentUnpaid,
			BookingHotels: items,
		}
		return s.bookingRepo.Create(ctx, tx, booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) createFlightBooking(ctx context.Context, input CreateBookingInput, userID uint) (*models.Booking, error) {
	if len(input.Flights) == 0 {
		return nil, apperr.Invalid("flight booking requires at least one flight")
	}

	var booking *models.Booking
	err := s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		items, total, err := s.buildFlightItems(ctx, tx, input.Flights)
		if err != nil {
			return err
		}

		booking = &models.Booking{
			UserID:         userID,
			Type:           models.BookingTypeFlight,
			TravelDate:     input.TravelDate,
			TotalPrice:     total,
			Status:         models.StatusPending,
			PaymentStatus:  models.PaymentUnpaid,
			BookingFlights: items,
		}
		return s.bookingRepo.Create(ctx, tx, booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) createCustomBooking(ctx context.Context, input CreateBookingInput, userID uint) (*models.Booking, error) {
	if len(input.Hotels) == 0 && len(input.Flights) == 0 {
		return nil, apperr.Invalid("custom booking requires at least one hotel or flight")
	}

	var booking *models.Booking
	err := s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		hotelItems, hotelTotal, err := s.buildHotelItems(ctx, tx, input.Hotels)
		if err != nil {
			return err
		}
		flightItems, flightTotal, err := s.buildFlightItems(ctx, tx, input.Flights)
		if err != nil {
			return err
		}

		booking = &models.Booking{
			UserID:         userID,
			Type:           models.BookingTypeCustom,
			TravelDate:     input.TravelDate,
			TotalPrice:     hotelTotal + flightTotal,
			Status:         models.StatusPending,
			PaymentStatus:  models.PaymentUnpaid,
			BookingHotels:  hotelItems,
			BookingFlights: flightItems,
		}
		return s.bookingRepo.Create(ctx, tx, booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) buildHotelItems(ctx context.Context, tx *gorm.DB, inputs []HotelItemInput) ([]models.BookingHotel, int64, error) {
	var items []models.BookingHotel
	var total int64

	for _, item := range inputs {
		if item.Nights <= 0 {
			return nil, 0, apperr.Invalid("hotel stay requires a positive number of nights")
		}
		if !item.CheckInDate.Before(item.CheckOutDate) {
			return nil, 0, apperr.Invalid("check-in date must be before check-out date")
		}

		hotel, err := s.catalogRepo.FindHotelByID(ctx, tx, item.HotelID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, apperr.NotFound("hotel %d not found", item.HotelID)
			}
			return nil, 0, err
		}

		price := hotel.PricePerNight * int64(item.Nights)
		total += price
		items = append(items, models.BookingHotel{
			HotelID:      hotel.ID,
			CheckInDate:  item.CheckInDate,
			CheckOutDate: item.CheckOutDate,
			Nights:       item.Nights,
			TotalPrice:   price,
		})
	}
	return items, total, nil
}

func (s *bookingService) buildFlightItems(ctx context.Context, tx *gorm.DB, inputs []FlightItemInput) ([]models.BookingFlight, int64, error) {
	var items []models.BookingFlight
	var total int64

	for _, item := range inputs {
		if item.PassengerName == "" {
			return nil, 0, apperr.Invalid("flight segment requires a passenger name")
		}

		flight, err := s.catalogRepo.FindFlightByID(ctx, tx, item.FlightID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, apperr.NotFound("flight %d not found", item.FlightID)
			}
			return nil, 0, err
		}

		// Seat class is recorded but does not affect the fare.
		total += flight.Price
		items = append(items, models.BookingFlight{
			FlightID:      flight.ID,
			PassengerName: item.PassengerName,
			SeatClass:     item.SeatClass,
			TotalPrice:    flight.Price,
		})
	}
	return items, total, nil
}

func (s *bookingService) GetBookings(ctx context.Context, filter repository.BookingFilter, actor models.Actor) ([]models.Booking, int64, error) {
	return s.bookingRepo.List(ctx, filter, actor)
}

func (s *bookingService) GetBookingByID(ctx context.Context, id uint, actor models.Actor) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindScoped(ctx, id, actor)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("booking %d not found", id)
		}
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) UpdateBookingStatus(ctx context.Context, id uint, status models.BookingStatus, actor models.Actor) (*models.Booking, error) {
	booking, err := s.GetBookingByID(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if actor.IsCustomer() && status != models.StatusRejected {
		return nil, apperr.Forbidden("customers can only cancel their bookings")
	}
	if booking.Status.IsTerminal() {
		return nil, apperr.InvalidState("booking %d is already %s", id, booking.Status)
	}

	err = s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		// Rejecting a paid package booking hands the seat back.
		if status == models.StatusRejected && booking.PaymentStatus == models.PaymentPaid && booking.PackageID != nil {
			if err := s.catalogRepo.RestoreQuota(ctx, tx, *booking.PackageID); err != nil {
				return err
			}
		}
		return s.bookingRepo.UpdateStatus(ctx, tx, id, status)
	})
	if err != nil {
		return nil, err
	}

	booking.Status = status
	metrics.BookingStatusTransitions.WithLabelValues(string(status)).Inc()

	if s.notifier != nil {
		if status == models.StatusConfirmed {
			s.notifier.BookingConfirmed(ctx, booking.UserID, booking.ID)
		} else {
			s.notifier.BookingRejected(ctx, booking.UserID, booking.ID)
		}
	}
	return booking, nil
}

func (s *bookingService) RequestReschedule(ctx context.Context, bookingID uint, requestedDate time.Time, userID uint) (*models.Reschedule, error) {
	var reschedule *models.Reschedule

	err := s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		booking, err := s.bookingRepo.FindByUser(ctx, tx, bookingID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("booking %d not found for user %d", bookingID, userID)
			}
			return err
		}
		if booking.Status.IsTerminal() {
			return apperr.InvalidState("booking %d is already %s", bookingID, booking.Status)
		}

		reschedule = &models.Reschedule{
			BookingID:      bookingID,
			RequestedDate:  requestedDate,
			Status:         models.RescheduleStatusPending,
			PreviousStatus: booking.Status,
		}
		if err := s.rescheduleRepo.Create(ctx, tx, reschedule); err != nil {
			return err
		}

		// Park the booking in pending until the request is resolved.
		return s.bookingRepo.UpdateStatus(ctx, tx, bookingID, models.StatusPending)
	})
	if err != nil {
		return nil, err
	}
	return reschedule, nil
}

func (s *bookingService) HandleReschedule(ctx context.Context, id uint, approve bool, actor models.Actor) (*models.Reschedule, error) {
	if actor.IsCustomer() {
		return nil, apperr.Forbidden("customers cannot approve or reject reschedule requests")
	}

	var reschedule *models.Reschedule
	err := s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		reschedule, err = s.rescheduleRepo.FindByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("reschedule request %d not found", id)
			}
			return err
		}

		if actor.IsAgent() && !bookingTouchesAgent(reschedule.Booking, actor.ID) {
			return apperr.Forbidden("you can only handle reschedule requests for your own packages, hotels or flights")
		}

		status := models.RescheduleStatusRejected
		if approve {
			status = models.RescheduleStatusApproved
		}

		resolved, err := s.rescheduleRepo.Resolve(ctx, tx, id, status)
		if err != nil {
			return err
		}
		if !resolved {
			return apperr.Conflict("reschedule request %d has already been resolved", id)
		}
		reschedule.Status = status

		if approve {
			return s.bookingRepo.Updates(ctx, tx, reschedule.BookingID, map[string]any{
				"travel_date": reschedule.RequestedDate,
				"status":      models.StatusConfirmed,
			})
		}
		// Rejection restores whatever status the booking held before the
		// request parked it in pending.
		return s.bookingRepo.UpdateStatus(ctx, tx, reschedule.BookingID, reschedule.PreviousStatus)
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil && reschedule.Booking != nil {
		if approve {
			s.notifier.RescheduleApproved(ctx, reschedule.Booking.UserID, reschedule.BookingID)
		} else {
			s.notifier.RescheduleRejected(ctx, reschedule.Booking.UserID, reschedule.BookingID)
		}
	}
	return reschedule, nil
}

// bookingTouchesAgent reports whether any catalog entity on the booking is
// owned by the agent.
func bookingTouchesAgent(booking *models.Booking, agentID uint) bool {
	if booking == nil {
		return false
	}
	if booking.TravelPackage != nil && booking.TravelPackage.AgentID == agentID {
		return true
	}
	for _, bh := range booking.BookingHotels {
		if bh.Hotel != nil && bh.Hotel.AgentID == agentID {
			return true
		}
	}
	for _, bf := range booking.BookingFlights {
		if bf.Flight != nil && bf.Flight.AgentID == agentID {
			return true
		}
	}
	return false
}
