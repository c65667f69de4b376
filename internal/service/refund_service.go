package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Zain0205/travelin-be/internal/apperr"
	"github.com/Zain0205/travelin-be/internal/gateway"
	"github.com/Zain0205/travelin-be/internal/metrics"
	"github.com/Zain0205/travelin-be/internal/models"
	"github.com/Zain0205/travelin-be/internal/repository"
	"gorm.io/gorm"
)

// refundRatePercent is the share of the original price returned to the
// customer, truncated toward zero on odd amounts.
const refundRatePercent = 50

type ProcessRefundInput struct {
	Approve      bool
	RefundMethod string
	RefundProof  string
}

type RefundService interface {
	RequestRefund(ctx context.Context, bookingID uint, reason string, userID uint) (*models.Refund, error)
	CancelBooking(ctx context.Context, bookingID uint, reason string, requestRefund bool, userID uint) (*models.Booking, error)
	ProcessRefund(ctx context.Context, refundID uint, input ProcessRefundInput, actor models.Actor) (*models.Refund, error)
	GetRefunds(ctx context.Context, filter repository.RefundFilter, actor models.Actor) ([]models.Refund, int64, error)
	GetRefundByID(ctx context.Context, id uint, actor models.Actor) (*models.Refund, error)
}

type refundService struct {
	bookingRepo repository.BookingRepository
	refundRepo  repository.RefundRepository
	catalogRepo repository.CatalogRepository
	paymentRepo repository.PaymentRepository
	gateway     gateway.PaymentGateway
	notifier    Notifier
}

func NewRefundService(
	bookingRepo repository.BookingRepository,
	refundRepo repository.RefundRepository,
	catalogRepo repository.CatalogRepository,
	paymentRepo repository.PaymentRepository,
	gw gateway.PaymentGateway,
	notifier Notifier,
) RefundService {
	return &refundService{
		bookingRepo: bookingRepo,
		refundRepo:  refundRepo,
		catalogRepo: catalogRepo,
		paymentRepo: paymentRepo,
		gateway:     gw,
		notifier:    notifier,
	}
}

func calculateRefundAmount(total int64) int64 {
	return total * refundRatePercent / 100
}

// validateRefundEligibility requires at least one full day between now and the
// travel date. A booking 12 hours out is not refundable; one 25 hours out is.
func validateRefundEligibility(travelDate time.Time) error {
	dayDiff := int(time.Until(travelDate) / (24 * time.Hour))
	if dayDiff < 1 {
		return apperr.InvalidState("refunds must be requested at least one day before the travel date")
	}
	return nil
}

func (s *refundService) RequestRefund(ctx context.Context, bookingID uint, reason string, userID uint) (*models.Refund, error) {
	var refund *models.Refund
	var booking *models.Booking

	err := s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		booking, err = s.bookingRepo.FindByUser(ctx, tx, bookingID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("booking %d not found for user %d", bookingID, userID)
			}
			return err
		}

		if booking.Status != models.StatusConfirmed {
			return apperr.InvalidState("only confirmed bookings can be refunded, booking %d is %s", bookingID, booking.Status)
		}
		if booking.PaymentStatus != models.PaymentPaid {
			return apperr.InvalidState("only paid bookings can be refunded")
		}
		if err := validateRefundEligibility(booking.TravelDate); err != nil {
			return err
		}

		exists, err := s.refundRepo.ExistsForBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Conflict("a refund already exists for booking %d", bookingID)
		}

		refund = &models.Refund{
			BookingID:      bookingID,
			UserID:         userID,
			Amount:         calculateRefundAmount(booking.TotalPrice),
			OriginalAmount: booking.TotalPrice,
			Reason:         reason,
			Status:         models.RefundStatusPending,
		}
		if err := s.refundRepo.Create(ctx, tx, refund); err != nil {
			// A concurrent request can slip past the existence check; the
			// unique index on booking_id catches it here.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("a refund already exists for booking %d", bookingID)
			}
			return err
		}

		return s.cancelBookingTx(ctx, tx, booking, reason)
	})
	if err != nil {
		return nil, err
	}

	metrics.RefundsRequested.Inc()
	if s.notifier != nil {
		s.notifier.RefundRequested(ctx, userID, bookingID, refund)
	}
	return refund, nil
}

// CancelBooking cancels without requiring a refund. When requestRefund is set
// and the booking is paid, a refund request is attempted as well; when the
// booking is no longer refund-eligible the cancellation still stands and the
// refund is skipped.
func (s *refundService) CancelBooking(ctx context.Context, bookingID uint, reason string, requestRefund bool, userID uint) (*models.Booking, error) {
	var booking *models.Booking

	err := s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		booking, err = s.bookingRepo.FindByUser(ctx, tx, bookingID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("booking %d not found for user %d", bookingID, userID)
			}
			return err
		}

		if booking.Status.IsTerminal() {
			return apperr.InvalidState("booking %d is already %s", bookingID, booking.Status)
		}

		if requestRefund && booking.PaymentStatus == models.PaymentPaid {
			if err := s.tryCreateRefund(ctx, tx, booking, reason, userID); err != nil {
				return err
			}
		}

		return s.cancelBookingTx(ctx, tx, booking, reason)
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingStatusTransitions.WithLabelValues(string(models.StatusCancelled)).Inc()
	if s.notifier != nil {
		s.notifier.BookingCancelled(ctx, userID, bookingID, booking.Type)
	}
	return booking, nil
}

// tryCreateRefund creates the refund row for a paid cancellation. Eligibility
// failures are logged and swallowed so the cancellation itself goes through.
func (s *refundService) tryCreateRefund(ctx context.Context, tx *gorm.DB, booking *models.Booking, reason string, userID uint) error {
	if err := validateRefundEligibility(booking.TravelDate); err != nil {
		log.Printf("[RefundService] skipping refund for booking %d: %v", booking.ID, err)
		return nil
	}

	exists, err := s.refundRepo.ExistsForBooking(ctx, tx, booking.ID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	refund := &models.Refund{
		BookingID:      booking.ID,
		UserID:         userID,
		Amount:         calculateRefundAmount(booking.TotalPrice),
		OriginalAmount: booking.TotalPrice,
		Reason:         reason,
		Status:         models.RefundStatusPending,
	}
	if err := s.refundRepo.Create(ctx, tx, refund); err != nil {
		return err
	}
	metrics.RefundsRequested.Inc()
	if s.notifier != nil {
		s.notifier.RefundRequested(ctx, userID, booking.ID, refund)
	}
	return nil
}

func (s *refundService) cancelBookingTx(ctx context.Context, tx *gorm.DB, booking *models.Booking, reason string) error {
	now := time.Now()
	err := s.bookingRepo.Updates(ctx, tx, booking.ID, map[string]any{
		"status":              models.StatusCancelled,
		"cancelled_at":        now,
		"cancellation_reason": reason,
	})
	if err != nil {
		return err
	}
	booking.Status = models.StatusCancelled
	booking.CancelledAt = &now
	booking.CancellationReason = reason

	if booking.PackageID != nil {
		return s.catalogRepo.RestoreQuota(ctx, tx, *booking.PackageID)
	}
	return nil
}

func (s *refundService) ProcessRefund(ctx context.Context, refundID uint, input ProcessRefundInput, actor models.Actor) (*models.Refund, error) {
	if actor.IsCustomer() {
		return nil, apperr.Forbidden("customers cannot process refunds")
	}
	if input.Approve && input.RefundMethod == "" {
		return nil, apperr.Invalid("refund_method is required when approving a refund")
	}

	var refund *models.Refund
	err := s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		refund, err = s.refundRepo.FindByID(ctx, tx, refundID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("refund %d not found", refundID)
			}
			return err
		}

		if actor.IsAgent() && !bookingTouchesAgent(refund.Booking, actor.ID) {
			return apperr.Forbidden("you can only process refunds for your own packages, hotels or flights")
		}

		status := models.RefundStatusRejected
		if input.Approve {
			status = models.RefundStatusApproved
		}

		now := time.Now()
		processedBy := actor.ID
		resolved, err := s.refundRepo.Resolve(ctx, tx, refundID, map[string]any{
			"status":        status,
			"refund_method": input.RefundMethod,
			"refund_proof":  input.RefundProof,
			"processed_by":  processedBy,
			"processed_at":  now,
		})
		if err != nil {
			return err
		}
		if !resolved {
			return apperr.Conflict("refund %d has already been processed", refundID)
		}

		refund.Status = status
		refund.RefundMethod = input.RefundMethod
		refund.RefundProof = input.RefundProof
		refund.ProcessedBy = &processedBy
		refund.ProcessedAt = &now

		if input.Approve {
			return s.bookingRepo.UpdateStatus(ctx, tx, refund.BookingID, models.StatusRefunded)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	decision := "rejected"
	if input.Approve {
		decision = "approved"
		s.issueGatewayRefund(ctx, refund)
	}
	metrics.RefundsProcessed.WithLabelValues(decision).Inc()

	if s.notifier != nil {
		s.notifier.RefundProcessed(ctx, refund.UserID, refund.BookingID, refund)
	}
	return refund, nil
}

// issueGatewayRefund pushes the refund to the payment gateway using the order
// id from the settled payment. Gateway errors do not roll back the approval;
// the money movement is reconciled out of band.
func (s *refundService) issueGatewayRefund(ctx context.Context, refund *models.Refund) {
	payment, err := s.paymentRepo.LatestConfirmedByBooking(ctx, s.bookingRepo.GetDB(), refund.BookingID)
	if err != nil {
		log.Printf("[RefundService] no settled payment for booking %d, skipping gateway refund: %v", refund.BookingID, err)
		return
	}
	if err := s.gateway.RefundTransaction(ctx, payment.OrderID, refund.Amount, refund.Reason); err != nil {
		log.Printf("[RefundService] gateway refund failed for order %s: %v", payment.OrderID, err)
	}
}

func (s *refundService) GetRefunds(ctx context.Context, filter repository.RefundFilter, actor models.Actor) ([]models.Refund, int64, error) {
	return s.refundRepo.List(ctx, filter, actor)
}

func (s *refundService) GetRefundByID(ctx context.Context, id uint, actor models.Actor) (*models.Refund, error) {
	refund, err := s.refundRepo.FindScoped(ctx, id, actor)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("refund %d not found", id)
		}
		return nil, err
	}
	return refund, nil
}
