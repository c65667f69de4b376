package service

import (
	"context"
	"fmt"
	"log"

	"github.com/Zain0205/travelin-be/internal/apperr"
	"github.com/Zain0205/travelin-be/internal/metrics"
	"github.com/Zain0205/travelin-be/internal/models"
	"github.com/Zain0205/travelin-be/internal/repository"
)

// Publisher pushes an event onto the notification fan-out exchange.
type Publisher interface {
	Publish(routingKey string, payload any) error
}

// NotificationEvent is what the delivery consumer receives.
type NotificationEvent struct {
	NotificationID uint                    `json:"notification_id"`
	UserID         uint                    `json:"user_id"`
	Type           models.NotificationType `json:"type"`
	Message        string                  `json:"message"`
	Data           map[string]any          `json:"data,omitempty"`
}

// Notifier is the best-effort notification sink used by the booking, refund
// and payment services. Implementations must never fail the caller.
type Notifier interface {
	BookingCreated(ctx context.Context, userID uint, booking *models.Booking)
	BookingConfirmed(ctx context.Context, userID, bookingID uint)
	BookingRejected(ctx context.Context, userID, bookingID uint)
	BookingCancelled(ctx context.Context, userID, bookingID uint, bookingType models.BookingType)
	RescheduleApproved(ctx context.Context, userID, bookingID uint)
	RescheduleRejected(ctx context.Context, userID, bookingID uint)
	PaymentSuccess(ctx context.Context, userID, bookingID uint)
	PaymentFailed(ctx context.Context, userID, bookingID uint)
	RefundRequested(ctx context.Context, userID, bookingID uint, refund *models.Refund)
	RefundProcessed(ctx context.Context, userID, bookingID uint, refund *models.Refund)
}

type NotificationService struct {
	repo      repository.NotificationRepository
	publisher Publisher
}

func NewNotificationService(repo repository.NotificationRepository, publisher Publisher) *NotificationService {
	return &NotificationService{repo: repo, publisher: publisher}
}

// notify persists the notification and pushes it to the exchange. Both steps
// are best-effort: a failure is logged and swallowed so the originating
// business operation never rolls back over a notification.
func (s *NotificationService) notify(ctx context.Context, userID uint, kind models.NotificationType, message string, data map[string]any) {
	notification := &models.Notification{
		UserID:  userID,
		Message: message,
		Type:    kind,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		log.Printf("[Notification] failed to persist for user %d: %v", userID, err)
	}

	if s.publisher == nil {
		return
	}
	event := NotificationEvent{
		NotificationID: notification.ID,
		UserID:         userID,
		Type:           kind,
		Message:        message,
		Data:           data,
	}
	routingKey := fmt.Sprintf("notification.%s", kind)
	if err := s.publisher.Publish(routingKey, event); err != nil {
		log.Printf("[Notification] failed to publish for user %d: %v", userID, err)
		return
	}
	metrics.NotificationsPublished.Inc()
}

func (s *NotificationService) BookingCreated(ctx context.Context, userID uint, booking *models.Booking) {
	s.notify(ctx, userID, models.NotificationTypeBooking,
		fmt.Sprintf("Your booking #%d has been created successfully", booking.ID),
		map[string]any{"booking_id": booking.ID, "type": booking.Type, "total_price": booking.TotalPrice})
}

func (s *NotificationService) BookingConfirmed(ctx context.Context, userID, bookingID uint) {
	s.notify(ctx, userID, models.NotificationTypeBooking,
		fmt.Sprintf("Your booking #%d has been confirmed", bookingID),
		map[string]any{"booking_id": bookingID})
}

func (s *NotificationService) BookingRejected(ctx context.Context, userID, bookingID uint) {
	s.notify(ctx, userID, models.NotificationTypeBooking,
		fmt.Sprintf("Your booking #%d has been rejected", bookingID),
		map[string]any{"booking_id": bookingID})
}

func (s *NotificationService) BookingCancelled(ctx context.Context, userID, bookingID uint, bookingType models.BookingType) {
	s.notify(ctx, userID, models.NotificationTypeBooking,
		fmt.Sprintf("Your %s booking #%d has been cancelled", bookingType, bookingID),
		map[string]any{"booking_id": bookingID, "type": bookingType})
}

func (s *NotificationService) RescheduleApproved(ctx context.Context, userID, bookingID uint) {
	s.notify(ctx, userID, models.NotificationTypeBooking,
		fmt.Sprintf("Reschedule request for booking #%d has been approved", bookingID),
		map[string]any{"booking_id": bookingID})
}

func (s *NotificationService) RescheduleRejected(ctx context.Context, userID, bookingID uint) {
	s.notify(ctx, userID, models.NotificationTypeBooking,
		fmt.Sprintf("Reschedule request for booking #%d has been rejected", bookingID),
		map[string]any{"booking_id": bookingID})
}

func (s *NotificationService) PaymentSuccess(ctx context.Context, userID, bookingID uint) {
	s.notify(ctx, userID, models.NotificationTypePayment,
		fmt.Sprintf("Payment for booking #%d has been successful", bookingID),
		map[string]any{"booking_id": bookingID})
}

func (s *NotificationService) PaymentFailed(ctx context.Context, userID, bookingID uint) {
	s.notify(ctx, userID, models.NotificationTypePayment,
		fmt.Sprintf("Payment for booking #%d has failed", bookingID),
		map[string]any{"booking_id": bookingID})
}

func (s *NotificationService) RefundRequested(ctx context.Context, userID, bookingID uint, refund *models.Refund) {
	s.notify(ctx, userID, models.NotificationTypeRefund,
		fmt.Sprintf("Refund request for booking #%d has been submitted", bookingID),
		refundData(refund))
}

func (s *NotificationService) RefundProcessed(ctx context.Context, userID, bookingID uint, refund *models.Refund) {
	verb := "rejected"
	if refund.Status == models.RefundStatusApproved {
		verb = "approved"
	}
	s.notify(ctx, userID, models.NotificationTypeRefund,
		fmt.Sprintf("Refund request for booking #%d has been %s", bookingID, verb),
		refundData(refund))
}

func refundData(refund *models.Refund) map[string]any {
	return map[string]any{
		"refund_id":       refund.ID,
		"amount":          refund.Amount,
		"original_amount": refund.OriginalAmount,
		"status":          refund.Status,
	}
}

// Read-side operations backing the notification endpoints.

func (s *NotificationService) List(ctx context.Context, userID uint, filter repository.NotificationFilter) ([]models.Notification, int64, error) {
	return s.repo.ListByUser(ctx, userID, filter)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id, userID uint) error {
	ok, err := s.repo.MarkAsRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("notification %d not found", id)
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uint) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, id, userID uint) error {
	ok, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("notification %d not found", id)
	}
	return nil
}

var _ Notifier = (*NotificationService)(nil)
