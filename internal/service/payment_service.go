package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Zain0205/travelin-be/internal/apperr"
	"github.com/Zain0205/travelin-be/internal/gateway"
	"github.com/Zain0205/travelin-be/internal/metrics"
	"github.com/Zain0205/travelin-be/internal/models"
	"github.com/Zain0205/travelin-be/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentSession is the result of initiating a payment: the persisted attempt
// plus the gateway checkout handle the client redirects to.
type PaymentSession struct {
	Payment     *models.Payment `json:"payment"`
	Token       string          `json:"token"`
	RedirectURL string          `json:"redirect_url"`
}

// CallbackInput carries the fields of a gateway HTTP notification that the
// service acts on.
type CallbackInput struct {
	OrderID           string
	TransactionStatus string
	FraudStatus       string
	StatusCode        string
	GrossAmount       string
	SignatureKey      string
	PaymentType       string
	TransactionTime   string
}

type PaymentService interface {
	ProcessPayment(ctx context.Context, bookingID uint, method models.PaymentMethod, amount int64, userID uint) (*PaymentSession, error)
	HandleCallback(ctx context.Context, input CallbackInput) error
	GetPaymentHistory(ctx context.Context, userID uint) ([]models.Payment, error)
	GetPaymentDetails(ctx context.Context, id, userID uint) (*models.Payment, error)
}

type paymentService struct {
	bookingRepo repository.BookingRepository
	paymentRepo repository.PaymentRepository
	gateway     gateway.PaymentGateway
	notifier    Notifier
	serverKey   string
	finishURL   string
}

func NewPaymentService(
	bookingRepo repository.BookingRepository,
	paymentRepo repository.PaymentRepository,
	gw gateway.PaymentGateway,
	notifier Notifier,
	serverKey string,
	finishURL string,
) PaymentService {
	return &paymentService{
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		gateway:     gw,
		notifier:    notifier,
		serverKey:   serverKey,
		finishURL:   finishURL,
	}
}

func buildOrderID(bookingID, userID uint) string {
	return fmt.Sprintf("BOOKING-%d-%d-%d", bookingID, time.Now().UnixMilli(), userID)
}

func (s *paymentService) ProcessPayment(ctx context.Context, bookingID uint, method models.PaymentMethod, amount int64, userID uint) (*PaymentSession, error) {
	booking, err := s.bookingRepo.FindByUser(ctx, s.bookingRepo.GetDB(), bookingID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("booking %d not found for user %d", bookingID, userID)
		}
		return nil, err
	}

	if booking.PaymentStatus == models.PaymentPaid {
		return nil, apperr.Conflict("booking %d is already paid", bookingID)
	}
	if booking.Status.IsTerminal() {
		return nil, apperr.InvalidState("booking %d is %s and can no longer be paid", bookingID, booking.Status)
	}
	if amount != booking.TotalPrice {
		return nil, apperr.InvalidState("payment amount %d does not match booking total %d", amount, booking.TotalPrice)
	}

	orderID := buildOrderID(bookingID, userID)
	input := gateway.CreateTransactionInput{
		OrderID:   orderID,
		Amount:    booking.TotalPrice,
		ItemID:    fmt.Sprintf("booking-%d", bookingID),
		ItemName:  fmt.Sprintf("%s booking #%d", booking.Type, bookingID),
		FinishURL: s.finishURL,
	}
	if booking.User != nil {
		input.CustomerName = booking.User.Name
		input.CustomerEmail = booking.User.Email
		input.CustomerPhone = booking.User.Phone
	}

	// The gateway call happens first: a payment row only exists once the
	// gateway has accepted the order id.
	session, err := s.gateway.CreateTransaction(ctx, input)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		BookingID:  bookingID,
		OrderID:    orderID,
		InvoiceRef: uuid.NewString(),
		Method:     method,
		Amount:     booking.TotalPrice,
	}
	err = s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		return s.paymentRepo.Create(ctx, tx, payment)
	})
	if err != nil {
		return nil, err
	}

	metrics.PaymentsInitiated.Inc()
	return &PaymentSession{
		Payment:     payment,
		Token:       session.Token,
		RedirectURL: session.RedirectURL,
	}, nil
}

// HandleCallback applies a gateway notification to the payment and its
// booking. Unknown or pending transaction statuses are acknowledged without
// any state change so the gateway stops retrying.
func (s *paymentService) HandleCallback(ctx context.Context, input CallbackInput) error {
	if !gateway.VerifySignature(input.OrderID, input.StatusCode, input.GrossAmount, s.serverKey, input.SignatureKey) {
		return apperr.Forbidden("invalid callback signature for order %s", input.OrderID)
	}

	return s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		payment, err := s.paymentRepo.FindByOrderID(ctx, tx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("no payment for order %s", input.OrderID)
			}
			return err
		}

		booking, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, payment.BookingID)
		if err != nil {
			return err
		}

		switch input.TransactionStatus {
		case "capture", "settlement":
			if input.FraudStatus == "challenge" {
				log.Printf("[PaymentService] order %s held for fraud review", input.OrderID)
				return nil
			}
			return s.settlePayment(ctx, tx, payment, booking, input.TransactionTime)
		case "deny", "cancel", "expire", "failure":
			return s.failPayment(ctx, tx, booking)
		default:
			// pending and anything unrecognized
			return nil
		}
	})
}

// transactionTimeLayout is the timestamp format Midtrans puts in its
// notification payloads.
const transactionTimeLayout = "2006-01-02 15:04:05"

// paidAt resolves the settlement timestamp: the gateway's transaction time
// when present and parseable, the receipt time otherwise.
func paidAt(transactionTime string) time.Time {
	if transactionTime != "" {
		if t, err := time.Parse(transactionTimeLayout, transactionTime); err == nil {
			return t
		}
	}
	return time.Now()
}

func (s *paymentService) settlePayment(ctx context.Context, tx *gorm.DB, payment *models.Payment, booking *models.Booking, transactionTime string) error {
	if booking.PaymentStatus == models.PaymentPaid {
		return nil
	}

	err := s.paymentRepo.Updates(ctx, tx, payment.ID, map[string]any{
		"payment_date": paidAt(transactionTime),
	})
	if err != nil {
		return err
	}
	err = s.bookingRepo.Updates(ctx, tx, booking.ID, map[string]any{
		"payment_status": models.PaymentPaid,
		"status":         models.StatusConfirmed,
	})
	if err != nil {
		return err
	}

	metrics.PaymentsSettled.Inc()
	if s.notifier != nil {
		s.notifier.PaymentSuccess(ctx, booking.UserID, booking.ID)
	}
	return nil
}

func (s *paymentService) failPayment(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	// A failure notification for a stale attempt must not un-pay a booking
	// that a later attempt already settled.
	if booking.PaymentStatus == models.PaymentPaid {
		return nil
	}

	err := s.bookingRepo.Updates(ctx, tx, booking.ID, map[string]any{
		"payment_status": models.PaymentUnpaid,
	})
	if err != nil {
		return err
	}

	metrics.PaymentsFailed.Inc()
	if s.notifier != nil {
		s.notifier.PaymentFailed(ctx, booking.UserID, booking.ID)
	}
	return nil
}

func (s *paymentService) GetPaymentHistory(ctx context.Context, userID uint) ([]models.Payment, error) {
	return s.paymentRepo.ListByUser(ctx, userID)
}

func (s *paymentService) GetPaymentDetails(ctx context.Context, id, userID uint) (*models.Payment, error) {
	payment, err := s.paymentRepo.FindByUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("payment %d not found", id)
		}
		return nil, err
	}
	return payment, nil
}
