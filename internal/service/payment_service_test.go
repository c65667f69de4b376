package service

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Zain0205/travelin-be/internal/apperr"
	"github.com/Zain0205/travelin-be/internal/gateway"
	"github.com/Zain0205/travelin-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testServerKey = "SB-Mid-server-test"

func newPaymentService(bookings *mockBookingRepo, payments *mockPaymentRepo, gw *mockGateway, notifier *recordingNotifier) PaymentService {
	return NewPaymentService(bookings, payments, gw, notifier, testServerKey, "https://travelin.example/payment/finish")
}

func signCallback(orderID, statusCode, grossAmount string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + testServerKey))
	return hex.EncodeToString(sum[:])
}

func unpaidBooking(id uint) *models.Booking {
	return &models.Booking{
		ID:            id,
		UserID:        42,
		Type:          models.BookingTypePackage,
		TravelDate:    time.Now().AddDate(0, 0, 30),
		TotalPrice:    1_500_000,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentUnpaid,
		User:          &models.User{ID: 42, Name: "Alice", Email: "alice@example.com"},
	}
}

func TestProcessPayment_CreatesSessionAndPayment(t *testing.T) {
	bookings := &mockBookingRepo{
		findByUserFunc: func(id, userID uint) (*models.Booking, error) {
			return unpaidBooking(id), nil
		},
	}
	var gwInput gateway.CreateTransactionInput
	gw := &mockGateway{
		createTransactionFunc: func(input gateway.CreateTransactionInput) (*gateway.TransactionSession, error) {
			gwInput = input
			return &gateway.TransactionSession{Token: "snap-token", RedirectURL: "https://pay.example/redirect"}, nil
		},
	}
	var created *models.Payment
	payments := &mockPaymentRepo{
		createFunc: func(payment *models.Payment) error {
			created = payment
			return nil
		},
	}
	svc := newPaymentService(bookings, payments, gw, &recordingNotifier{})

	session, err := svc.ProcessPayment(context.Background(), 1, models.PaymentMethodBankTransfer, 1_500_000, 42)

	require.NoError(t, err)
	assert.Equal(t, "snap-token", session.Token)
	assert.Equal(t, "https://pay.example/redirect", session.RedirectURL)

	require.NotNil(t, created)
	assert.True(t, strings.HasPrefix(created.OrderID, "BOOKING-1-"))
	assert.True(t, strings.HasSuffix(created.OrderID, "-42"))
	assert.Equal(t, created.OrderID, gwInput.OrderID)
	assert.Equal(t, int64(1_500_000), created.Amount)
	assert.Equal(t, int64(1_500_000), gwInput.Amount)
	assert.Equal(t, "Alice", gwInput.CustomerName)
	assert.NotEmpty(t, created.InvoiceRef)
	assert.Nil(t, created.PaymentDate)
}

func TestProcessPayment_AlreadyPaid(t *testing.T) {
	bookings := &mockBookingRepo{
		findByUserFunc: func(id, userID uint) (*models.Booking, error) {
			booking := unpaidBooking(id)
			booking.PaymentStatus = models.PaymentPaid
			return booking, nil
		},
	}
	svc := newPaymentService(bookings, &mockPaymentRepo{}, &mockGateway{}, &recordingNotifier{})

	_, err := svc.ProcessPayment(context.Background(), 1, models.PaymentMethodBankTransfer, 1_500_000, 42)

	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestProcessPayment_TerminalBooking(t *testing.T) {
	bookings := &mockBookingRepo{
		findByUserFunc: func(id, userID uint) (*models.Booking, error) {
			booking := unpaidBooking(id)
			booking.Status = models.StatusCancelled
			return booking, nil
		},
	}
	svc := newPaymentService(bookings, &mockPaymentRepo{}, &mockGateway{}, &recordingNotifier{})

	_, err := svc.ProcessPayment(context.Background(), 1, models.PaymentMethodBankTransfer, 1_500_000, 42)

	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
}

func TestProcessPayment_AmountMismatch(t *testing.T) {
	bookings := &mockBookingRepo{
		findByUserFunc: func(id, userID uint) (*models.Booking, error) {
			return unpaidBooking(id), nil
		},
	}
	svc := newPaymentService(bookings, &mockPaymentRepo{}, &mockGateway{}, &recordingNotifier{})

	_, err := svc.ProcessPayment(context.Background(), 1, models.PaymentMethodBankTransfer, 999_999, 42)

	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
}

func TestProcessPayment_GatewayErrorLeavesNoPayment(t *testing.T) {
	bookings := &mockBookingRepo{
		findByUserFunc: func(id, userID uint) (*models.Booking, error) {
			return unpaidBooking(id), nil
		},
	}
	gw := &mockGateway{
		createTransactionFunc: func(input gateway.CreateTransactionInput) (*gateway.TransactionSession, error) {
			return nil, errors.New("gateway unavailable")
		},
	}
	created := false
	payments := &mockPaymentRepo{
		createFunc: func(payment *models.Payment) error {
			created = true
			return nil
		},
	}
	svc := newPaymentService(bookings, payments, gw, &recordingNotifier{})

	_, err := svc.ProcessPayment(context.Background(), 1, models.PaymentMethodBankTransfer, 1_500_000, 42)

	assert.Error(t, err)
	assert.False(t, created)
}

func TestProcessPayment_BookingNotFound(t *testing.T) {
	bookings := &mockBookingRepo{
		findByUserFunc: func(id, userID uint) (*models.Booking, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newPaymentService(bookings, &mockPaymentRepo{}, &mockGateway{}, &recordingNotifier{})

	_, err := svc.ProcessPayment(context.Background(), 9, models.PaymentMethodBankTransfer, 1_500_000, 42)

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func callbackFor(orderID, status string) CallbackInput {
	statusCode := "200"
	grossAmount := "1500000.00"
	return CallbackInput{
		OrderID:           orderID,
		TransactionStatus: status,
		StatusCode:        statusCode,
		GrossAmount:       grossAmount,
		SignatureKey:      signCallback(orderID, statusCode, grossAmount),
	}
}

func TestHandleCallback_SettlementConfirmsBooking(t *testing.T) {
	orderID := fmt.Sprintf("BOOKING-1-%d-42", time.Now().UnixMilli())
	var paymentFields, bookingFields map[string]any
	payments := &mockPaymentRepo{
		findByOrderIDFunc: func(got string) (*models.Payment, error) {
			assert.Equal(t, orderID, got)
			return &models.Payment{ID: 5, BookingID: 1, OrderID: got, Amount: 1_500_000}, nil
		},
		updatesFunc: func(id uint, fields map[string]any) error {
			paymentFields = fields
			return nil
		},
	}
	bookings := &mockBookingRepo{
		findByIDForUpdateFunc: func(id uint) (*models.Booking, error) {
			return unpaidBooking(id), nil
		},
		updatesFunc: func(id uint, fields map[string]any) error {
			bookingFields = fields
			return nil
		},
	}
	notifier := &recordingNotifier{}
	svc := newPaymentService(bookings, payments, &mockGateway{}, notifier)

	err := svc.HandleCallback(context.Background(), callbackFor(orderID, "settlement"))

	require.NoError(t, err)
	assert.NotNil(t, paymentFields["payment_date"])
	assert.Equal(t, models.PaymentPaid, bookingFields["payment_status"])
	assert.Equal(t, models.StatusConfirmed, bookingFields["status"])
	assert.Equal(t, []string{"payment_success"}, notifier.events)
}

func TestHandleCallback_FraudChallengeIsNoOp(t *testing.T) {
	orderID := "BOOKING-1-1756600000000-42"
	payments := &mockPaymentRepo{
		findByOrderIDFunc: func(got string) (*models.Payment, error) {
			return &models.Payment{ID: 5, BookingID: 1, OrderID: got}, nil
		},
	}
	touched := false
	bookings := &mockBookingRepo{
		findByIDForUpdateFunc: func(id uint) (*models.Booking, error) {
			return unpaidBooking(id), nil
		},
		updatesFunc: func(id uint, fields map[string]any) error {
			touched = true
			return nil
		},
	}
	svc := newPaymentService(bookings, payments, &mockGateway{}, &recordingNotifier{})

	input := callbackFor(orderID, "capture")
	input.FraudStatus = "challenge"
	err := svc.HandleCallback(context.Background(), input)

	require.NoError(t, err)
	assert.False(t, touched)
}

func TestHandleCallback_DenyResetsPaymentStatus(t *testing.T) {
	orderID := "BOOKING-1-1756600000000-42"
	payments := &mockPaymentRepo{
		findByOrderIDFunc: func(got string) (*models.Payment, error) {
			return &models.Payment{ID: 5, BookingID: 1, OrderID: got}, nil
		},
	}
	var bookingFields map[string]any
	bookings := &mockBookingRepo{
		findByIDForUpdateFunc: func(id uint) (*models.Booking, error) {
			return unpaidBooking(id), nil
		},
		updatesFunc: func(id uint, fields map[string]any) error {
			bookingFields = fields
			return nil
		},
	}
	notifier := &recordingNotifier{}
	svc := newPaymentService(bookings, payments, &mockGateway{}, notifier)

	err := svc.HandleCallback(context.Background(), callbackFor(orderID, "deny"))

	require.NoError(t, err)
	assert.Equal(t, models.PaymentUnpaid, bookingFields["payment_status"])
	assert.Equal(t, []string{"payment_failed"}, notifier.events)
}

func TestHandleCallback_PendingIsNoOp(t *testing.T) {
	orderID := "BOOKING-1-1756600000000-42"
	payments := &mockPaymentRepo{
		findByOrderIDFunc: func(got string) (*models.Payment, error) {
			return &models.Payment{ID: 5, BookingID: 1, OrderID: got}, nil
		},
	}
	touched := false
	bookings := &mockBookingRepo{
		findByIDForUpdateFunc: func(id uint) (*models.Booking, error) {
			return unpaidBooking(id), nil
		},
		updatesFunc: func(id uint, fields map[string]any) error {
			touched = true
			return nil
		},
	}
	svc := newPaymentService(bookings, payments, &mockGateway{}, &recordingNotifier{})

	err := svc.HandleCallback(context.Background(), callbackFor(orderID, "pending"))

	require.NoError(t, err)
	assert.False(t, touched)
}

func TestHandleCallback_BadSignature(t *testing.T) {
	lookedUp := false
	payments := &mockPaymentRepo{
		findByOrderIDFunc: func(got string) (*models.Payment, error) {
			lookedUp = true
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newPaymentService(&mockBookingRepo{}, payments, &mockGateway{}, &recordingNotifier{})

	err := svc.HandleCallback(context.Background(), CallbackInput{
		OrderID:           "BOOKING-1-1756600000000-42",
		TransactionStatus: "settlement",
		StatusCode:        "200",
		GrossAmount:       "1500000.00",
		SignatureKey:      "forged",
	})

	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.False(t, lookedUp)
}

func TestHandleCallback_UnknownOrder(t *testing.T) {
	payments := &mockPaymentRepo{
		findByOrderIDFunc: func(got string) (*models.Payment, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newPaymentService(&mockBookingRepo{}, payments, &mockGateway{}, &recordingNotifier{})

	err := svc.HandleCallback(context.Background(), callbackFor("BOOKING-404-1756600000000-42", "settlement"))

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestHandleCallback_SettlementIdempotent(t *testing.T) {
	orderID := "BOOKING-1-1756600000000-42"
	payments := &mockPaymentRepo{
		findByOrderIDFunc: func(got string) (*models.Payment, error) {
			return &models.Payment{ID: 5, BookingID: 1, OrderID: got}, nil
		},
	}
	touched := false
	bookings := &mockBookingRepo{
		findByIDForUpdateFunc: func(id uint) (*models.Booking, error) {
			booking := unpaidBooking(id)
			booking.PaymentStatus = models.PaymentPaid
			booking.Status = models.StatusConfirmed
			return booking, nil
		},
		updatesFunc: func(id uint, fields map[string]any) error {
			touched = true
			return nil
		},
	}
	notifier := &recordingNotifier{}
	svc := newPaymentService(bookings, payments, &mockGateway{}, notifier)

	err := svc.HandleCallback(context.Background(), callbackFor(orderID, "settlement"))

	require.NoError(t, err)
	assert.False(t, touched)
	assert.Empty(t, notifier.events)
}

func TestHandleCallback_LateExpiryKeepsBookingPaid(t *testing.T) {
	// Retries leave multiple payment rows; an expire notification for a stale
	// attempt can arrive after another attempt settled the booking.
	orderID := "BOOKING-1-1756500000000-42"
	payments := &mockPaymentRepo{
		findByOrderIDFunc: func(got string) (*models.Payment, error) {
			return &models.Payment{ID: 4, BookingID: 1, OrderID: got}, nil
		},
	}
	touched := false
	bookings := &mockBookingRepo{
		findByIDForUpdateFunc: func(id uint) (*models.Booking, error) {
			booking := unpaidBooking(id)
			booking.PaymentStatus = models.PaymentPaid
			booking.Status = models.StatusConfirmed
			return booking, nil
		},
		updatesFunc: func(id uint, fields map[string]any) error {
			touched = true
			return nil
		},
	}
	notifier := &recordingNotifier{}
	svc := newPaymentService(bookings, payments, &mockGateway{}, notifier)

	err := svc.HandleCallback(context.Background(), callbackFor(orderID, "expire"))

	require.NoError(t, err)
	assert.False(t, touched)
	assert.Empty(t, notifier.events)
}

func TestHandleCallback_SettlementUsesTransactionTime(t *testing.T) {
	orderID := "BOOKING-1-1756600000000-42"
	var paymentFields map[string]any
	payments := &mockPaymentRepo{
		findByOrderIDFunc: func(got string) (*models.Payment, error) {
			return &models.Payment{ID: 5, BookingID: 1, OrderID: got}, nil
		},
		updatesFunc: func(id uint, fields map[string]any) error {
			paymentFields = fields
			return nil
		},
	}
	bookings := &mockBookingRepo{
		findByIDForUpdateFunc: func(id uint) (*models.Booking, error) {
			return unpaidBooking(id), nil
		},
	}
	svc := newPaymentService(bookings, payments, &mockGateway{}, &recordingNotifier{})

	input := callbackFor(orderID, "settlement")
	input.TransactionTime = "2026-08-30 14:03:21"
	err := svc.HandleCallback(context.Background(), input)

	require.NoError(t, err)
	want := time.Date(2026, 8, 30, 14, 3, 21, 0, time.UTC)
	assert.Equal(t, want, paymentFields["payment_date"])
}

func TestHandleCallback_SettlementFallsBackToReceiptTime(t *testing.T) {
	orderID := "BOOKING-1-1756600000000-42"
	var paymentFields map[string]any
	payments := &mockPaymentRepo{
		findByOrderIDFunc: func(got string) (*models.Payment, error) {
			return &models.Payment{ID: 5, BookingID: 1, OrderID: got}, nil
		},
		updatesFunc: func(id uint, fields map[string]any) error {
			paymentFields = fields
			return nil
		},
	}
	bookings := &mockBookingRepo{
		findByIDForUpdateFunc: func(id uint) (*models.Booking, error) {
			return unpaidBooking(id), nil
		},
	}
	svc := newPaymentService(bookings, payments, &mockGateway{}, &recordingNotifier{})

	before := time.Now()
	err := svc.HandleCallback(context.Background(), callbackFor(orderID, "settlement"))

	require.NoError(t, err)
	stamped, ok := paymentFields["payment_date"].(time.Time)
	require.True(t, ok)
	assert.False(t, stamped.Before(before))
	assert.False(t, stamped.After(time.Now()))
}
