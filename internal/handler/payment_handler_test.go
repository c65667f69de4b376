package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Zain0205/travelin-be/internal/models"
	"github.com/Zain0205/travelin-be/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type mockPaymentService struct {
	processFn  func(ctx context.Context, bookingID uint, method models.PaymentMethod, amount int64, userID uint) (*service.PaymentSession, error)
	callbackFn func(ctx context.Context, input service.CallbackInput) error
	historyFn  func(ctx context.Context, userID uint) ([]models.Payment, error)
	detailsFn  func(ctx context.Context, id, userID uint) (*models.Payment, error)
}

func (m *mockPaymentService) ProcessPayment(ctx context.Context, bookingID uint, method models.PaymentMethod, amount int64, userID uint) (*service.PaymentSession, error) {
	return m.processFn(ctx, bookingID, method, amount, userID)
}
func (m *mockPaymentService) HandleCallback(ctx context.Context, input service.CallbackInput) error {
	return m.callbackFn(ctx, input)
}
func (m *mockPaymentService) GetPaymentHistory(ctx context.Context, userID uint) ([]models.Payment, error) {
	return m.historyFn(ctx, userID)
}
func (m *mockPaymentService) GetPaymentDetails(ctx context.Context, id, userID uint) (*models.Payment, error) {
	return m.detailsFn(ctx, id, userID)
}

func TestProcessPayment_Handler(t *testing.T) {
	svc := &mockPaymentService{
		processFn: func(ctx context.Context, bookingID uint, method models.PaymentMethod, amount int64, userID uint) (*service.PaymentSession, error) {
			assert.Equal(t, uint(3), bookingID)
			assert.Equal(t, models.PaymentMethodEWallet, method)
			assert.Equal(t, int64(1_500_000), amount)
			assert.Equal(t, uint(42), userID)
			return &service.PaymentSession{
				Payment:     &models.Payment{ID: 1, BookingID: bookingID, Amount: 1_500_000},
				Token:       "snap-token",
				RedirectURL: "https://pay.example/redirect",
			}, nil
		},
	}

	body := `{"booking_id":3,"method":"e_wallet","amount":1500000}`
	c, rec := newTestContext(http.MethodPost, "/api/payment", body, customerActor)

	h := NewPaymentHandler(svc)
	err := h.ProcessPayment(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp service.PaymentSession
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "snap-token", resp.Token)
}

func TestProcessPayment_Handler_BadMethod(t *testing.T) {
	body := `{"booking_id":3,"method":"cash","amount":1500000}`
	c, _ := newTestContext(http.MethodPost, "/api/payment", body, customerActor)

	h := NewPaymentHandler(nil)
	err := h.ProcessPayment(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestHandleCallback_Handler_BindsGatewayFields(t *testing.T) {
	var got service.CallbackInput
	svc := &mockPaymentService{
		callbackFn: func(ctx context.Context, input service.CallbackInput) error {
			got = input
			return nil
		},
	}

	body := `{
		"order_id": "BOOKING-3-1756600000000-42",
		"transaction_status": "settlement",
		"fraud_status": "accept",
		"status_code": "200",
		"gross_amount": "1500000.00",
		"signature_key": "abc",
		"payment_type": "qris",
		"transaction_time": "2026-08-30 14:03:21"
	}`
	c, rec := newTestContext(http.MethodPost, "/api/payment/callback", body, models.Actor{})

	h := NewPaymentHandler(svc)
	err := h.HandleCallback(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "BOOKING-3-1756600000000-42", got.OrderID)
	assert.Equal(t, "settlement", got.TransactionStatus)
	assert.Equal(t, "1500000.00", got.GrossAmount)
	assert.Equal(t, "qris", got.PaymentType)
	assert.Equal(t, "2026-08-30 14:03:21", got.TransactionTime)
}

func TestPaymentHistory_Handler(t *testing.T) {
	svc := &mockPaymentService{
		historyFn: func(ctx context.Context, userID uint) ([]models.Payment, error) {
			assert.Equal(t, uint(42), userID)
			return []models.Payment{{ID: 1}, {ID: 2}}, nil
		},
	}

	c, rec := newTestContext(http.MethodGet, "/api/payment/history", "", customerActor)

	h := NewPaymentHandler(svc)
	err := h.PaymentHistory(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []models.Payment
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}
