package service

import (
	"context"

	"github.com/Zain0205/travelin-be/internal/gateway"
	"github.com/Zain0205/travelin-be/internal/models"
	"github.com/Zain0205/travelin-be/internal/repository"
	"gorm.io/gorm"
)

type mockBookingRepo struct {
	createFunc            func(booking *models.Booking) error
	findByIDFunc          func(id uint) (*models.Booking, error)
	findByIDForUpdateFunc func(id uint) (*models.Booking, error)
	findScopedFunc        func(id uint, actor models.Actor) (*models.Booking, error)
	findByUserFunc        func(id, userID uint) (*models.Booking, error)
	listFunc              func(filter repository.BookingFilter, actor models.Actor) ([]models.Booking, int64, error)
	updateStatusFunc      func(id uint, status models.BookingStatus) error
	updatesFunc           func(id uint, fields map[string]any) error
}

func (m *mockBookingRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (m *mockBookingRepo) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	if m.createFunc == nil {
		booking.ID = 1
		return nil
	}
	return m.createFunc(booking)
}

func (m *mockBookingRepo) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	return m.findByIDFunc(id)
}

func (m *mockBookingRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	return m.findByIDForUpdateFunc(id)
}

func (m *mockBookingRepo) FindScoped(ctx context.Context, id uint, actor models.Actor) (*models.Booking, error) {
	return m.findScopedFunc(id, actor)
}

func (m *mockBookingRepo) FindByUser(ctx context.Context, tx *gorm.DB, id, userID uint) (*models.Booking, error) {
	return m.findByUserFunc(id, userID)
}

func (m *mockBookingRepo) List(ctx context.Context, filter repository.BookingFilter, actor models.Actor) ([]models.Booking, int64, error) {
	return m.listFunc(filter, actor)
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.BookingStatus) error {
	if m.updateStatusFunc == nil {
		return nil
	}
	return m.updateStatusFunc(id, status)
}

func (m *mockBookingRepo) Updates(ctx context.Context, tx *gorm.DB, id uint, fields map[string]any) error {
	if m.updatesFunc == nil {
		return nil
	}
	return m.updatesFunc(id, fields)
}

func (m *mockBookingRepo) GetDB() *gorm.DB {
	return nil
}

type mockCatalogRepo struct {
	findPackageFunc    func(id uint) (*models.TravelPackage, error)
	findHotelFunc      func(id uint) (*models.Hotel, error)
	findFlightFunc     func(id uint) (*models.Flight, error)
	decrementQuotaFunc func(packageID uint) (bool, error)
	restoreQuotaFunc   func(packageID uint) error
}

func (m *mockCatalogRepo) FindPackageByID(ctx context.Context, tx *gorm.DB, id uint) (*models.TravelPackage, error) {
	return m.findPackageFunc(id)
}

func (m *mockCatalogRepo) FindHotelByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Hotel, error) {
	return m.findHotelFunc(id)
}

func (m *mockCatalogRepo) FindFlightByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Flight, error) {
	return m.findFlightFunc(id)
}

func (m *mockCatalogRepo) DecrementQuota(ctx context.Context, tx *gorm.DB, packageID uint) (bool, error) {
	return m.decrementQuotaFunc(packageID)
}

func (m *mockCatalogRepo) RestoreQuota(ctx context.Context, tx *gorm.DB, packageID uint) error {
	if m.restoreQuotaFunc == nil {
		return nil
	}
	return m.restoreQuotaFunc(packageID)
}

type mockRescheduleRepo struct {
	createFunc   func(reschedule *models.Reschedule) error
	findByIDFunc func(id uint) (*models.Reschedule, error)
	resolveFunc  func(id uint, status models.RescheduleStatus) (bool, error)
}

func (m *mockRescheduleRepo) Create(ctx context.Context, tx *gorm.DB, reschedule *models.Reschedule) error {
	if m.createFunc == nil {
		reschedule.ID = 1
		return nil
	}
	return m.createFunc(reschedule)
}

func (m *mockRescheduleRepo) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Reschedule, error) {
	return m.findByIDFunc(id)
}

func (m *mockRescheduleRepo) Resolve(ctx context.Context, tx *gorm.DB, id uint, status models.RescheduleStatus) (bool, error) {
	if m.resolveFunc == nil {
		return true, nil
	}
	return m.resolveFunc(id, status)
}

type mockRefundRepo struct {
	createFunc     func(refund *models.Refund) error
	findByIDFunc   func(id uint) (*models.Refund, error)
	findScopedFunc func(id uint, actor models.Actor) (*models.Refund, error)
	existsFunc     func(bookingID uint) (bool, error)
	listFunc       func(filter repository.RefundFilter, actor models.Actor) ([]models.Refund, int64, error)
	resolveFunc    func(id uint, fields map[string]any) (bool, error)
	updatesFunc    func(id uint, fields map[string]any) error
}

func (m *mockRefundRepo) Create(ctx context.Context, tx *gorm.DB, refund *models.Refund) error {
	if m.createFunc == nil {
		refund.ID = 1
		return nil
	}
	return m.createFunc(refund)
}

func (m *mockRefundRepo) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Refund, error) {
	return m.findByIDFunc(id)
}

func (m *mockRefundRepo) FindScoped(ctx context.Context, id uint, actor models.Actor) (*models.Refund, error) {
	return m.findScopedFunc(id, actor)
}

func (m *mockRefundRepo) ExistsForBooking(ctx context.Context, tx *gorm.DB, bookingID uint) (bool, error) {
	if m.existsFunc == nil {
		return false, nil
	}
	return m.existsFunc(bookingID)
}

func (m *mockRefundRepo) List(ctx context.Context, filter repository.RefundFilter, actor models.Actor) ([]models.Refund, int64, error) {
	return m.listFunc(filter, actor)
}

func (m *mockRefundRepo) Resolve(ctx context.Context, tx *gorm.DB, id uint, fields map[string]any) (bool, error) {
	if m.resolveFunc == nil {
		return true, nil
	}
	return m.resolveFunc(id, fields)
}

func (m *mockRefundRepo) Updates(ctx context.Context, tx *gorm.DB, id uint, fields map[string]any) error {
	if m.updatesFunc == nil {
		return nil
	}
	return m.updatesFunc(id, fields)
}

type mockPaymentRepo struct {
	createFunc          func(payment *models.Payment) error
	findByOrderIDFunc   func(orderID string) (*models.Payment, error)
	findByUserFunc      func(id, userID uint) (*models.Payment, error)
	listByUserFunc      func(userID uint) ([]models.Payment, error)
	latestConfirmedFunc func(bookingID uint) (*models.Payment, error)
	updatesFunc         func(id uint, fields map[string]any) error
}

func (m *mockPaymentRepo) Create(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	if m.createFunc == nil {
		payment.ID = 1
		return nil
	}
	return m.createFunc(payment)
}

func (m *mockPaymentRepo) FindByOrderID(ctx context.Context, tx *gorm.DB, orderID string) (*models.Payment, error) {
	return m.findByOrderIDFunc(orderID)
}

func (m *mockPaymentRepo) FindByUser(ctx context.Context, id, userID uint) (*models.Payment, error) {
	return m.findByUserFunc(id, userID)
}

func (m *mockPaymentRepo) ListByUser(ctx context.Context, userID uint) ([]models.Payment, error) {
	return m.listByUserFunc(userID)
}

func (m *mockPaymentRepo) LatestConfirmedByBooking(ctx context.Context, tx *gorm.DB, bookingID uint) (*models.Payment, error) {
	return m.latestConfirmedFunc(bookingID)
}

func (m *mockPaymentRepo) Updates(ctx context.Context, tx *gorm.DB, id uint, fields map[string]any) error {
	if m.updatesFunc == nil {
		return nil
	}
	return m.updatesFunc(id, fields)
}

type mockGateway struct {
	createTransactionFunc func(input gateway.CreateTransactionInput) (*gateway.TransactionSession, error)
	refundTransactionFunc func(orderID string, amount int64, reason string) error
}

func (m *mockGateway) CreateTransaction(ctx context.Context, input gateway.CreateTransactionInput) (*gateway.TransactionSession, error) {
	return m.createTransactionFunc(input)
}

func (m *mockGateway) RefundTransaction(ctx context.Context, orderID string, amount int64, reason string) error {
	if m.refundTransactionFunc == nil {
		return nil
	}
	return m.refundTransactionFunc(orderID, amount, reason)
}

// recordingNotifier captures every event kind fired during a test.
type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) record(kind string) { n.events = append(n.events, kind) }

func (n *recordingNotifier) BookingCreated(ctx context.Context, userID uint, booking *models.Booking) {
	n.record("booking_created")
}

func (n *recordingNotifier) BookingConfirmed(ctx context.Context, userID, bookingID uint) {
	n.record("booking_confirmed")
}

func (n *recordingNotifier) BookingRejected(ctx context.Context, userID, bookingID uint) {
	n.record("booking_rejected")
}

func (n *recordingNotifier) BookingCancelled(ctx context.Context, userID, bookingID uint, bookingType models.BookingType) {
	n.record("booking_cancelled")
}

func (n *recordingNotifier) RescheduleApproved(ctx context.Context, userID, bookingID uint) {
	n.record("reschedule_approved")
}

func (n *recordingNotifier) RescheduleRejected(ctx context.Context, userID, bookingID uint) {
	n.record("reschedule_rejected")
}

func (n *recordingNotifier) PaymentSuccess(ctx context.Context, userID, bookingID uint) {
	n.record("payment_success")
}

func (n *recordingNotifier) PaymentFailed(ctx context.Context, userID, bookingID uint) {
	n.record("payment_failed")
}

func (n *recordingNotifier) RefundRequested(ctx context.Context, userID, bookingID uint, refund *models.Refund) {
	n.record("refund_requested")
}

func (n *recordingNotifier) RefundProcessed(ctx context.Context, userID, bookingID uint, refund *models.Refund) {
	n.record("refund_processed")
}
