package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "travelin_bookings_created_total",
		Help: "Bookings created, by variant",
	}, []string{"type"})

	BookingStatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "travelin_booking_status_transitions_total",
		Help: "Booking status transitions, by target status",
	}, []string{"status"})

	PaymentsInitiated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "travelin_payments_initiated_total",
		Help: "Gateway transactions created",
	})

	PaymentsSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "travelin_payments_settled_total",
		Help: "Payment callbacks that settled a booking",
	})

	PaymentsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "travelin_payments_failed_total",
		Help: "Payment callbacks with a failure status",
	})

	RefundsRequested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "travelin_refunds_requested_total",
		Help: "Refund requests accepted",
	})

	RefundsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "travelin_refunds_processed_total",
		Help: "Refund resolutions, by decision",
	}, []string{"decision"})

	NotificationsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "travelin_notifications_published_total",
		Help: "Notifications pushed to the fan-out exchange",
	})
)
