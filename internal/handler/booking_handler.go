package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Zain0205/travelin-be/internal/dto"
	"github.com/Zain0205/travelin-be/internal/middleware"
	"github.com/Zain0205/travelin-be/internal/models"
	"github.com/Zain0205/travelin-be/internal/repository"
	"github.com/Zain0205/travelin-be/internal/service"
	"github.com/labstack/echo/v4"
)

type BookingHandler struct {
	bookingSvc service.BookingService
	refundSvc  service.RefundService
}

func NewBookingHandler(bookingSvc service.BookingService, refundSvc service.RefundService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc, refundSvc: refundSvc}
}

func (h *BookingHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/bookings", h.CreateBooking)
	g.GET("/bookings", h.ListBookings)
	g.POST("/bookings/reschedule", h.RequestReschedule)
	g.PATCH("/bookings/reschedule/:id", h.HandleReschedule)
	g.GET("/bookings/:id", h.GetBooking)
	g.PATCH("/bookings/:id/status", h.UpdateStatus)
	g.POST("/bookings/:id/cancel", h.CancelBooking)
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req dto.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := service.CreateBookingInput{
		Type:       models.BookingType(req.Type),
		TravelDate: req.TravelDate,
		PackageID:  req.PackageID,
	}
	for _, item := range req.Hotels {
		input.Hotels = append(input.Hotels, service.HotelItemInput{
			HotelID:      item.HotelID,
			CheckInDate:  item.CheckInDate,
			CheckOutDate: item.CheckOutDate,
			Nights:       item.Nights,
		})
	}
	for _, item := range req.Flights {
		input.Flights = append(input.Flights, service.FlightItemInput{
			FlightID:      item.FlightID,
			PassengerName: item.PassengerName,
			SeatClass:     item.SeatClass,
		})
	}

	actor := middleware.ActorFrom(c)
	booking, err := h.bookingSvc.CreateBooking(c.Request().Context(), input, actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandler) ListBookings(c echo.Context) error {
	filter := repository.BookingFilter{
		Status:        models.BookingStatus(c.QueryParam("status")),
		PaymentStatus: models.PaymentStatus(c.QueryParam("payment_status")),
		Type:          models.BookingType(c.QueryParam("type")),
	}
	filter.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filter.Limit, _ = strconv.Atoi(c.QueryParam("limit"))

	if s := c.QueryParam("start_date"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			filter.StartDate = &t
		}
	}
	if s := c.QueryParam("end_date"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			filter.EndDate = &t
		}
	}

	actor := middleware.ActorFrom(c)
	bookings, total, err := h.bookingSvc.GetBookings(c.Request().Context(), filter, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewListResponse(bookings, total, filter.Page, filter.Limit))
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	actor := middleware.ActorFrom(c)
	booking, err := h.bookingSvc.GetBookingByID(c.Request().Context(), id, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateBookingStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	actor := middleware.ActorFrom(c)
	booking, err := h.bookingSvc.UpdateBookingStatus(c.Request().Context(), id, models.BookingStatus(req.Status), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.CancelBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	actor := middleware.ActorFrom(c)
	booking, err := h.refundSvc.CancelBooking(c.Request().Context(), id, req.Reason, req.RequestRefund, actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) RequestReschedule(c echo.Context) error {
	var req dto.RescheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	actor := middleware.ActorFrom(c)
	reschedule, err := h.bookingSvc.RequestReschedule(c.Request().Context(), req.BookingID, req.RequestedDate, actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, reschedule)
}

func (h *BookingHandler) HandleReschedule(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.HandleRescheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	actor := middleware.ActorFrom(c)
	reschedule, err := h.bookingSvc.HandleReschedule(c.Request().Context(), id, *req.Approve, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reschedule)
}
