package handler

import (
	"net/http"

	"github.com/Zain0205/travelin-be/internal/dto"
	"github.com/Zain0205/travelin-be/internal/middleware"
	"github.com/Zain0205/travelin-be/internal/models"
	"github.com/Zain0205/travelin-be/internal/service"
	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	svc service.PaymentService
}

func NewPaymentHandler(svc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

func (h *PaymentHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/payment", h.ProcessPayment)
	g.GET("/payment/history", h.PaymentHistory)
	g.GET("/payment/:id", h.PaymentDetails)
}

// RegisterCallbackRoute hangs the gateway webhook outside the actor group:
// the request is authenticated by its signature, not by identity headers.
func (h *PaymentHandler) RegisterCallbackRoute(e *echo.Echo) {
	e.POST("/api/payment/callback", h.HandleCallback)
}

func (h *PaymentHandler) ProcessPayment(c echo.Context) error {
	var req dto.PaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	actor := middleware.ActorFrom(c)
	session, err := h.svc.ProcessPayment(c.Request().Context(), req.BookingID, models.PaymentMethod(req.Method), req.Amount, actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, session)
}

func (h *PaymentHandler) HandleCallback(c echo.Context) error {
	var req dto.MidtransCallbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	err := h.svc.HandleCallback(c.Request().Context(), service.CallbackInput{
		OrderID:           req.OrderID,
		TransactionStatus: req.TransactionStatus,
		FraudStatus:       req.FraudStatus,
		StatusCode:        req.StatusCode,
		GrossAmount:       req.GrossAmount,
		SignatureKey:      req.SignatureKey,
		PaymentType:       req.PaymentType,
		TransactionTime:   req.TransactionTime,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *PaymentHandler) PaymentHistory(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	payments, err := h.svc.GetPaymentHistory(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payments)
}

func (h *PaymentHandler) PaymentDetails(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	actor := middleware.ActorFrom(c)
	payment, err := h.svc.GetPaymentDetails(c.Request().Context(), id, actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payment)
}
