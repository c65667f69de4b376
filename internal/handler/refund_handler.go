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

type RefundHandler struct {
	svc service.RefundService
}

func NewRefundHandler(svc service.RefundService) *RefundHandler {
	return &RefundHandler{svc: svc}
}

func (h *RefundHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/refunds", h.RequestRefund)
	g.GET("/refunds", h.ListRefunds)
	g.GET("/refunds/:id", h.GetRefund)
	g.PATCH("/refunds/:id", h.ProcessRefund)
}

func (h *RefundHandler) RequestRefund(c echo.Context) error {
	var req dto.RefundRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	actor := middleware.ActorFrom(c)
	refund, err := h.svc.RequestRefund(c.Request().Context(), req.BookingID, req.Reason, actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, refund)
}

func (h *RefundHandler) ListRefunds(c echo.Context) error {
	filter := repository.RefundFilter{
		Status:      models.RefundStatus(c.QueryParam("status")),
		BookingType: models.BookingType(c.QueryParam("type")),
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
	refunds, total, err := h.svc.GetRefunds(c.Request().Context(), filter, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewListResponse(refunds, total, filter.Page, filter.Limit))
}

func (h *RefundHandler) GetRefund(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	actor := middleware.ActorFrom(c)
	refund, err := h.svc.GetRefundByID(c.Request().Context(), id, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, refund)
}

func (h *RefundHandler) ProcessRefund(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.ProcessRefundRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	actor := middleware.ActorFrom(c)
	refund, err := h.svc.ProcessRefund(c.Request().Context(), id, service.ProcessRefundInput{
		Approve:      *req.Approve,
		RefundMethod: req.RefundMethod,
		RefundProof:  req.RefundProof,
	}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, refund)
}
