package handler

import (
	"net/http"
	"strconv"

	"github.com/Zain0205/travelin-be/internal/dto"
	"github.com/Zain0205/travelin-be/internal/middleware"
	"github.com/Zain0205/travelin-be/internal/models"
	"github.com/Zain0205/travelin-be/internal/repository"
	"github.com/Zain0205/travelin-be/internal/service"
	"github.com/labstack/echo/v4"
)

type NotificationHandler struct {
	svc *service.NotificationService
}

func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/notifications", h.ListNotifications)
	g.GET("/notifications/unread-count", h.UnreadCount)
	g.PATCH("/notifications/read-all", h.MarkAllAsRead)
	g.PATCH("/notifications/:id/read", h.MarkAsRead)
	g.DELETE("/notifications/:id", h.DeleteNotification)
}

func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	filter := repository.NotificationFilter{
		Type: models.NotificationType(c.QueryParam("type")),
	}
	filter.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filter.Limit, _ = strconv.Atoi(c.QueryParam("limit"))

	if s := c.QueryParam("is_read"); s != "" {
		isRead := s == "true"
		filter.IsRead = &isRead
	}

	actor := middleware.ActorFrom(c)
	notifications, total, err := h.svc.List(c.Request().Context(), actor.ID, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewListResponse(notifications, total, filter.Page, filter.Limit))
}

func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	count, err := h.svc.UnreadCount(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int64{"unread_count": count})
}

func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	actor := middleware.ActorFrom(c)
	if err := h.svc.MarkAsRead(c.Request().Context(), id, actor.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	if err := h.svc.MarkAllAsRead(c.Request().Context(), actor.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	actor := middleware.ActorFrom(c)
	if err := h.svc.Delete(c.Request().Context(), id, actor.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
