package middleware

import (
	"net/http"
	"strconv"

	"github.com/Zain0205/travelin-be/internal/models"
	"github.com/labstack/echo/v4"
)

const actorContextKey = "actor"

// Actor reads the identity headers set by the auth proxy in front of this
// service and rejects requests that lack them.
func Actor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := strconv.ParseUint(c.Request().Header.Get("X-User-Id"), 10, 64)
		if err != nil || userID == 0 {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid X-User-Id header")
		}

		role := models.Role(c.Request().Header.Get("X-User-Role"))
		switch role {
		case models.RoleCustomer, models.RoleAgent, models.RoleAdmin:
		default:
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid X-User-Role header")
		}

		c.Set(actorContextKey, models.Actor{ID: uint(userID), Role: role})
		return next(c)
	}
}

func ActorFrom(c echo.Context) models.Actor {
	actor, _ := c.Get(actorContextKey).(models.Actor)
	return actor
}
