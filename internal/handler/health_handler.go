package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthCheck returns the health status of the service
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "healthy",
		"service": "gym-service",
	})
}
