package common

import (
	"net/http"

	"github/gather/report-gateway/internal/api"

	"github.com/labstack/echo/v4"
)

// GetHealthyRoute answers liveness probes. It only proves the process
// responds; readiness is a separate, stricter check.
func GetHealthyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/healthy", getHealthyHandler(s))
}

func getHealthyHandler(_ *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.String(http.StatusOK, "ok.")
	}
}
