package common

import (
	"github/gather/report-gateway/internal/api"

	"github.com/labstack/echo/v4"
)

// GetMetricsRoute exposes the prometheus registry of the service.
func GetMetricsRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/metrics", echo.WrapHandler(s.Metrics.HTTPHandler()))
}
