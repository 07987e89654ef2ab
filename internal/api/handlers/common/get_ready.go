package common

import (
	"context"
	"net/http"

	"github/gather/report-gateway/internal/api"
	"github/gather/report-gateway/internal/util"

	"github.com/labstack/echo/v4"
)

// GetReadyRoute answers readiness probes. Ready means all components are
// wired and at least one RPC endpoint answers.
func GetReadyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/ready", getReadyHandler(s))
}

func getReadyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := util.LogFromEchoContext(c)

		if !s.Ready() {
			return c.String(http.StatusServiceUnavailable, "Not ready.")
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), s.Config.Chain.RequestTimeout)
		defer cancel()

		if _, err := s.Chain.ChainID(ctx); err != nil {
			log.Warn().Err(err).Msg("Readiness check failed to reach RPC endpoint")
			return c.String(http.StatusServiceUnavailable, "Not ready.")
		}

		return c.String(http.StatusOK, "ready.")
	}
}
