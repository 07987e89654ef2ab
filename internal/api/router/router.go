package router

import (
	"net/http"
	"time"

	"github/gather/report-gateway/internal/api"
	"github/gather/report-gateway/internal/api/handlers/common"
	"github/gather/report-gateway/internal/api/handlers/reports"
	"github/gather/report-gateway/internal/api/httperrors"
	"github/gather/report-gateway/internal/types"
	"github/gather/report-gateway/internal/util"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Init attaches the echo instance, middlewares and all routes to the
// server.
func Init(s *api.Server) {
	s.Echo = echo.New()
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Echo.HTTPErrorHandler = errorHandler(s.Config.Echo.HideInternalServerErrorDetails)

	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.RequestID())
	s.Echo.Use(requestLogger())
	s.Echo.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "gather",
		Registerer: s.Metrics.Registry(),
	}))

	s.Router = &api.Router{
		Root:       s.Echo.Group(""),
		Management: s.Echo.Group("/-"),
		APIV1:      s.Echo.Group("/api/v1"),
	}

	s.Router.Routes = []*echo.Route{
		common.GetHealthyRoute(s),
		common.GetReadyRoute(s),
		common.GetMetricsRoute(s),
		reports.PostReportRoute(s),
		reports.GetReportRoute(s),
		reports.GetReportsRoute(s),
	}
}

// requestLogger injects a request-scoped zerolog logger and emits one
// line per request.
func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			l := log.With().
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Logger()
			c.SetRequest(req.WithContext(util.WithLogger(req.Context(), l)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			l.Info().
				Int("status", c.Response().Status).
				Dur("duration", time.Since(start)).
				Msg("Request handled")

			return nil
		}
	}
}

// errorHandler renders *httperrors.HTTPError payloads and maps everything
// else onto them.
func errorHandler(hideInternalServerErrorDetails bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var httpErr *httperrors.HTTPError
		var echoErr *echo.HTTPError

		switch {
		case errors.As(err, &httpErr):
			// already renderable
		case errors.As(err, &echoErr):
			title := http.StatusText(echoErr.Code)
			if msg, ok := echoErr.Message.(string); ok {
				title = msg
			}
			httpErr = httperrors.NewHTTPError(echoErr.Code, types.PublicHTTPErrorTypeGeneric, title)
		default:
			title := http.StatusText(http.StatusInternalServerError)
			if !hideInternalServerErrorDetails {
				title = err.Error()
			}
			httpErr = httperrors.NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, title)
		}

		if writeErr := c.JSON(httpErr.Code, httpErr); writeErr != nil {
			log.Error().Err(writeErr).Msg("Failed to write error response")
		}
	}
}
