package api

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"

	"github/gather/report-gateway/internal/chain"
	"github/gather/report-gateway/internal/config"
	"github/gather/report-gateway/internal/metrics"
	"github/gather/report-gateway/internal/submission"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// SubmissionService is the surface the handlers consume.
// Alias to submission.Service so tests can substitute implementations.
type SubmissionService = submission.Service

// ChainProbe is what the readiness endpoint needs from the RPC layer.
type ChainProbe interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// Router groups the route trees of the service.
type Router struct {
	Routes     []*echo.Route
	Root       *echo.Group
	Management *echo.Group
	APIV1      *echo.Group
}

// Server is a central struct keeping all the dependencies. Components are
// initialized explicitly in cmd/server (and in the test helpers); the
// Echo instance and Router are attached by router.Init.
type Server struct {
	Echo   *echo.Echo
	Router *Router

	Config     config.Server
	Metrics    *metrics.Service
	Chain      ChainProbe
	Submission SubmissionService
}

// NewServer returns a Server carrying only its config; the remaining
// components have to be attached before Start.
func NewServer(cfg config.Server) *Server {
	return &Server{
		Config: cfg,
	}
}

// Ready reports whether all components are attached.
func (s *Server) Ready() bool {
	return s.Echo != nil &&
		s.Router != nil &&
		s.Metrics != nil &&
		s.Chain != nil &&
		s.Submission != nil
}

// Start runs the HTTP listener; it blocks until shutdown.
func (s *Server) Start() error {
	if !s.Ready() {
		return errors.New("server is not ready")
	}

	if err := s.Echo.Start(s.Config.Echo.ListenAddress); err != nil {
		return fmt.Errorf("failed to start echo server: %w", err)
	}

	return nil
}

// Shutdown gracefully stops the HTTP listener and closes RPC connections.
func (s *Server) Shutdown(ctx context.Context) []error {
	log.Warn().Msg("Shutting down server")

	var errs []error

	if s.Echo != nil {
		log.Debug().Msg("Shutting down echo server")

		if err := s.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed to shutdown echo server")
			errs = append(errs, err)
		}
	}

	if client, ok := s.Chain.(*chain.Client); ok && client != nil {
		log.Debug().Msg("Closing RPC client connections")
		client.Close()
	}

	return errs
}
