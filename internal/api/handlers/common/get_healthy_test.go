package common_test

import (
	"net/http"
	"testing"

	"github/gather/report-gateway/internal/api"
	"github/gather/report-gateway/internal/test"

	"github.com/stretchr/testify/assert"
)

func TestGetHealthy(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, http.MethodGet, "/-/healthy", nil)

		test.RequireHTTPStatus(t, http.StatusOK, res)
		assert.Equal(t, "ok.", res.Body.String())
	})
}
