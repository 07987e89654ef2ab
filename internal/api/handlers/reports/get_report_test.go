package reports_test

import (
	"net/http"
	"testing"

	"github/gather/report-gateway/internal/api"
	"github/gather/report-gateway/internal/test"
	"github/gather/report-gateway/internal/types"

	"github.com/stretchr/testify/assert"
)

func TestGetReport(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		created := test.PerformRequest(t, s, http.MethodPost, "/api/v1/reports", validPayload())
		test.RequireHTTPStatus(t, http.StatusAccepted, created)

		var createdResponse types.ReportSubmissionResponse
		test.ParseResponseAndValidate(t, created, &createdResponse)

		res := test.PerformRequest(t, s, http.MethodGet, "/api/v1/reports/"+createdResponse.ID, nil)

		test.RequireHTTPStatus(t, http.StatusOK, res)

		var response types.ReportSubmissionResponse
		test.ParseResponseAndValidate(t, res, &response)
		assert.Equal(t, createdResponse.ID, response.ID)
		assert.NotEmpty(t, response.CreatedAt)
	})
}

func TestGetReportUnknownID(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, http.MethodGet, "/api/v1/reports/00000000-0000-0000-0000-000000000000", nil)

		test.RequireHTTPStatus(t, http.StatusNotFound, res)
		assert.Contains(t, res.Body.String(), string(types.PublicHTTPErrorTypeSubmissionUnknown))
	})
}

func TestGetReports(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		for i := 0; i < 3; i++ {
			created := test.PerformRequest(t, s, http.MethodPost, "/api/v1/reports", validPayload())
			test.RequireHTTPStatus(t, http.StatusAccepted, created)
		}

		res := test.PerformRequest(t, s, http.MethodGet, "/api/v1/reports", nil)

		test.RequireHTTPStatus(t, http.StatusOK, res)

		var response []*types.ReportSubmissionResponse
		test.ParseResponseAndValidate(t, res, &response)
		assert.Len(t, response, 3)
	})
}
