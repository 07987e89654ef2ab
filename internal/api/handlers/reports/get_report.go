package reports

import (
	"net/http"
	"time"

	"github/gather/report-gateway/internal/api"
	"github/gather/report-gateway/internal/api/httperrors"
	"github/gather/report-gateway/internal/submission"
	"github/gather/report-gateway/internal/types"

	"github.com/labstack/echo/v4"
)

// GetReportRoute returns the submission record for one report.
func GetReportRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.GET("/reports/:id", getReportHandler(s))
}

func getReportHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		sub, ok := s.Submission.Get(c.Param("id"))
		if !ok {
			return httperrors.NewHTTPError(http.StatusNotFound, types.PublicHTTPErrorTypeSubmissionUnknown, "Submission not found")
		}

		return c.JSON(http.StatusOK, submissionResponse(sub))
	}
}

func submissionResponse(sub *submission.Submission) *types.ReportSubmissionResponse {
	res := &types.ReportSubmissionResponse{
		ID:        sub.ID,
		Status:    string(sub.Status),
		TxHash:    sub.TxHash,
		GasUsed:   sub.GasUsed,
		Stage:     sub.Stage,
		Detail:    sub.Detail,
		CreatedAt: sub.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: sub.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if sub.BlockNumber != nil {
		res.BlockNumber = sub.BlockNumber.String()
	}

	return res
}
