package reports

import (
	"net/http"
	"sort"

	"github/gather/report-gateway/internal/api"
	"github/gather/report-gateway/internal/types"

	"github.com/labstack/echo/v4"
)

// GetReportsRoute lists all known submission records, newest first.
func GetReportsRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.GET("/reports", getReportsHandler(s))
}

func getReportsHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		subs := s.Submission.List()

		sort.Slice(subs, func(i, j int) bool {
			return subs[i].CreatedAt.After(subs[j].CreatedAt)
		})

		res := make([]*types.ReportSubmissionResponse, 0, len(subs))
		for _, sub := range subs {
			res = append(res, submissionResponse(sub))
		}

		return c.JSON(http.StatusOK, res)
	}
}
