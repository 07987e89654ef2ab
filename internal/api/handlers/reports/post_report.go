package reports

import (
	"net/http"

	"github/gather/report-gateway/internal/api"
	"github/gather/report-gateway/internal/api/httperrors"
	"github/gather/report-gateway/internal/report"
	"github/gather/report-gateway/internal/types"
	"github/gather/report-gateway/internal/util"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// PostReportRoute accepts an air-quality report and enqueues it for
// on-chain submission.
func PostReportRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.POST("/reports", postReportHandler(s))
}

func postReportHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := util.LogFromEchoContext(c)

		var body types.PostReportPayload
		if err := c.Bind(&body); err != nil {
			return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Failed to parse request body")
		}

		r, err := reportFromPayload(&body)
		if err != nil {
			var constructionErr *report.ConstructionError
			if errors.As(err, &constructionErr) {
				return httperrors.NewHTTPValidationError(http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidReport, "Report validation failed", []*types.HTTPValidationErrorDetail{
					{
						Key:   constructionErr.Field,
						In:    "body",
						Error: constructionErr.Reason,
					},
				})
			}

			var fieldErr *payloadFieldError
			if errors.As(err, &fieldErr) {
				return httperrors.NewHTTPValidationError(http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidReport, "Report validation failed", []*types.HTTPValidationErrorDetail{
					{
						Key:   fieldErr.Field,
						In:    "body",
						Error: fieldErr.Err.Error(),
					},
				})
			}

			return err
		}

		sub := s.Submission.Enqueue(c.Request().Context(), r)

		log.Debug().
			Str("submission_id", sub.ID).
			Str("server_id", r.ServerID).
			Msg("Report accepted")

		return c.JSON(http.StatusAccepted, submissionResponse(sub))
	}
}

// payloadFieldError marks a request field that failed numeric parsing.
type payloadFieldError struct {
	Field string
	Err   error
}

func (e *payloadFieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func reportFromPayload(body *types.PostReportPayload) (*report.Report, error) {
	timestamp, err := util.ParseBigInt(body.Timestamp)
	if err != nil {
		return nil, &payloadFieldError{Field: "timestamp", Err: err}
	}

	sensors, err := util.ParseBigInts(body.Sensors)
	if err != nil {
		return nil, &payloadFieldError{Field: "sensors", Err: err}
	}

	location, err := util.ParseBigInts(body.Location)
	if err != nil {
		return nil, &payloadFieldError{Field: "location", Err: err}
	}

	return report.New(body.ServerID, body.UserCode, timestamp, sensors, location)
}
