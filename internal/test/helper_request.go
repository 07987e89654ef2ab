package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github/gather/report-gateway/internal/api"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// PerformRequest runs a request through the full echo stack without a
// network listener. A non-nil body is JSON-encoded.
func PerformRequest(t *testing.T, s *api.Server, method string, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	res := httptest.NewRecorder()
	s.Echo.ServeHTTP(res, req)

	return res
}

// ParseResponseAndValidate decodes the JSON response body into v.
func ParseResponseAndValidate(t *testing.T, res *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	require.NoError(t, json.Unmarshal(res.Body.Bytes(), v))
}

// RequireHTTPStatus asserts the response status, printing the body on
// mismatch for diagnosis.
func RequireHTTPStatus(t *testing.T, expected int, res *httptest.ResponseRecorder) {
	t.Helper()

	require.Equal(t, expected, res.Code, "unexpected HTTP status, body: %s", res.Body.String())
}
