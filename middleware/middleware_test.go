package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/tagskema/internal/samples"
	"github.com/reoring/tagskema/middleware"
)

func statusHandler(t *testing.T) http.Handler {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st, ok := middleware.DecodedFromContext[samples.TestSubmissionStatus](r.Context())
		require.True(t, ok)
		require.NoError(t, middleware.Respond(w, r, samples.TestSubmissionStatusSchema, http.StatusOK, st))
	})
	return middleware.Decode(samples.TestSubmissionStatusSchema, middleware.DefaultParseOpt(), next)
}

func TestDecode_PassesValueToHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/status", strings.NewReader(`{"running":"COMPILING_SUBMISSION","type":"running"}`))
	statusHandler(t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, `{"type":"running","running":"COMPILING_SUBMISSION"}`, rec.Body.String())
}

func TestDecode_RejectsInvalidBody(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/status", strings.NewReader(`{"running":"COMPILING_SUBMISSION"}`))
	statusHandler(t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Issues []map[string]string `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Issues, 1)
	require.Equal(t, "/type", body.Issues[0]["path"])
	require.Equal(t, "discriminator_missing", body.Issues[0]["code"])
	require.Equal(t, "discriminator type missing", body.Issues[0]["message"])
	require.Contains(t, body.Issues[0]["hint"], "running")
}

func TestDecode_RejectsDuplicateDiscriminant(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/status", strings.NewReader(`{"type":"stopped","type":"running","running":"COMPILING_SUBMISSION"}`))
	statusHandler(t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), `"code":"duplicate_key"`)
}

func TestErrorPayload_OptionalFields(t *testing.T) {
	p := middleware.ErrorPayload(nil)
	require.Empty(t, p["issues"])
}

type failingBody struct{}

func (failingBody) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestDecode_BodyReadErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	big := `{"type":"errored","errored":"` + strings.Repeat("x", middleware.DefaultMaxBodyBytes) + `"}`
	statusHandler(t).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/status", strings.NewReader(big)))
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = httptest.NewRecorder()
	statusHandler(t).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/status", failingBody{}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "connection reset")
}
