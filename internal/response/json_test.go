package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONOkResponse(t *testing.T) {
	rr := httptest.NewRecorder()

	headers := make(http.Header)
	headers.Set("X-Total-Count", "2")

	err := JSONOkResponse(rr, map[string]any{
		"memberId": 7,
		"spouse":   map[string]any{"fullName": "Ama"},
	}, "", headers)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "2", rr.Header().Get("X-Total-Count"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))

	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Request successful", body["message"])

	data := body["data"].(map[string]any)
	assert.Equal(t, float64(7), data["member_id"])
	assert.Equal(t, "Ama", data["spouse"].(map[string]any)["full_name"])
	assert.NotContains(t, body, "error")
}

func TestJSONErrorResponse(t *testing.T) {
	rr := httptest.NewRecorder()

	err := JSONErrorResponse(rr, []string{"email is required"}, "Validation failed", http.StatusUnprocessableEntity, nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var body Response[[]string]
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, []string{"email is required"}, body.Error)
}

func TestMetricsResponseWriter(t *testing.T) {
	rr := httptest.NewRecorder()
	mw := NewMetricsResponseWriter(rr)

	mw.WriteHeader(http.StatusTeapot)
	mw.WriteHeader(http.StatusOK)
	_, err := mw.Write([]byte("hello"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusTeapot, mw.StatusCode)
	assert.Equal(t, 5, mw.BytesCount)
}

func TestMetricsResponseWriterDefaultsToOK(t *testing.T) {
	mw := NewMetricsResponseWriter(httptest.NewRecorder())

	_, err := mw.Write([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, mw.StatusCode)
}
