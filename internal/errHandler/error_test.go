package errHandler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(recipient string, data any, patterns ...string) error {
	args := m.Called(recipient, data, patterns)
	return args.Error(0)
}

func TestServerErrorNotifiesTeam(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	mailer := new(mockMailer)
	mailer.On("Send", "ops@example.org", mock.MatchedBy(func(data map[string]any) bool {
		return data["Message"] == "db is gone" && data["RequestMethod"] == http.MethodGet
	}), []string{"error-notification.tmpl"}).Return(nil)

	e := New("http://localhost", "ops@example.org", mailer, logger)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/members", nil)

	e.ServerError(rr, req, errors.New("db is gone"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "db is gone")
	assert.Contains(t, logs.String(), "db is gone")
	mailer.AssertExpectations(t)
}

func TestErrorStatuses(t *testing.T) {
	e := New("http://localhost", "", nil, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	req := httptest.NewRequest(http.MethodDelete, "/api/members/1", nil)

	tests := []struct {
		name   string
		write  func(w http.ResponseWriter)
		status int
		body   string
	}{
		{"not found", func(w http.ResponseWriter) { e.NotFound(w, req) }, http.StatusNotFound, "could not be found"},
		{"conflict", func(w http.ResponseWriter) { e.Conflict(w, req, errors.New("already registered")) }, http.StatusConflict, "Already registered"},
		{"validation", func(w http.ResponseWriter) { e.FailedValidation(w, req, []string{"email is required"}) }, http.StatusUnprocessableEntity, "email is required"},
		{"method", func(w http.ResponseWriter) { e.MethodNotAllowed(w, req) }, http.StatusMethodNotAllowed, "DELETE method"},
		{"auth", func(w http.ResponseWriter) { e.AuthenticationRequired(w, req) }, http.StatusUnauthorized, "must be authenticated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tt.write(rr)

			require.Equal(t, tt.status, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.body)
		})
	}
}

func TestInvalidAuthenticationTokenSetsChallenge(t *testing.T) {
	e := New("", "", nil, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	rr := httptest.NewRecorder()
	e.InvalidAuthenticationToken(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
}
