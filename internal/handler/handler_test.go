package handler

import (
	"bytes"
	stdctx "context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/cradoe/memberreg/internal/context"
	"github.com/cradoe/memberreg/internal/errHandler"
	"github.com/cradoe/memberreg/internal/helper"
	"github.com/cradoe/memberreg/internal/metrics"
	"github.com/cradoe/memberreg/internal/mocks"
	"github.com/cradoe/memberreg/internal/models"
)

// testEnv bundles the mocks behind the handlers. Call wait before asserting on
// anything a background task does.
type testEnv struct {
	memberRepo   *mocks.MockMemberRepo
	adminRepo    *mocks.MockAdminRepo
	activityRepo *mocks.MockActivityRepo
	cache        *mocks.MockMemberCache
	publisher    *mocks.MockPublisher
	uploader     *mocks.MockUploader
	metrics      *metrics.Metrics
	errHandler   *errHandler.ErrorHandler
	helper       *helper.HelperRepository
	logger       *slog.Logger
	wg           *sync.WaitGroup
}

func newTestEnv() *testEnv {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := mocks.NewConfig()
	wg := &sync.WaitGroup{}
	eh := errHandler.New(cfg.BaseURL, "", nil, logger)

	return &testEnv{
		memberRepo:   new(mocks.MockMemberRepo),
		adminRepo:    new(mocks.MockAdminRepo),
		activityRepo: new(mocks.MockActivityRepo),
		cache:        new(mocks.MockMemberCache),
		publisher:    new(mocks.MockPublisher),
		uploader:     new(mocks.MockUploader),
		metrics:      metrics.New(prometheus.NewRegistry()),
		errHandler:   eh,
		helper:       helper.New(cfg.BaseURL, wg, eh),
		logger:       logger,
		wg:           wg,
	}
}

func (env *testEnv) memberHandler() *MemberHandler {
	return NewMemberHandler(&MemberHandler{
		MemberRepo:   env.memberRepo,
		ActivityRepo: env.activityRepo,
		Cache:        env.cache,
		Publisher:    env.publisher,
		Helper:       env.helper,
		ErrHandler:   env.errHandler,
		Metrics:      env.metrics,
		Logger:       env.logger,
	})
}

func (env *testEnv) authHandler() *AuthHandler {
	return NewAuthHandler(&AuthHandler{
		AdminRepo:    env.adminRepo,
		ActivityRepo: env.activityRepo,
		Helper:       env.helper,
		Config:       mocks.NewConfig(),
		ErrHandler:   env.errHandler,
	})
}

func (env *testEnv) wait() {
	env.wg.Wait()
}

func newJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withID sets the chi {id} route parameter the way the router would.
func withID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(stdctx.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func asAdmin(req *http.Request) *http.Request {
	return context.ContextSetAuthenticatedAdmin(req, &models.Admin{ID: 1, Name: "Desk", Email: "desk@example.org"})
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestRetrieveUrlQueryValues(t *testing.T) {
	tests := []struct {
		query  string
		limit  int
		offset int
		page   int
		search string
	}{
		{"", 0, 0, 1, ""},
		{"?page=3", 0, 0, 1, ""},
		{"?limit=10&page=3&search=ama", 10, 20, 3, "ama"},
		{"?limit=1000", maxPageSize, 0, 1, ""},
		{"?limit=-4&page=0", 0, 0, 1, ""},
		{"?limit=abc", 0, 0, 1, ""},
		{"?limit=100&page=9223372036854775807", 100, 0, 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q := retrieveUrlQueryValues(httptest.NewRequest(http.MethodGet, "/api/members"+tt.query, nil))

			require.Equal(t, tt.limit, q.Limit)
			require.Equal(t, tt.offset, q.Offset)
			require.Equal(t, tt.page, q.Page)
			require.Equal(t, tt.search, q.Search)
			require.GreaterOrEqual(t, q.Offset, 0)
		})
	}
}

func TestMain(m *testing.M) {
	staleReadWindow = time.Millisecond
	os.Exit(m.Run())
}
