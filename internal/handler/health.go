package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/cradoe/memberreg/internal/errHandler"
	"github.com/cradoe/memberreg/internal/response"
	"golang.org/x/sync/errgroup"
)

const readinessTimeout = 2 * time.Second

// Pinger is a dependency the service cannot work without, the database and the cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthCheckHandler struct {
	ErrHandler *errHandler.ErrorHandler
	DB         Pinger
	Cache      Pinger
	Version    string
}

func NewHealthCheckHandler(handler *HealthCheckHandler) *HealthCheckHandler {
	return &HealthCheckHandler{
		ErrHandler: handler.ErrHandler,
		DB:         handler.DB,
		Cache:      handler.Cache,
		Version:    handler.Version,
	}
}

func (h *HealthCheckHandler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"status":  "OK",
		"version": h.Version,
	}

	err := response.JSONOkResponse(w, data, "Up and grateful", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleReadiness pings the database and the cache side by side.
func (h *HealthCheckHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	names := []string{"database", "cache"}
	deps := []Pinger{h.DB, h.Cache}
	errs := make([]error, len(deps))

	var g errgroup.Group
	for i, dep := range deps {
		if dep == nil {
			continue
		}
		g.Go(func() error {
			errs[i] = dep.Ping(ctx)
			return nil
		})
	}
	g.Wait()

	results := make(map[string]string, len(deps))
	var failures []string
	for i, err := range errs {
		results[names[i]] = "up"
		if err != nil {
			results[names[i]] = "down"
			failures = append(failures, names[i]+": "+err.Error())
		}
	}

	if len(failures) > 0 {
		err := response.JSONErrorResponse(w, failures, "Service is not ready", http.StatusServiceUnavailable, nil)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
		}
		return
	}

	err := response.JSONOkResponse(w, results, "Service is ready", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
