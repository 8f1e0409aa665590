package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cradoe/memberreg/internal/config"
	"github.com/cradoe/memberreg/internal/context"
	"github.com/cradoe/memberreg/internal/errHandler"
	"github.com/cradoe/memberreg/internal/metrics"
	"github.com/cradoe/memberreg/internal/repository"
	"github.com/cradoe/memberreg/internal/response"

	"github.com/google/uuid"
	"github.com/pascaldekloe/jwt"
	"github.com/tomasen/realip"
)

const requestIDHeader = "X-Request-ID"

type Middleware struct {
	errHandler *errHandler.ErrorHandler
	logger     *slog.Logger
	AdminRepo  repository.AdminRepository
	config     *config.Config
	metrics    *metrics.Metrics
}

func New(errHandler *errHandler.ErrorHandler, logger *slog.Logger, adminRepo repository.AdminRepository, config *config.Config, metrics *metrics.Metrics) *Middleware {
	return &Middleware{
		errHandler: errHandler,
		logger:     logger,
		AdminRepo:  adminRepo,
		config:     config,
		metrics:    metrics,
	}
}

func (mid *Middleware) RecoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			err := recover()
			if err != nil {
				w.Header().Set("Connection", "close")
				mid.errHandler.ServerError(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// RequestID keeps the caller's X-Request-ID or generates one, and echoes it back.
func (mid *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, context.ContextSetRequestID(r, id))
	})
}

func (mid *Middleware) LogAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		mw := response.NewMetricsResponseWriter(w)
		next.ServeHTTP(mw, r)

		if mid.metrics != nil {
			mid.metrics.ObserveRequest(r.Method, mw.StatusCode, start)
		}

		var (
			ip     = realip.FromRequest(r)
			method = r.Method
			url    = r.URL.String()
			proto  = r.Proto
		)

		userAttrs := slog.Group("user", "ip", ip)
		requestAttrs := slog.Group("request", "method", method, "url", url, "proto", proto, "id", context.ContextGetRequestID(r))
		responseAttrs := slog.Group("response", "status", mw.StatusCode, "size", mw.BytesCount, "duration", time.Since(start).String())

		mid.logger.Info("access", userAttrs, requestAttrs, responseAttrs)
	})
}

func (mid *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		authorizationHeader := r.Header.Get("Authorization")

		if authorizationHeader != "" {
			headerParts := strings.Split(authorizationHeader, " ")

			if len(headerParts) == 2 && headerParts[0] == "Bearer" {
				token := headerParts[1]

				claims, err := jwt.HMACCheck([]byte(token), []byte(mid.config.Jwt.SecretKey))
				if err != nil {
					mid.errHandler.InvalidAuthenticationToken(w, r)
					return
				}

				if !claims.Valid(time.Now()) {
					mid.errHandler.InvalidAuthenticationToken(w, r)
					return
				}

				if claims.Issuer != mid.config.BaseURL {
					mid.errHandler.InvalidAuthenticationToken(w, r)
					return
				}

				if !claims.AcceptAudience(mid.config.BaseURL) {
					mid.errHandler.InvalidAuthenticationToken(w, r)
					return
				}

				adminID, err := strconv.ParseInt(claims.Subject, 10, 64)
				if err != nil {
					mid.errHandler.InvalidAuthenticationToken(w, r)
					return
				}

				admin, found, err := mid.AdminRepo.GetOne(adminID)
				if err != nil {
					mid.errHandler.ServerError(w, r, err)
					return
				}

				// a locked account loses access even with a token issued before the lock
				if found && admin.Status == repository.AdminAccountActiveStatus {
					r = context.ContextSetAuthenticatedAdmin(r, admin)
				}
			}
		}

		next.ServeHTTP(w, r)
	})
}

func (mid *Middleware) RequireAuthenticatedAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authenticatedAdmin := context.ContextGetAuthenticatedAdmin(r)

		if authenticatedAdmin == nil {
			mid.errHandler.AuthenticationRequired(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
