package context

import (
	"context"
	"net/http"

	"github.com/cradoe/memberreg/internal/models"
)

type contextKey string

const (
	authenticatedAdminContextKey = contextKey("authenticatedAdmin")
	requestIDContextKey          = contextKey("requestID")
)

func ContextSetAuthenticatedAdmin(r *http.Request, admin *models.Admin) *http.Request {
	ctx := context.WithValue(r.Context(), authenticatedAdminContextKey, admin)
	return r.WithContext(ctx)
}

func ContextGetAuthenticatedAdmin(r *http.Request) *models.Admin {
	admin, ok := r.Context().Value(authenticatedAdminContextKey).(*models.Admin)
	if !ok {
		return nil
	}

	return admin
}

func ContextSetRequestID(r *http.Request, id string) *http.Request {
	ctx := context.WithValue(r.Context(), requestIDContextKey, id)
	return r.WithContext(ctx)
}

func ContextGetRequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDContextKey).(string)
	return id
}
