package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/cradoe/memberreg/internal/errHandler"
	"github.com/cradoe/memberreg/internal/file"
	"github.com/go-chi/chi/v5"
)

// maxPageSize caps the limit query parameter
const maxPageSize = 100

var errInvalidID = errors.New("invalid id parameter")

type RouteHandler struct {
	ErrHandler   *errHandler.ErrorHandler
	FileUploader file.Uploader
}

func NewRouteHandler(handler *RouteHandler) *RouteHandler {
	return &RouteHandler{
		ErrHandler:   handler.ErrHandler,
		FileUploader: handler.FileUploader,
	}
}

type queryStringValues struct {
	Search string
	Limit  int
	Offset int
	Page   int
}

// retrieveUrlQueryValues reads search, page and limit. Without a limit every
// match is returned and page is ignored.
func retrieveUrlQueryValues(r *http.Request) *queryStringValues {
	var queryValues = &queryStringValues{Page: 1}

	limitStr := r.URL.Query().Get("limit")
	pageStr := r.URL.Query().Get("page")

	if limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			queryValues.Limit = min(parsedLimit, maxPageSize)
		}
	}

	if pageStr != "" && queryValues.Limit > 0 {
		// pages past math.MaxInt/limit would overflow the offset
		if parsedPage, err := strconv.Atoi(pageStr); err == nil && parsedPage >= 1 && parsedPage-1 <= math.MaxInt/queryValues.Limit {
			queryValues.Page = parsedPage
			queryValues.Offset = (parsedPage - 1) * queryValues.Limit
		}
	}

	queryValues.Search = r.URL.Query().Get("search")

	return queryValues
}

// idParam parses the {id} route parameter.
func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errInvalidID
	}
	return id, nil
}
