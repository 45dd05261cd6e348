package views

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/JaimeStill/sweep/internal/reports"
	"github.com/JaimeStill/sweep/pkg/handlers"
	"github.com/JaimeStill/sweep/pkg/identity"
	"github.com/JaimeStill/sweep/pkg/routes"
)

// Source supplies the report snapshot a view is projected from.
type Source interface {
	All(ctx context.Context, filters reports.Filters) ([]reports.Report, error)
}

// MapHTTPStatus maps view errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidFilter),
		errors.Is(err, ErrInvalidPage),
		errors.Is(err, ErrEmailRequired):
		return http.StatusBadRequest
	default:
		return reports.MapHTTPStatus(err)
	}
}

// Handler serves the dashboard and worklist projections.
type Handler struct {
	source   Source
	logger   *slog.Logger
	pageSize int
}

// NewHandler creates a Handler. A non-positive pageSize uses DefaultPageSize.
func NewHandler(source Source, logger *slog.Logger, pageSize int) *Handler {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Handler{
		source:   source,
		logger:   logger.With("handler", "views"),
		pageSize: pageSize,
	}
}

// Routes returns the route group definition for view endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/views",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/dashboard", Handler: h.Dashboard},
			{Method: "GET", Pattern: "/worklist", Handler: h.Worklist},
		},
	}
}

// Dashboard projects the caller's own reports. The email comes from the
// verified identity when present, else from the email query parameter.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	email := reports.NormalizeEmail(r.URL.Query().Get("email"))
	if id, ok := identity.FromContext(r.Context()); ok {
		email = id.Email
	}
	if email == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrEmailRequired)
		return
	}

	h.serve(w, r, Dashboard, reports.Filters{Email: &email})
}

// Worklist projects every report for cleaners.
func (h *Handler) Worklist(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, Worklist, reports.Filters{})
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, surface Surface, filters reports.Filters) {
	q := r.URL.Query()

	filter, err := ParseFilter(surface, q.Get("filter"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	page, err := parsePage(q)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	items, err := h.source.All(r.Context(), narrow(filters, filter))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Project(items, filter, page, h.pageSize))
}

// narrow pushes the clean/open split of f down to the data source.
func narrow(filters reports.Filters, f Filter) reports.Filters {
	switch f {
	case FilterAll:
		return filters
	case FilterClean:
		clean := true
		filters.IsClean = &clean
	default:
		open := false
		filters.IsClean = &open
	}
	return filters
}

func parsePage(q url.Values) (int, error) {
	raw := q.Get("page")
	if raw == "" {
		return 0, nil
	}

	page, err := strconv.Atoi(raw)
	if err != nil || page < 0 {
		return 0, fmt.Errorf("%w: page=%q", ErrInvalidPage, raw)
	}
	return page, nil
}
