// Package views projects report lists for the reporter dashboard and the
// cleaner worklist. Filtering, ordering, and pagination are pure functions
// over a snapshot of reports.
package views

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/JaimeStill/sweep/internal/reports"
	"github.com/JaimeStill/sweep/pkg/pagination"
)

// DefaultPageSize is the number of cards per view page.
const DefaultPageSize = 9

var (
	ErrInvalidFilter = errors.New("invalid filter")
	ErrInvalidPage   = errors.New("page must be a non-negative integer")
	ErrEmailRequired = errors.New("email is required")
)

// Filter selects a subset of reports.
type Filter string

const (
	FilterAll        Filter = "all"
	FilterAllPending Filter = "all_pending"
	FilterClean      Filter = "clean"
	FilterHigh       Filter = "high"
	FilterMedium     Filter = "medium"
	FilterLow        Filter = "low"
)

// Surface is a screen that lists reports.
type Surface string

const (
	Dashboard Surface = "dashboard"
	Worklist  Surface = "worklist"
)

var surfaceFilters = map[Surface][]Filter{
	Dashboard: {FilterAll, FilterClean, FilterHigh, FilterMedium, FilterLow},
	Worklist:  {FilterAllPending, FilterClean, FilterHigh, FilterMedium, FilterLow},
}

// DefaultFilter returns the selector used when a request names none.
func (s Surface) DefaultFilter() Filter {
	if s == Worklist {
		return FilterAllPending
	}
	return FilterAll
}

// ParseFilter resolves a selector for surface. An empty selector yields the
// surface default; selectors the surface does not offer are rejected.
func ParseFilter(surface Surface, s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return surface.DefaultFilter(), nil
	}

	f := Filter(s)
	if !slices.Contains(surfaceFilters[surface], f) {
		return "", fmt.Errorf("%w: %q is not available on the %s", ErrInvalidFilter, s, surface)
	}
	return f, nil
}

// Matches reports whether r belongs to the filter's subset. Priority
// filters select open reports only.
func (f Filter) Matches(r reports.Report) bool {
	switch f {
	case FilterAll:
		return true
	case FilterAllPending:
		return !r.IsClean
	case FilterClean:
		return r.IsClean
	case FilterHigh, FilterMedium, FilterLow:
		return !r.IsClean && r.Priority == reports.Priority(f)
	default:
		return false
	}
}

// Apply returns the reports matching f in their original order.
func Apply(items []reports.Report, f Filter) []reports.Report {
	out := make([]reports.Report, 0, len(items))
	for _, r := range items {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

var priorityRank = map[reports.Priority]int{
	reports.PriorityHigh:   3,
	reports.PriorityMedium: 2,
	reports.PriorityLow:    1,
}

// Sort orders reports in place: open before clean, open reports by
// priority rank descending, then newest first. The sort is stable.
func Sort(items []reports.Report) {
	slices.SortStableFunc(items, func(a, b reports.Report) int {
		if a.IsClean != b.IsClean {
			if a.IsClean {
				return 1
			}
			return -1
		}
		if !a.IsClean {
			if ra, rb := priorityRank[a.Priority], priorityRank[b.Priority]; ra != rb {
				return rb - ra
			}
		}
		return b.ReportedAt.Compare(a.ReportedAt)
	})
}

// Page returns the 0-based page of items. Pages past the end are empty.
func Page[T any](items []T, page, pageSize int) []T {
	if page < 0 || pageSize < 1 || page >= pagination.TotalPages(len(items), pageSize) {
		return []T{}
	}

	start := page * pageSize
	end := min(start+pageSize, len(items))
	return items[start:end]
}

// Card is one rendered report with its display style.
type Card struct {
	Report reports.Report `json:"report"`
	Style  Style          `json:"style"`
}

// View is a projected page of cards.
type View struct {
	Items      []Card `json:"items"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
}

// Project filters, sorts, and paginates items. The input slice is not modified.
func Project(items []reports.Report, f Filter, page, pageSize int) View {
	filtered := Apply(items, f)
	Sort(filtered)

	paged := Page(filtered, page, pageSize)
	cards := make([]Card, len(paged))
	for i, r := range paged {
		cards[i] = Card{Report: r, Style: StyleFor(r)}
	}

	return View{
		Items:      cards,
		Total:      len(filtered),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pagination.TotalPages(len(filtered), pageSize),
	}
}
