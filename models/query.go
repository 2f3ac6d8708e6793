package models

import (
	"errors"
	"strings"
)

// ErrInvalidQuery marks client input that cannot be turned into an upstream request.
var ErrInvalidQuery = errors.New("invalid query")

// ListMode is the upstream listing a ListQuery resolves to.
type ListMode int

const (
	ModeTrending ListMode = iota
	ModeDiscover
	ModeSearch
)

func (m ListMode) String() string {
	switch m {
	case ModeSearch:
		return "search"
	case ModeDiscover:
		return "discover"
	default:
		return "trending"
	}
}

// TabTrending selects the day-window trending listing.
const TabTrending = "trending"

// DiscoverFilters narrow a discover listing.
type DiscoverFilters struct {
	Genres    []int64
	MinRating *float64
	FromYear  *int
	ToYear    *int
	// ExtraParams is appended verbatim to the upstream query string.
	ExtraParams string
}

// ListQuery is one request against the list endpoint.
type ListQuery struct {
	SearchText string
	Tab        string
	Filters    DiscoverFilters
	Page       int
}

// Mode applies the precedence rule: search text wins, then any tab other than
// trending selects discover, otherwise trending.
func (q ListQuery) Mode() ListMode {
	if q.SearchText != "" {
		return ModeSearch
	}
	if strings.TrimSpace(q.Tab) != TabTrending {
		return ModeDiscover
	}
	return ModeTrending
}

// PageOrDefault returns the requested page, treating unset as the first page.
func (q ListQuery) PageOrDefault() int {
	if q.Page < 1 {
		return 1
	}
	return q.Page
}
