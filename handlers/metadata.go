package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"reelmerge/internal/logging"
	"reelmerge/internal/validation"
	"reelmerge/models"
	metadatapkg "reelmerge/services/metadata"
)

//go:generate mockgen -source=metadata.go -destination=mock_metadata_service_test.go -package=handlers

type metadataService interface {
	Genres(ctx context.Context, format models.MediaFormat) ([]models.Genre, error)
	List(ctx context.Context, format models.MediaFormat, query models.ListQuery) (*models.ListResult, error)
	Details(ctx context.Context, format models.MediaFormat, id int64) (*models.MediaDetail, error)
	RawDetails(ctx context.Context, format models.MediaFormat, id int64) (json.RawMessage, error)
}

var _ metadataService = (*metadatapkg.Service)(nil)

type MetadataHandler struct {
	Service metadataService
}

func NewMetadataHandler(s metadataService) *MetadataHandler {
	return &MetadataHandler{Service: s}
}

// listRequest is the validated form of the /api/movies query string.
type listRequest struct {
	Format      string   `query:"format"`
	Genres      []int64  `query:"genres" validate:"dive,gt=0"`
	Rating      *float64 `query:"rating" validate:"omitempty,gte=0,lte=10"`
	FromYear    *int     `query:"fromYear" validate:"omitempty,gte=1800,lte=3000"`
	ToYear      *int     `query:"toYear" validate:"omitempty,gte=1800,lte=3000"`
	Page        int      `query:"page" validate:"min=1,max=500"`
	Tab         string   `query:"tab"`
	SearchQuery string   `query:"searchQuery"`
	WithQuery   string   `query:"withQuery"`
}

// titleRequest identifies one title for /api/details and /api/others.
type titleRequest struct {
	Format string `query:"format"`
	ID     int64  `query:"id" validate:"required,gt=0"`
}

func invalidParam(name, value string) error {
	return fmt.Errorf("%w: %s must be a number, got %q", models.ErrInvalidQuery, name, value)
}

func parseListRequest(r *http.Request) (listRequest, error) {
	q := r.URL.Query()
	req := listRequest{
		Format:      strings.TrimSpace(q.Get("format")),
		Tab:         strings.TrimSpace(q.Get("tab")),
		SearchQuery: strings.TrimSpace(q.Get("searchQuery")),
		WithQuery:   strings.TrimSpace(q.Get("withQuery")),
		Page:        1,
	}
	if req.SearchQuery == "" {
		req.SearchQuery = strings.TrimSpace(q.Get("query"))
	}

	for _, raw := range q["genres"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return req, invalidParam("genres", part)
			}
			req.Genres = append(req.Genres, id)
		}
	}

	if v := strings.TrimSpace(q.Get("rating")); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, invalidParam("rating", v)
		}
		req.Rating = &rating
	}
	for name, dst := range map[string]**int{"fromYear": &req.FromYear, "toYear": &req.ToYear} {
		v := strings.TrimSpace(q.Get(name))
		if v == "" {
			continue
		}
		year, err := strconv.Atoi(v)
		if err != nil {
			return req, invalidParam(name, v)
		}
		*dst = &year
	}
	if v := strings.TrimSpace(q.Get("page")); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return req, invalidParam("page", v)
		}
		req.Page = page
	}

	if err := validation.Struct(req); err != nil {
		return req, fmt.Errorf("%w: %v", models.ErrInvalidQuery, err)
	}
	if err := req.validateRanges(); err != nil {
		return req, fmt.Errorf("%w: %v", models.ErrInvalidQuery, err)
	}
	return req, nil
}

// validateRanges covers the rules a struct tag cannot express on optional
// fields.
func (l listRequest) validateRanges() error {
	var fields []validation.FieldError
	if !metadatapkg.IsKnownTab(l.Tab) {
		fields = append(fields, validation.FieldError{
			Field: "tab",
			Tag:   "oneof",
			Param: strings.Join(metadatapkg.Tabs(), " "),
		})
	}
	if l.FromYear != nil && l.ToYear != nil && *l.ToYear < *l.FromYear {
		fields = append(fields, validation.FieldError{
			Field: "toYear",
			Tag:   "gtefield",
			Param: "fromYear",
		})
	}
	if len(fields) == 0 {
		return nil
	}
	return &validation.Error{Fields: fields}
}

func (l listRequest) query() models.ListQuery {
	return models.ListQuery{
		SearchText: l.SearchQuery,
		Tab:        l.Tab,
		Page:       l.Page,
		Filters: models.DiscoverFilters{
			Genres:      l.Genres,
			MinRating:   l.Rating,
			FromYear:    l.FromYear,
			ToYear:      l.ToYear,
			ExtraParams: l.WithQuery,
		},
	}
}

func parseTitleRequest(r *http.Request) (titleRequest, error) {
	q := r.URL.Query()
	req := titleRequest{Format: strings.TrimSpace(q.Get("format"))}
	if v := strings.TrimSpace(q.Get("id")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return req, invalidParam("id", v)
		}
		req.ID = id
	}
	if err := validation.Struct(req); err != nil {
		return req, fmt.Errorf("%w: %v", models.ErrInvalidQuery, err)
	}
	return req, nil
}

// List serves GET /api/movies.
func (h *MetadataHandler) List(w http.ResponseWriter, r *http.Request) {
	req, err := parseListRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	format, err := models.ParseMediaFormat(req.Format)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.Service.List(r.Context(), format, req.query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// Genres serves GET /api/genres.
func (h *MetadataHandler) Genres(w http.ResponseWriter, r *http.Request) {
	format, err := models.ParseMediaFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	genres, err := h.Service.Genres(r.Context(), format)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, genres)
}

// Details serves GET /api/details.
func (h *MetadataHandler) Details(w http.ResponseWriter, r *http.Request) {
	req, format, ok := h.titleParams(w, r)
	if !ok {
		return
	}
	detail, err := h.Service.Details(r.Context(), format, req.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, detail)
}

// Others serves GET /api/others: the provider detail payload, untouched.
func (h *MetadataHandler) Others(w http.ResponseWriter, r *http.Request) {
	req, format, ok := h.titleParams(w, r)
	if !ok {
		return
	}
	raw, err := h.Service.RawDetails(r.Context(), format, req.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(raw); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("write response")
	}
}

func (h *MetadataHandler) titleParams(w http.ResponseWriter, r *http.Request) (titleRequest, models.MediaFormat, bool) {
	req, err := parseTitleRequest(r)
	if err != nil {
		writeError(w, r, err)
		return req, models.FormatMovie, false
	}
	format, err := models.ParseMediaFormat(req.Format)
	if err != nil {
		writeError(w, r, err)
		return req, models.FormatMovie, false
	}
	return req, format, true
}

// statusFor maps service errors onto HTTP statuses. Upstream failures other
// than a missing title are reported as a bad gateway.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, metadatapkg.ErrUpstreamNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	event := logging.Ctx(r.Context()).Warn()
	if status == http.StatusBadRequest || status == http.StatusNotFound {
		event = logging.Ctx(r.Context()).Debug()
	}
	event.Err(err).Int("status", status).Str("path", r.URL.Path).Msg("request failed")
	writeJSON(w, r, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("encode response")
	}
}
