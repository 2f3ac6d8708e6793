package metadata

import (
	"context"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"reelmerge/config"
	"reelmerge/internal/logging"
	"reelmerge/models"
)

// Service aggregates TMDB listings and details with OMDb ratings.
type Service struct {
	tmdb *tmdbClient
	omdb *omdbClient

	imageBaseURL string
	posterSize   string

	// isolateItemFailures keeps a batch alive when one item's enrichment fails.
	isolateItemFailures bool
}

// NewService builds a Service from the provider configuration. Both clients
// share one http.Client.
func NewService(tmdbCfg config.TMDBConfig, omdbCfg config.OMDBConfig, metaCfg config.MetadataConfig) *Service {
	httpClient := &http.Client{Timeout: metaCfg.UpstreamTimeout}
	return &Service{
		tmdb:                newTMDBClient(tmdbCfg.APIKey, tmdbCfg.BaseURL, tmdbCfg.Language, httpClient),
		omdb:                newOMDBClient(omdbCfg.APIKey, omdbCfg.BaseURL, httpClient),
		imageBaseURL:        strings.TrimRight(firstNonEmpty(tmdbCfg.ImageBaseURL, config.DefaultTMDBImageURL), "/"),
		posterSize:          firstNonEmpty(tmdbCfg.PosterSize, config.DefaultPosterSize),
		isolateItemFailures: metaCfg.IsolateItemFailures,
	}
}

// logFor returns the request-scoped logger tagged with this component.
func logFor(ctx context.Context) *zerolog.Logger {
	l := logging.Ctx(ctx).With().Str("component", "metadata").Logger()
	return &l
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Genres returns the provider's genre list for the format.
func (s *Service) Genres(ctx context.Context, format models.MediaFormat) ([]models.Genre, error) {
	return s.tmdb.genres(ctx, format)
}

// List resolves the query to exactly one upstream listing and enriches every
// item of the returned page in parallel. Items keep provider order and the
// total is the provider's count for the whole collection.
func (s *Service) List(ctx context.Context, format models.MediaFormat, query models.ListQuery) (*models.ListResult, error) {
	page, err := s.fetchListPage(ctx, format, query)
	if err != nil {
		return nil, err
	}

	items, err := s.enrichAll(ctx, format, page.Results)
	if err != nil {
		return nil, err
	}

	logFor(ctx).Debug().
		Str("format", format.String()).
		Str("mode", query.Mode().String()).
		Int("items", len(items)).
		Int64("total_results", page.TotalResults).
		Msg("list aggregated")

	return &models.ListResult{Data: items, TotalResults: page.TotalResults}, nil
}

func (s *Service) fetchListPage(ctx context.Context, format models.MediaFormat, query models.ListQuery) (*tmdbPage, error) {
	page := query.PageOrDefault()
	switch query.Mode() {
	case models.ModeSearch:
		return s.tmdb.search(ctx, format, query.SearchText, page)
	case models.ModeDiscover:
		return s.tmdb.discover(ctx, format, query.Tab, query.Filters, page)
	default:
		return s.tmdb.trending(ctx, format, page)
	}
}

// RawDetails returns the provider's detail payload verbatim.
func (s *Service) RawDetails(ctx context.Context, format models.MediaFormat, id int64) (json.RawMessage, error) {
	return s.tmdb.rawDetails(ctx, format, id)
}
