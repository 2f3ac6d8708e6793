package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/text/language"

	"reelmerge/models"
)

const providerTMDB = "tmdb"

const tabDiscover = "discover"

// listTabs are the TMDB list endpoints that the discover mode may route to
// instead of /discover.
var listTabs = []string{
	"popular",
	"top_rated",
	"now_playing",
	"upcoming",
	"on_the_air",
	"airing_today",
}

// IsListTab reports whether tab names a TMDB list endpoint.
func IsListTab(tab string) bool {
	return slices.Contains(listTabs, tab)
}

// Tabs lists every tab value the list endpoint accepts besides empty.
func Tabs() []string {
	return append([]string{models.TabTrending, tabDiscover}, listTabs...)
}

// IsKnownTab reports whether tab selects a listing. Empty means discover.
func IsKnownTab(tab string) bool {
	return tab == "" || slices.Contains(Tabs(), tab)
}

type tmdbClient struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
}

func newTMDBClient(apiKey, baseURL, lang string, httpClient *http.Client) *tmdbClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &tmdbClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   normalizeLanguage(lang),
		httpClient: httpClient,
	}
}

// normalizeLanguage canonicalises a configured language as a BCP 47 tag.
// Empty or unparseable input disables the parameter.
func normalizeLanguage(lang string) string {
	lang = strings.TrimSpace(strings.ReplaceAll(lang, "_", "-"))
	if lang == "" {
		return ""
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return ""
	}
	return tag.String()
}

// tmdbPage is the envelope of every paginated TMDB listing.
type tmdbPage struct {
	Page         int             `json:"page"`
	Results      []models.Fields `json:"results"`
	TotalPages   int             `json:"total_pages"`
	TotalResults int64           `json:"total_results"`
}

func (c *tmdbClient) params() url.Values {
	v := url.Values{}
	v.Set("api_key", c.apiKey)
	if c.language != "" {
		v.Set("language", c.language)
	}
	return v
}

func (c *tmdbClient) getRaw(ctx context.Context, endpoint, path string, params url.Values, extra string) ([]byte, error) {
	return fetch(ctx, c.httpClient, providerTMDB, endpoint, buildURL(c.baseURL, path, params, extra))
}

func (c *tmdbClient) get(ctx context.Context, endpoint, path string, params url.Values, out any) error {
	body, err := c.getRaw(ctx, endpoint, path, params, "")
	if err != nil {
		return err
	}
	return decodeJSON(providerTMDB, endpoint, body, out)
}

func (c *tmdbClient) genres(ctx context.Context, format models.MediaFormat) ([]models.Genre, error) {
	var payload struct {
		Genres []models.Genre `json:"genres"`
	}
	if err := c.get(ctx, "genres", fmt.Sprintf("/genre/%s/list", format), c.params(), &payload); err != nil {
		return nil, err
	}
	if payload.Genres == nil {
		payload.Genres = []models.Genre{}
	}
	return payload.Genres, nil
}

func (c *tmdbClient) search(ctx context.Context, format models.MediaFormat, query string, page int) (*tmdbPage, error) {
	params := c.params()
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	var out tmdbPage
	if err := c.get(ctx, "search", "/search/"+format.String(), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *tmdbClient) trending(ctx context.Context, format models.MediaFormat, page int) (*tmdbPage, error) {
	params := c.params()
	params.Set("page", strconv.Itoa(page))
	var out tmdbPage
	if err := c.get(ctx, "trending", fmt.Sprintf("/trending/%s/day", format), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// discoverParams applies the filter rules to a base parameter set.
func discoverParams(params url.Values, format models.MediaFormat, filters models.DiscoverFilters, page int) url.Values {
	params.Set("page", strconv.Itoa(page))
	if len(filters.Genres) > 0 {
		ids := make([]string, len(filters.Genres))
		for i, id := range filters.Genres {
			ids[i] = strconv.FormatInt(id, 10)
		}
		params.Set("with_genres", strings.Join(ids, ","))
	}
	if filters.MinRating != nil {
		params.Set("vote_average.gte", strconv.FormatFloat(*filters.MinRating, 'f', -1, 64))
	}
	field := format.ReleaseDateField()
	if filters.FromYear != nil {
		params.Set(field+".gte", fmt.Sprintf("%d-01-01", *filters.FromYear))
	}
	if filters.ToYear != nil {
		params.Set(field+".lte", fmt.Sprintf("%d-12-31", *filters.ToYear))
	}
	return params
}

// discoverPath routes an empty or "discover" tab to /discover and any TMDB
// list tab to /{format}/{tab}.
func discoverPath(format models.MediaFormat, tab string) (string, error) {
	tab = strings.TrimSpace(tab)
	if tab == "" || tab == tabDiscover {
		return "/discover/" + format.String(), nil
	}
	if !IsListTab(tab) {
		return "", fmt.Errorf("%w: unknown tab %q", models.ErrInvalidQuery, tab)
	}
	return "/" + format.String() + "/" + tab, nil
}

func (c *tmdbClient) discover(ctx context.Context, format models.MediaFormat, tab string, filters models.DiscoverFilters, page int) (*tmdbPage, error) {
	path, err := discoverPath(format, tab)
	if err != nil {
		return nil, err
	}
	params := discoverParams(c.params(), format, filters, page)
	body, err := c.getRaw(ctx, "discover", path, params, filters.ExtraParams)
	if err != nil {
		return nil, err
	}
	var out tmdbPage
	if err := decodeJSON(providerTMDB, "discover", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *tmdbClient) externalIDs(ctx context.Context, format models.MediaFormat, id int64) (*models.ExternalIDs, error) {
	var out models.ExternalIDs
	if err := c.get(ctx, "external_ids", fmt.Sprintf("/%s/%d/external_ids", format, id), c.params(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *tmdbClient) rawDetails(ctx context.Context, format models.MediaFormat, id int64) (json.RawMessage, error) {
	body, err := c.getRaw(ctx, "details", fmt.Sprintf("/%s/%d", format, id), c.params(), "")
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, &UpstreamError{Provider: providerTMDB, Endpoint: "details", Kind: KindMalformed, Err: fmt.Errorf("response is not JSON")}
	}
	return json.RawMessage(body), nil
}

func (c *tmdbClient) details(ctx context.Context, format models.MediaFormat, id int64) (models.Fields, error) {
	var out models.Fields
	if err := c.get(ctx, "details", fmt.Sprintf("/%s/%d", format, id), c.params(), &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, &UpstreamError{Provider: providerTMDB, Endpoint: "details", Kind: KindMalformed, Err: fmt.Errorf("empty detail object")}
	}
	return out, nil
}

func (c *tmdbClient) credits(ctx context.Context, format models.MediaFormat, id int64) (*models.Credits, error) {
	var out models.Credits
	if err := c.get(ctx, "credits", fmt.Sprintf("/%s/%d/credits", format, id), c.params(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// keywords reads the format's keyword field: movies use "keywords", shows "results".
func (c *tmdbClient) keywords(ctx context.Context, format models.MediaFormat, id int64) ([]models.Keyword, error) {
	var payload struct {
		Keywords []models.Keyword `json:"keywords"`
		Results  []models.Keyword `json:"results"`
	}
	if err := c.get(ctx, "keywords", fmt.Sprintf("/%s/%d/keywords", format, id), c.params(), &payload); err != nil {
		return nil, err
	}
	if format == models.FormatTVShow {
		return payload.Results, nil
	}
	return payload.Keywords, nil
}

func (c *tmdbClient) videos(ctx context.Context, format models.MediaFormat, id int64) ([]models.Video, error) {
	var payload struct {
		Results []models.Video `json:"results"`
	}
	if err := c.get(ctx, "videos", fmt.Sprintf("/%s/%d/videos", format, id), c.params(), &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

func (c *tmdbClient) recommendations(ctx context.Context, format models.MediaFormat, id int64) (*tmdbPage, error) {
	var out tmdbPage
	if err := c.get(ctx, "recommendations", fmt.Sprintf("/%s/%d/recommendations", format, id), c.params(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
