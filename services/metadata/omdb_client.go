package metadata

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"reelmerge/models"
)

const (
	providerOMDB = "omdb"

	rottenTomatoesSource = "Rotten Tomatoes"
)

type omdbClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func newOMDBClient(apiKey, baseURL string, httpClient *http.Client) *omdbClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &omdbClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type omdbRating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

type omdbTitle struct {
	Response   string       `json:"Response"`
	Error      string       `json:"Error"`
	IMDBRating string       `json:"imdbRating"`
	IMDBVotes  string       `json:"imdbVotes"`
	Metascore  string       `json:"Metascore"`
	Ratings    []omdbRating `json:"Ratings"`
}

// ratings looks one title up by IMDb id. A "Response": "False" body is not an
// error: the title is unknown to OMDb and every rating stays absent.
func (c *omdbClient) ratings(ctx context.Context, imdbID string) (*models.Ratings, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("i", imdbID)

	body, err := fetch(ctx, c.httpClient, providerOMDB, "title", buildURL(c.baseURL, "/", params, ""))
	if err != nil {
		return nil, err
	}
	var title omdbTitle
	if err := decodeJSON(providerOMDB, "title", body, &title); err != nil {
		return nil, err
	}
	if strings.EqualFold(title.Response, "False") {
		logFor(ctx).Debug().Str("imdb_id", imdbID).Str("reason", title.Error).Msg("omdb has no record")
		return &models.Ratings{}, nil
	}
	return &models.Ratings{
		IMDBRating: title.IMDBRating,
		IMDBVotes:  title.IMDBVotes,
		MetaScore:  title.Metascore,
		RTScore:    rottenTomatoesScore(title.Ratings),
	}, nil
}

// rottenTomatoesScore returns the value of the first entry whose source is
// exactly "Rotten Tomatoes", or "".
func rottenTomatoesScore(ratings []omdbRating) string {
	for _, r := range ratings {
		if r.Source == rottenTomatoesSource {
			return r.Value
		}
	}
	return ""
}
