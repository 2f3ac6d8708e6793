package models

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// MediaFormat selects the TMDB endpoint family and the field mappings that
// differ between movies and TV shows.
type MediaFormat int

const (
	FormatMovie MediaFormat = iota
	FormatTVShow
)

// String returns the TMDB path segment for the format ("movie" | "tv").
func (f MediaFormat) String() string {
	if f == FormatTVShow {
		return "tv"
	}
	return "movie"
}

func (f MediaFormat) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// ParseMediaFormat accepts the wire values used by the frontend. An empty value
// defaults to movie.
func ParseMediaFormat(value string) (MediaFormat, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "movie", "movies":
		return FormatMovie, nil
	case "tv", "tvshow", "show", "shows", "series":
		return FormatTVShow, nil
	default:
		return FormatMovie, fmt.Errorf("%w: unknown format %q", ErrInvalidQuery, value)
	}
}

// ReleaseDateField is the discover filter prefix for the format's date bounds.
func (f MediaFormat) ReleaseDateField() string {
	if f == FormatTVShow {
		return "air_date"
	}
	return "primary_release_date"
}

// Genre is a TMDB genre entry.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ExternalIDs holds the cross-provider identifiers TMDB knows for a title.
type ExternalIDs struct {
	IMDBID      string `json:"imdb_id,omitempty"`
	TVDBID      int64  `json:"tvdb_id,omitempty"`
	FreebaseMID string `json:"freebase_mid,omitempty"`
	FreebaseID  string `json:"freebase_id,omitempty"`
	TVRageID    int64  `json:"tvrage_id,omitempty"`
	WikidataID  string `json:"wikidata_id,omitempty"`
	FacebookID  string `json:"facebook_id,omitempty"`
	InstagramID string `json:"instagram_id,omitempty"`
	TwitterID   string `json:"twitter_id,omitempty"`
}

// Ratings is the bundle looked up from OMDb. Every field is optional.
type Ratings struct {
	IMDBRating string `json:"imdb_rating,omitempty"`
	IMDBVotes  string `json:"imdb_votes,omitempty"`
	MetaScore  string `json:"meta_score,omitempty"`
	RTScore    string `json:"rt_score,omitempty"`
}

// IsZero reports whether no rating field was populated.
func (r Ratings) IsZero() bool {
	return r == Ratings{}
}

// MediaSummary is a provider-native record plus the enrichment this service adds.
// Provider fields are carried verbatim; the named fields overwrite keys of the
// same name when serialised.
type MediaSummary struct {
	Fields      Fields
	ExternalIDs ExternalIDs
	PosterURL   string
	Ratings     Ratings
	Format      MediaFormat
}

// NewMediaSummary wraps a provider record. The fields are cloned so enrichment
// never writes through to the caller's map.
func NewMediaSummary(fields Fields, format MediaFormat) *MediaSummary {
	return &MediaSummary{Fields: fields.Clone(), Format: format}
}

// ID returns the TMDB id of the record.
func (m *MediaSummary) ID() int64 {
	return m.Fields.Int64("id")
}

// PosterPath returns the provider's relative poster path.
func (m *MediaSummary) PosterPath() string {
	return m.Fields.String("poster_path")
}

func (m *MediaSummary) fieldMap() (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(m.Fields)+16)
	for k, v := range m.Fields {
		out[k] = v
	}

	ids := m.ExternalIDs
	if err := putString(out, "imdb_id", ids.IMDBID); err != nil {
		return nil, err
	}
	if err := putInt(out, "tvdb_id", ids.TVDBID); err != nil {
		return nil, err
	}
	if err := putString(out, "freebase_mid", ids.FreebaseMID); err != nil {
		return nil, err
	}
	if err := putString(out, "freebase_id", ids.FreebaseID); err != nil {
		return nil, err
	}
	if err := putInt(out, "tvrage_id", ids.TVRageID); err != nil {
		return nil, err
	}
	if err := putString(out, "wikidata_id", ids.WikidataID); err != nil {
		return nil, err
	}
	if err := putString(out, "facebook_id", ids.FacebookID); err != nil {
		return nil, err
	}
	if err := putString(out, "instagram_id", ids.InstagramID); err != nil {
		return nil, err
	}
	if err := putString(out, "twitter_id", ids.TwitterID); err != nil {
		return nil, err
	}

	if err := putString(out, "poster_path", m.PosterURL); err != nil {
		return nil, err
	}

	if err := putString(out, "imdb_rating", m.Ratings.IMDBRating); err != nil {
		return nil, err
	}
	if err := putString(out, "imdb_votes", m.Ratings.IMDBVotes); err != nil {
		return nil, err
	}
	if err := putString(out, "meta_score", m.Ratings.MetaScore); err != nil {
		return nil, err
	}
	if err := putString(out, "rt_score", m.Ratings.RTScore); err != nil {
		return nil, err
	}

	if err := put(out, "format", m.Format); err != nil {
		return nil, err
	}
	return out, nil
}

// MarshalJSON flattens provider fields and enrichment into one object.
func (m MediaSummary) MarshalJSON() ([]byte, error) {
	out, err := m.fieldMap()
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// CastMember is one entry of a credits cast list, carried as the provider
// sent it.
type CastMember Fields

func (c CastMember) Name() string { return Fields(c).String("name") }
func (c CastMember) Order() int64 { return Fields(c).Int64("order") }

// CrewMember is one entry of a credits crew list, carried as the provider
// sent it.
type CrewMember Fields

func (c CrewMember) Name() string       { return Fields(c).String("name") }
func (c CrewMember) Job() string        { return Fields(c).String("job") }
func (c CrewMember) Department() string { return Fields(c).String("department") }

// Credits is the TMDB credits payload.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Video is one entry of the TMDB videos list, carried as the provider sent it.
type Video Fields

func (v Video) Key() string  { return Fields(v).String("key") }
func (v Video) Site() string { return Fields(v).String("site") }
func (v Video) Type() string { return Fields(v).String("type") }

// Keyword is a TMDB keyword.
type Keyword struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MediaDetail is the composite record returned by the details endpoint.
type MediaDetail struct {
	MediaSummary

	Casts           []CastMember
	Video           Video // nil when no trailer was found
	Keywords        []Keyword
	Recommendations []MediaSummary

	// Movies only.
	Directors []CrewMember
	Writers   []CrewMember

	// TV shows only.
	Producers []CrewMember
}

// MarshalJSON emits the enriched detail fields with the composite lists. Role
// lists are chosen by format: directors and writers for movies, producers for
// shows.
func (d MediaDetail) MarshalJSON() ([]byte, error) {
	out, err := d.MediaSummary.fieldMap()
	if err != nil {
		return nil, err
	}
	if err := put(out, "casts", nonNil(d.Casts)); err != nil {
		return nil, err
	}
	if d.Video != nil {
		if err := put(out, "video", d.Video); err != nil {
			return nil, err
		}
	}
	if err := put(out, "keywords", nonNil(d.Keywords)); err != nil {
		return nil, err
	}
	if err := put(out, "recommendations", nonNil(d.Recommendations)); err != nil {
		return nil, err
	}
	if d.Format == FormatTVShow {
		if err := put(out, "producers", nonNil(d.Producers)); err != nil {
			return nil, err
		}
	} else {
		if err := put(out, "directors", nonNil(d.Directors)); err != nil {
			return nil, err
		}
		if err := put(out, "writers", nonNil(d.Writers)); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

// ListResult is the payload of the list endpoint.
type ListResult struct {
	Data         []MediaSummary `json:"data"`
	TotalResults int64          `json:"total_results"`
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func put(out map[string]json.RawMessage, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	out[key] = raw
	return nil
}

func putString(out map[string]json.RawMessage, key, v string) error {
	if v == "" {
		return nil
	}
	return put(out, key, v)
}

func putInt(out map[string]json.RawMessage, key string, v int64) error {
	if v == 0 {
		return nil
	}
	return put(out, key, v)
}
