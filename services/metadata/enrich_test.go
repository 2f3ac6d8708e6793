package metadata

import (
	"context"
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelmerge/models"
)

func record(t *testing.T, raw string) models.Fields {
	t.Helper()
	var f models.Fields
	require.NoError(t, json.Unmarshal([]byte(raw), &f))
	return f
}

func marshalMap(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestPosterURL(t *testing.T) {
	svc := newTestService(t, newFakeProviders(), false)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg", svc.posterURL("/abc.jpg"))
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg", svc.posterURL("abc.jpg"))
	assert.Equal(t, "", svc.posterURL(""))
}

func TestEnrichItemWithRatings(t *testing.T) {
	fake := newFakeProviders()
	fake.onTMDB("/movie/550/external_ids", `{"id":550,"imdb_id":"tt0137523","wikidata_id":"Q190050","facebook_id":"FightClub"}`)
	fake.onOMDB("tt0137523", `{"Response":"True","imdbRating":"8.8","imdbVotes":"2,300,000","Metascore":"66","Ratings":[{"Source":"Rotten Tomatoes","Value":"79%"}]}`)
	svc := newTestService(t, fake, false)

	src := record(t, `{"id":550,"title":"Fight Club","poster_path":"/pB8.jpg","vote_average":8.4}`)
	item, err := svc.enrichItem(context.Background(), models.FormatMovie, src)
	require.NoError(t, err)

	out := marshalMap(t, item)
	assert.Equal(t, "Fight Club", out["title"])
	assert.Equal(t, 8.4, out["vote_average"])
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/pB8.jpg", out["poster_path"])
	assert.Equal(t, "tt0137523", out["imdb_id"])
	assert.Equal(t, "Q190050", out["wikidata_id"])
	assert.Equal(t, "8.8", out["imdb_rating"])
	assert.Equal(t, "2,300,000", out["imdb_votes"])
	assert.Equal(t, "66", out["meta_score"])
	assert.Equal(t, "79%", out["rt_score"])
	assert.Equal(t, "movie", out["format"])

	// the caller's record is left untouched
	assert.Equal(t, "/pB8.jpg", src.String("poster_path"))
}

func TestEnrichItemWithoutIMDBIDSkipsOMDB(t *testing.T) {
	fake := newFakeProviders()
	fake.onTMDB("/tv/1399/external_ids", `{"id":1399,"imdb_id":null,"tvdb_id":121361}`)
	svc := newTestService(t, fake, false)

	item, err := svc.enrichItem(context.Background(), models.FormatTVShow, record(t, `{"id":1399,"name":"Game of Thrones"}`))
	require.NoError(t, err)
	assert.Empty(t, fake.omdbLookups())

	out := marshalMap(t, item)
	for _, key := range []string{"imdb_id", "imdb_rating", "imdb_votes", "meta_score", "rt_score", "poster_path"} {
		assert.NotContains(t, out, key)
	}
	assert.Equal(t, float64(121361), out["tvdb_id"])
	assert.Equal(t, "tv", out["format"])
}

func TestEnrichItemNullPosterStaysNull(t *testing.T) {
	fake := newFakeProviders()
	fake.onTMDB("/movie/7/external_ids", `{"id":7}`)
	svc := newTestService(t, fake, false)

	item, err := svc.enrichItem(context.Background(), models.FormatMovie, record(t, `{"id":7,"poster_path":null}`))
	require.NoError(t, err)
	out := marshalMap(t, item)
	assert.Contains(t, out, "poster_path")
	assert.Nil(t, out["poster_path"])
}

func TestEnrichItemMissingID(t *testing.T) {
	svc := newTestService(t, newFakeProviders(), false)
	_, err := svc.enrichItem(context.Background(), models.FormatMovie, record(t, `{"title":"orphan"}`))
	assert.ErrorIs(t, err, ErrUpstreamMalformed)
}

func TestEnrichAllPreservesOrder(t *testing.T) {
	fake := newFakeProviders()
	ids := []string{"11", "12", "13", "14", "15"}
	var records []models.Fields
	for _, id := range ids {
		fake.onTMDB("/movie/"+id+"/external_ids", `{"imdb_id":"tt`+id+`"}`)
		fake.onOMDB("tt"+id, `{"Response":"True","imdbRating":"`+id+`"}`)
		records = append(records, record(t, `{"id":`+id+`}`))
	}
	svc := newTestService(t, fake, false)

	items, err := svc.enrichAll(context.Background(), models.FormatMovie, records)
	require.NoError(t, err)
	require.Len(t, items, len(ids))
	for i, item := range items {
		assert.Equal(t, "tt"+ids[i], item.ExternalIDs.IMDBID)
		assert.Equal(t, ids[i], item.Ratings.IMDBRating)
	}
}

func TestEnrichAllEmpty(t *testing.T) {
	svc := newTestService(t, newFakeProviders(), false)
	items, err := svc.enrichAll(context.Background(), models.FormatMovie, nil)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestEnrichAllFailsBatchOnItemError(t *testing.T) {
	fake := newFakeProviders()
	fake.onTMDB("/movie/1/external_ids", `{"imdb_id":"tt1"}`)
	fake.onOMDB("tt1", `{"Response":"True"}`)
	fake.onTMDBStatus("/movie/2/external_ids", http.StatusInternalServerError, `{"status_message":"boom"}`)
	svc := newTestService(t, fake, false)

	items, err := svc.enrichAll(context.Background(), models.FormatMovie, []models.Fields{
		record(t, `{"id":1}`),
		record(t, `{"id":2}`),
	})
	require.Error(t, err)
	assert.Nil(t, items)
	assert.Contains(t, err.Error(), "boom")
}

func TestEnrichAllOMDBFailureFailsBatch(t *testing.T) {
	fake := newFakeProviders()
	fake.onTMDB("/movie/1/external_ids", `{"imdb_id":"tt1"}`)
	fake.omdb["tt1"] = fakeResponse{err: errDialFailed}
	svc := newTestService(t, fake, false)

	_, err := svc.enrichAll(context.Background(), models.FormatMovie, []models.Fields{record(t, `{"id":1}`)})
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestEnrichAllIsolatedFailureKeepsItem(t *testing.T) {
	fake := newFakeProviders()
	fake.onTMDB("/movie/1/external_ids", `{"imdb_id":"tt1"}`)
	fake.onOMDB("tt1", `{"Response":"True","imdbRating":"7.0"}`)
	fake.onTMDBStatus("/movie/2/external_ids", http.StatusInternalServerError, `{}`)
	svc := newTestService(t, fake, true)

	items, err := svc.enrichAll(context.Background(), models.FormatMovie, []models.Fields{
		record(t, `{"id":1,"poster_path":"/one.jpg"}`),
		record(t, `{"id":2,"poster_path":"/two.jpg"}`),
	})
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "7.0", items[0].Ratings.IMDBRating)
	assert.Equal(t, int64(2), items[1].ID())
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/two.jpg", items[1].PosterURL)
	assert.True(t, items[1].Ratings.IsZero())
	assert.Empty(t, items[1].ExternalIDs.IMDBID)
}
