package metadata

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"reelmerge/config"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

const (
	testTMDBBase  = "http://tmdb.test/3"
	testOMDBBase  = "http://omdb.test"
	testImageBase = "https://image.tmdb.org/t/p"
)

type fakeResponse struct {
	status int
	body   string
	err    error
}

// fakeProviders routes requests by host and path and records every call.
type fakeProviders struct {
	mu        sync.Mutex
	tmdb      map[string]fakeResponse
	omdb      map[string]fakeResponse // keyed by IMDb id
	requests  []*http.Request
	omdbCalls []string
}

func newFakeProviders() *fakeProviders {
	return &fakeProviders{
		tmdb: map[string]fakeResponse{},
		omdb: map[string]fakeResponse{},
	}
}

func (f *fakeProviders) onTMDB(path, body string) {
	f.tmdb[path] = fakeResponse{status: http.StatusOK, body: body}
}

func (f *fakeProviders) onTMDBStatus(path string, status int, body string) {
	f.tmdb[path] = fakeResponse{status: status, body: body}
}

func (f *fakeProviders) onOMDB(imdbID, body string) {
	f.omdb[imdbID] = fakeResponse{status: http.StatusOK, body: body}
}

func (f *fakeProviders) transport(t *testing.T) http.RoundTripper {
	return roundTripFunc(func(req *http.Request) (*http.Response, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.requests = append(f.requests, req)

		var resp fakeResponse
		var ok bool
		switch req.URL.Host {
		case "tmdb.test":
			resp, ok = f.tmdb[strings.TrimPrefix(req.URL.Path, "/3")]
		case "omdb.test":
			id := req.URL.Query().Get("i")
			f.omdbCalls = append(f.omdbCalls, id)
			resp, ok = f.omdb[id]
		}
		if !ok {
			t.Logf("unhandled request: %s", req.URL.String())
			resp = fakeResponse{status: http.StatusNotFound, body: `{"status_message":"not found"}`}
		}
		if resp.err != nil {
			return nil, resp.err
		}
		return &http.Response{
			StatusCode: resp.status,
			Body:       io.NopCloser(bytes.NewBufferString(resp.body)),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	})
}

// paths returns the TMDB paths requested so far.
func (f *fakeProviders) paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, r := range f.requests {
		if r.URL.Host == "tmdb.test" {
			out = append(out, strings.TrimPrefix(r.URL.Path, "/3"))
		}
	}
	return out
}

func (f *fakeProviders) lastRequest(path string) *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		r := f.requests[i]
		if r.URL.Host == "tmdb.test" && strings.TrimPrefix(r.URL.Path, "/3") == path {
			return r
		}
	}
	return nil
}

func (f *fakeProviders) omdbLookups() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.omdbCalls...)
}

func newTestService(t *testing.T, fake *fakeProviders, isolate bool) *Service {
	t.Helper()
	httpc := &http.Client{Transport: fake.transport(t)}
	return &Service{
		tmdb:                newTMDBClient("tmdb-key", testTMDBBase, "", httpc),
		omdb:                newOMDBClient("omdb-key", testOMDBBase, httpc),
		imageBaseURL:        testImageBase,
		posterSize:          config.DefaultPosterSize,
		isolateItemFailures: isolate,
	}
}

var errDialFailed = errors.New("dial tcp: connection refused")
