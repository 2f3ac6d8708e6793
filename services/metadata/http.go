package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"reelmerge/internal/metrics"
)

const maxErrorBodyLen = 200

// fetch issues one GET and returns the body of a 2xx response. Transport errors
// are stripped of the request URL so API keys never reach logs or clients.
func fetch(ctx context.Context, client *http.Client, provider, endpoint, rawURL string) ([]byte, error) {
	start := time.Now()
	body, err := doFetch(ctx, client, provider, endpoint, rawURL)
	outcome := "success"
	if err != nil {
		outcome = string(KindUnavailable)
		var uerr *UpstreamError
		if errors.As(err, &uerr) {
			outcome = string(uerr.Kind)
		}
	}
	metrics.RecordUpstream(provider, endpoint, outcome, time.Since(start))
	return body, err
}

func doFetch(ctx context.Context, client *http.Client, provider, endpoint, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &UpstreamError{Provider: provider, Endpoint: endpoint, Kind: KindUnavailable, Err: fmt.Errorf("create request: %w", redactURL(err))}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &UpstreamError{Provider: provider, Endpoint: endpoint, Kind: KindUnavailable, Err: redactURL(err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Provider: provider, Endpoint: endpoint, Kind: KindUnavailable, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var detail error
		if msg := providerMessage(body); msg != "" {
			detail = errors.New(msg)
		}
		return nil, &UpstreamError{
			Provider:   provider,
			Endpoint:   endpoint,
			Kind:       kindForStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Err:        detail,
		}
	}
	return body, nil
}

// decodeJSON unmarshals a provider body, reporting failures as malformed.
func decodeJSON(provider, endpoint string, body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return &UpstreamError{Provider: provider, Endpoint: endpoint, Kind: KindMalformed, Err: err}
	}
	return nil
}

// providerMessage extracts the human-readable error both providers put in
// their error bodies.
func providerMessage(body []byte) string {
	var payload struct {
		StatusMessage string `json:"status_message"`
		Error         string `json:"Error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.StatusMessage != "" {
			return payload.StatusMessage
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBodyLen {
		msg = msg[:maxErrorBodyLen]
	}
	return msg
}

func redactURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s request: %w", strings.ToLower(uerr.Op), uerr.Err)
	}
	return err
}

// buildURL joins base, path and params. extra is appended verbatim.
func buildURL(base, path string, params url.Values, extra string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	b.WriteString(path)
	encoded := params.Encode()
	extra = strings.TrimLeft(strings.TrimSpace(extra), "?&")
	if encoded != "" || extra != "" {
		b.WriteByte('?')
		b.WriteString(encoded)
		if extra != "" {
			if encoded != "" {
				b.WriteByte('&')
			}
			b.WriteString(extra)
		}
	}
	return b.String()
}
