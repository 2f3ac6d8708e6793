package metadata

import (
	"context"
	"fmt"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"reelmerge/internal/metrics"
	"reelmerge/models"
)

// posterURL turns a relative TMDB poster path into an absolute image URL.
func (s *Service) posterURL(path string) string {
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.imageBaseURL + "/" + s.posterSize + path
}

// enrichItem upgrades one provider record: external ids, absolute poster URL,
// OMDb ratings when an IMDb id was resolved, and the format tag. The returned
// item is never nil; on error it carries whatever enrichment completed.
func (s *Service) enrichItem(ctx context.Context, format models.MediaFormat, fields models.Fields) (*models.MediaSummary, error) {
	item := models.NewMediaSummary(fields, format)
	item.PosterURL = s.posterURL(item.PosterPath())

	id := item.ID()
	if id <= 0 {
		return item, &UpstreamError{Provider: providerTMDB, Endpoint: "external_ids", Kind: KindMalformed, Err: fmt.Errorf("item has no id")}
	}

	ids, err := s.tmdb.externalIDs(ctx, format, id)
	if err != nil {
		return item, err
	}
	item.ExternalIDs = *ids

	imdbID := item.ExternalIDs.IMDBID
	if imdbID == "" {
		return item, nil
	}
	ratings, err := s.omdb.ratings(ctx, imdbID)
	if err != nil {
		return item, err
	}
	item.Ratings = *ratings
	return item, nil
}

// enrichAll enriches a page of records concurrently, preserving order. By
// default the first failure cancels the siblings and fails the batch; with
// isolateItemFailures the failed item is kept with partial enrichment.
func (s *Service) enrichAll(ctx context.Context, format models.MediaFormat, records []models.Fields) ([]models.MediaSummary, error) {
	out := make([]models.MediaSummary, len(records))
	if len(records) == 0 {
		return out, nil
	}

	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError().WithFirstError()
	for i, fields := range records {
		p.Go(func(ctx context.Context) error {
			item, err := s.enrichItem(ctx, format, fields)
			if err != nil {
				if !s.isolateItemFailures || ctx.Err() != nil {
					return err
				}
				logFor(ctx).Warn().Err(err).
					Int64("id", item.ID()).
					Str("format", format.String()).
					Msg("enrichment failed, returning item unenriched")
				metrics.EnrichmentFallbacksTotal.WithLabelValues(format.String()).Inc()
			}
			out[i] = *item
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
