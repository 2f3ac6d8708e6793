package metadata

import (
	"context"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/sourcegraph/conc/pool"

	"reelmerge/models"
)

const (
	castLimit = 10

	trailerSite = "YouTube"
	trailerType = "Trailer"

	jobDirector          = "Director"
	jobExecutiveProducer = "Executive Producer"
	departmentWriting    = "Writing"
)

// Details builds the composite record for one title. The detail, credits,
// keywords, videos and recommendations calls run concurrently; the detail is
// enriched like a list item and every recommendation is enriched as well.
// Any failed branch cancels the rest and fails the request.
func (s *Service) Details(ctx context.Context, format models.MediaFormat, id int64) (*models.MediaDetail, error) {
	start := time.Now()

	var (
		summary         *models.MediaSummary
		credits         *models.Credits
		keywords        []models.Keyword
		videos          []models.Video
		recommendations []models.MediaSummary
	)

	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError().WithFirstError()

	p.Go(func(ctx context.Context) error {
		fields, err := s.tmdb.details(ctx, format, id)
		if err != nil {
			return err
		}
		if !fields.Has("id") {
			fields = fields.Clone()
			fields["id"] = json.RawMessage(strconv.FormatInt(id, 10))
		}
		item, err := s.enrichItem(ctx, format, fields)
		if err != nil {
			return err
		}
		summary = item
		return nil
	})

	p.Go(func(ctx context.Context) error {
		c, err := s.tmdb.credits(ctx, format, id)
		if err != nil {
			return err
		}
		credits = c
		return nil
	})

	p.Go(func(ctx context.Context) error {
		k, err := s.tmdb.keywords(ctx, format, id)
		if err != nil {
			return err
		}
		keywords = k
		return nil
	})

	p.Go(func(ctx context.Context) error {
		v, err := s.tmdb.videos(ctx, format, id)
		if err != nil {
			return err
		}
		videos = v
		return nil
	})

	p.Go(func(ctx context.Context) error {
		page, err := s.tmdb.recommendations(ctx, format, id)
		if err != nil {
			return err
		}
		recs, err := s.enrichAll(ctx, format, page.Results)
		if err != nil {
			return err
		}
		recommendations = recs
		return nil
	})

	if err := p.Wait(); err != nil {
		return nil, err
	}

	detail := &models.MediaDetail{
		MediaSummary:    *summary,
		Casts:           topCast(credits.Cast, castLimit),
		Video:           firstTrailer(videos),
		Keywords:        keywords,
		Recommendations: recommendations,
	}
	if format == models.FormatTVShow {
		detail.Producers = crewByJob(credits.Crew, jobExecutiveProducer)
	} else {
		detail.Directors = crewByJob(credits.Crew, jobDirector)
		detail.Writers = crewByDepartment(credits.Crew, departmentWriting)
	}

	logFor(ctx).Debug().
		Str("format", format.String()).
		Int64("id", id).
		Int("recommendations", len(recommendations)).
		Dur("elapsed", time.Since(start)).
		Msg("details aggregated")

	return detail, nil
}

// topCast keeps the first n entries in provider order.
func topCast(cast []models.CastMember, n int) []models.CastMember {
	if len(cast) > n {
		cast = cast[:n]
	}
	out := make([]models.CastMember, len(cast))
	copy(out, cast)
	return out
}

// firstTrailer returns the first YouTube video typed "Trailer", or nil.
func firstTrailer(videos []models.Video) models.Video {
	for _, v := range videos {
		if v.Site() == trailerSite && v.Type() == trailerType {
			return v
		}
	}
	return nil
}

func crewByJob(crew []models.CrewMember, job string) []models.CrewMember {
	out := []models.CrewMember{}
	for _, c := range crew {
		if c.Job() == job {
			out = append(out, c)
		}
	}
	return out
}

// crewByDepartment keeps every entry of the department. A person credited for
// several jobs appears once per job.
func crewByDepartment(crew []models.CrewMember, department string) []models.CrewMember {
	out := []models.CrewMember{}
	for _, c := range crew {
		if c.Department() == department {
			out = append(out, c)
		}
	}
	return out
}
