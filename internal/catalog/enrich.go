package catalog

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentTracks bounds parallel enrichment
const maxConcurrentTracks = 4

// Enrich looks up the genre and audio features of every summary.
//
// The result has one record per summary, in the same order. Lookup failures
// never drop a record; they degrade its fields to sentinel values and are
// kept on the record. With concurrency enabled, tracks are enriched in
// parallel but the order is unchanged.
func (c *Client) Enrich(ctx context.Context, summaries []Summary) []Record {
	records := make([]Record, len(summaries))

	if !c.concurrent {
		for i, s := range summaries {
			records[i] = c.enrichOne(ctx, s)
		}
		return records
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentTracks)

	for i, s := range summaries {
		i, s := i, s
		g.Go(func() error {
			records[i] = c.enrichOne(ctx, s)
			return nil
		})
	}

	// Workers never fail; lookup errors live on the records
	_ = g.Wait()

	return records
}

// enrichOne runs both lookups for a single track
func (c *Client) enrichOne(ctx context.Context, s Summary) Record {
	record := Record{Summary: s}

	record.Genre, record.GenreErr = c.Genre(ctx, s.ArtistID)
	if record.GenreErr != nil {
		c.logger.Debug().Err(record.GenreErr).Str("track", s.Name).Msg("Genre lookup failed")
	}

	record.Features, record.FeaturesErr = c.Features(ctx, s.ID)
	if record.FeaturesErr != nil {
		c.logger.Debug().Err(record.FeaturesErr).Str("track", s.Name).Msg("Audio feature lookup failed")
	}

	return record
}
