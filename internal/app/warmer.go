package app

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// CacheWarmer prefetches what bookings look up most: the package listing and
// the details of every destination present in the hotel catalog.
type CacheWarmer struct {
	hotels  *HotelMatcher
	dest    *DestinationResolver
	queries *QueryService
	workers int64
}

func NewCacheWarmer(h *HotelMatcher, d *DestinationResolver, q *QueryService, workers int) *CacheWarmer {
	if workers <= 0 {
		workers = 1
	}
	return &CacheWarmer{hotels: h, dest: d, queries: q, workers: int64(workers)}
}

type WarmReport struct {
	Packages     int
	Destinations int
	Failed       int
}

func (w *CacheWarmer) Warm(ctx context.Context) (WarmReport, error) {
	var rep WarmReport
	if w.queries != nil {
		ls, err := w.queries.Listings(ctx, "")
		if err != nil {
			log.Warn().Err(err).Msg("package listing not warmed")
			rep.Failed++
		}
		rep.Packages = len(ls)
	}

	sem := semaphore.NewWeighted(w.workers)
	var wg sync.WaitGroup
	var ok, failed int64

	for _, id := range w.hotels.AvailableDestinations(ctx) {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return rep, err
		}
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			defer sem.Release(1)

			if _, err := w.dest.Destination(ctx, id); err != nil {
				atomic.AddInt64(&failed, 1)
				log.Warn().Str("destination_id", id).Err(err).Msg("warm failed")
				return
			}
			atomic.AddInt64(&ok, 1)
			log.Debug().Str("destination_id", id).Msg("warm ok")
		}(id)
	}
	wg.Wait()

	rep.Destinations = int(ok)
	rep.Failed += int(failed)
	return rep, nil
}
