package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/antigravity-ar/benchmark/internal/cache"
)

// CacheSweepJob evicts expired entries from the analysis caches so memory is
// reclaimed between request bursts.
type CacheSweepJob struct {
	caches map[string]*cache.Cache
	log    zerolog.Logger
}

// NewCacheSweepJob creates a sweep job over the named caches.
func NewCacheSweepJob(caches map[string]*cache.Cache, log zerolog.Logger) *CacheSweepJob {
	return &CacheSweepJob{
		caches: caches,
		log:    log.With().Str("job", "cache_sweep").Logger(),
	}
}

// Name returns the job name
func (j *CacheSweepJob) Name() string {
	return "cache_sweep"
}

// Run removes expired entries from every registered cache.
func (j *CacheSweepJob) Run() error {
	for name, c := range j.caches {
		removed := c.DeleteExpired()
		if removed > 0 {
			j.log.Debug().
				Str("cache", name).
				Int("removed", removed).
				Msg("Expired entries evicted")
		}
	}
	return nil
}
