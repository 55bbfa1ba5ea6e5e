// Package listings caches the IPO listing endpoints, keeps a search index
// over them and refreshes both on a schedule.
package listings

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/bobmcallan/iposhala-portal/internal/common"
	"github.com/bobmcallan/iposhala-portal/internal/models"
)

// Source is the backend the listings are read from. *client.Client satisfies it.
type Source interface {
	ClosedIPOs(ctx context.Context, ipoType string) ([]models.IPO, error)
	LiveIPOs(ctx context.Context) ([]models.IPO, error)
	UpcomingIPOs(ctx context.Context) ([]models.IPO, error)
	Stats(ctx context.Context) (*models.Stats, error)
	GMP(ctx context.Context) ([]models.GMPEntry, error)
}

const (
	keyLive     = "live"
	keyUpcoming = "upcoming"
	keyStats    = "stats"
	keyGMP      = "gmp"
	keyClosed   = "closed:"
)

// Service serves listings from a short-TTL cache. Concurrent misses for the
// same key share one backend call.
type Service struct {
	source  Source
	cache   *gocache.Cache
	group   singleflight.Group
	index   *Index
	timeout time.Duration
	logger  *common.Logger
}

// NewService creates a listing service. ttl bounds how stale a listing may be;
// timeout bounds each backend call made on behalf of waiting requests.
func NewService(source Source, ttl, timeout time.Duration, logger *common.Logger) (*Service, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	index, err := NewIndex()
	if err != nil {
		return nil, err
	}
	return &Service{
		source:  source,
		cache:   gocache.New(ttl, 2*ttl),
		index:   index,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// load returns the cached value for key or runs fn once for all concurrent
// callers. The backend call is detached from the first caller's cancellation
// so one aborted request cannot fail the others.
func load[T any](ctx context.Context, s *Service, key string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := s.cache.Get(key); ok {
		return v.(T), nil
	}

	ch := s.group.DoChan(key, func() (any, error) {
		if v, ok := s.cache.Get(key); ok {
			return v, nil
		}
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		start := time.Now()
		v, err := fn(callCtx)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, v, gocache.DefaultExpiration)
		s.logger.Debug().Str("key", key).Int64("duration_ms", time.Since(start).Milliseconds()).Msg("listing loaded")
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// Closed returns closed issues, optionally filtered to "sme" or "main".
func (s *Service) Closed(ctx context.Context, ipoType string) ([]models.IPO, error) {
	ipoType = strings.ToLower(strings.TrimSpace(ipoType))
	return load(ctx, s, keyClosed+ipoType, func(ctx context.Context) ([]models.IPO, error) {
		return s.source.ClosedIPOs(ctx, ipoType)
	})
}

// Live returns issues open for subscription.
func (s *Service) Live(ctx context.Context) ([]models.IPO, error) {
	return load(ctx, s, keyLive, s.source.LiveIPOs)
}

// Upcoming returns announced issues.
func (s *Service) Upcoming(ctx context.Context) ([]models.IPO, error) {
	return load(ctx, s, keyUpcoming, s.source.UpcomingIPOs)
}

// Stats returns the home page counters.
func (s *Service) Stats(ctx context.Context) (*models.Stats, error) {
	return load(ctx, s, keyStats, s.source.Stats)
}

// GMP returns the grey market premium table.
func (s *Service) GMP(ctx context.Context) ([]models.GMPEntry, error) {
	return load(ctx, s, keyGMP, s.source.GMP)
}

// Search queries the listing index.
func (s *Service) Search(query string, limit int) ([]Hit, error) {
	return s.index.Search(query, limit)
}

// Refresh reloads every listing from the backend and rebuilds the search
// index. Cached values are replaced only when their reload succeeds.
func (s *Service) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var closed, live, upcoming []models.IPO
	var gmp []models.GMPEntry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		closed, err = s.source.ClosedIPOs(gctx, "")
		return wrap("closed", err)
	})
	g.Go(func() (err error) {
		live, err = s.source.LiveIPOs(gctx)
		return wrap("live", err)
	})
	g.Go(func() (err error) {
		upcoming, err = s.source.UpcomingIPOs(gctx)
		return wrap("upcoming", err)
	})
	g.Go(func() (err error) {
		gmp, err = s.source.GMP(gctx)
		return wrap("gmp", err)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.cache.Set(keyClosed, closed, gocache.DefaultExpiration)
	s.cache.Set(keyLive, live, gocache.DefaultExpiration)
	s.cache.Set(keyUpcoming, upcoming, gocache.DefaultExpiration)
	s.cache.Set(keyGMP, gmp, gocache.DefaultExpiration)
	// Type filtered lists and stats are reloaded on demand.
	s.cache.Delete(keyClosed + models.SecurityTypeSME)
	s.cache.Delete(keyClosed + models.SecurityTypeMainboard)
	s.cache.Delete(keyStats)

	docs := Documents(closed, live, upcoming, gmp)
	if err := s.index.Rebuild(docs); err != nil {
		return fmt.Errorf("failed to rebuild search index: %w", err)
	}
	s.logger.Info().Int("documents", len(docs)).Msg("listings refreshed")
	return nil
}

// Close releases the search index.
func (s *Service) Close() error {
	return s.index.Close()
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("failed to refresh %s listings: %w", what, err)
	}
	return nil
}
