package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"loandesk/internal/domain"
	"loandesk/internal/metrics"
	"loandesk/internal/port"
)

// StatsService provides the dashboard aggregate statistics.
type StatsService interface {
	GetStats(ctx context.Context) (*domain.Stats, error)
}

type statsService struct {
	statsRepo port.StatsRepository
	cache     port.StatsCache
	ttl       time.Duration
	log       *zap.Logger
}

// NewStatsService creates a new StatsService. When cache is non-nil every fresh result
// is stored and served back, marked stale, if the store query fails.
func NewStatsService(statsRepo port.StatsRepository, cache port.StatsCache, ttl time.Duration, log *zap.Logger) StatsService {
	if log == nil {
		log = zap.NewNop()
	}
	return &statsService{statsRepo: statsRepo, cache: cache, ttl: ttl, log: log}
}

func (s *statsService) GetStats(ctx context.Context) (*domain.Stats, error) {
	stats, err := s.statsRepo.GetStats(ctx)
	if err == nil {
		stats.GeneratedAt = time.Now().UTC()
		if s.cache != nil {
			if cerr := s.cache.Set(ctx, stats, s.ttl); cerr != nil {
				s.log.Warn("failed to cache stats", zap.Error(cerr))
			}
		}
		return stats, nil
	}

	if s.cache == nil {
		return nil, err
	}
	cached, cerr := s.cache.Get(ctx)
	if cerr != nil {
		s.log.Error("stats query failed and no cached copy is available",
			zap.Error(err), zap.NamedError("cache_error", cerr))
		return nil, err
	}
	s.log.Warn("serving cached stats after query failure", zap.Error(err))
	metrics.StatsFallbacks.Inc()
	cached.Stale = true
	return cached, nil
}
