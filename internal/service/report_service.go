package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/query-service/internal/auth"
	"github.com/spec-kit/query-service/internal/domain"
	"github.com/spec-kit/query-service/internal/reporting"
	"github.com/spec-kit/query-service/internal/repository"
)

const statusCountsKey = "reports:status_counts"

// ReportCache keeps the status-count projection in redis for a short TTL.
// Writers invalidate it; a missing or unreachable cache degrades to straight
// repository reads.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewReportCache builds a cache around an optional redis client.
func NewReportCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ReportCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ReportCache{client: client, ttl: ttl, logger: logger}
}

func (c *ReportCache) getStatusCounts(ctx context.Context) (map[domain.QueryStatus]int, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, statusCountsKey).Bytes()
	if err != nil {
		return nil, false
	}
	var counts map[domain.QueryStatus]int
	if err := json.Unmarshal(raw, &counts); err != nil {
		return nil, false
	}
	return counts, true
}

func (c *ReportCache) setStatusCounts(ctx context.Context, counts map[domain.QueryStatus]int) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(counts)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, statusCountsKey, raw, c.ttl).Err(); err != nil && c.logger != nil {
		c.logger.Debug("report cache set failed", zap.Error(err))
	}
}

// Invalidate drops the cached projection after a write.
func (c *ReportCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, statusCountsKey).Err(); err != nil && c.logger != nil {
		c.logger.Debug("report cache invalidate failed", zap.Error(err))
	}
}

// ReportService derives aggregate views for support staff. It holds no state
// of its own; every call re-snapshots the repository.
type ReportService struct {
	queries repository.QueryRepository
	cache   *ReportCache
}

// NewReportService constructs the service.
func NewReportService(queries repository.QueryRepository, cache *ReportCache) *ReportService {
	return &ReportService{queries: queries, cache: cache}
}

// StatusCounts tallies the current snapshot by status.
func (s *ReportService) StatusCounts(ctx context.Context, identity domain.Identity) (map[domain.QueryStatus]int, error) {
	if err := auth.Authorize(identity, auth.ActionViewReports, ""); err != nil {
		return nil, err
	}
	if counts, ok := s.cache.getStatusCounts(ctx); ok {
		return counts, nil
	}

	snapshot, err := s.queries.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	counts := reporting.StatusCounts(snapshot)
	s.cache.setStatusCounts(ctx, counts)
	return counts, nil
}

// SubmissionSeries groups the current snapshot by submitted date.
func (s *ReportService) SubmissionSeries(ctx context.Context, identity domain.Identity) ([]reporting.DateCount, error) {
	if err := auth.Authorize(identity, auth.ActionViewReports, ""); err != nil {
		return nil, err
	}
	snapshot, err := s.queries.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return reporting.SubmissionSeries(snapshot), nil
}
