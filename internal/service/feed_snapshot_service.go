package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// FeedSnapshot is the server-rendered first page of the admin activity feed,
// already labeled and ready to seed a presenter.
type FeedSnapshot struct {
	Items      []FeedItem `json:"items"`
	NextCursor string     `json:"nextCursor,omitempty"`
	HasMore    bool       `json:"hasMore"`
}

// FeedSnapshotService renders the first feed page and keeps it briefly in
// redis, so concurrent dashboard loads share one list-and-enrich round trip.
type FeedSnapshotService interface {
	FirstPage(ctx context.Context) (FeedSnapshot, error)
}

type feedSnapshotService struct {
	lister   feedLister
	enricher EnrichmentService
	cache    *redis.Client
	ttl      time.Duration
	pageSize int
	logger   zerolog.Logger
}

// NewFeedSnapshotService constructs the snapshot service. The cache client is
// optional; without it every call renders the page fresh.
func NewFeedSnapshotService(lister feedLister, enricher EnrichmentService, cache *redis.Client, ttl time.Duration, pageSize int, logger zerolog.Logger) FeedSnapshotService {
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	if pageSize <= 0 {
		pageSize = DefaultFeedLimit
	}
	return &feedSnapshotService{
		lister:   lister,
		enricher: enricher,
		cache:    cache,
		ttl:      ttl,
		pageSize: pageSize,
		logger:   logger.With().Str("component", "feed_snapshot_service").Logger(),
	}
}

func (s *feedSnapshotService) FirstPage(ctx context.Context) (FeedSnapshot, error) {
	feed := NewActivityFeed(s.lister, s.enricher, s.pageSize, s.logger)

	if snap, ok := s.cached(ctx); ok {
		feed.Seed(snap.Items, snap.NextCursor, snap.HasMore)
		return s.snapshot(feed), nil
	}

	if err := feed.LoadMore(ctx); err != nil {
		return FeedSnapshot{}, err
	}

	snap := s.snapshot(feed)
	s.store(ctx, snap)
	return snap, nil
}

// snapshot reads the rendered page back out of the presenter.
func (s *feedSnapshotService) snapshot(feed *ActivityFeed) FeedSnapshot {
	return FeedSnapshot{
		Items:      feed.Items(),
		NextCursor: feed.Cursor(),
		HasMore:    feed.State() != FeedExhausted,
	}
}

func (s *feedSnapshotService) cached(ctx context.Context) (FeedSnapshot, bool) {
	if s.cache == nil {
		return FeedSnapshot{}, false
	}
	payload, err := s.cache.Get(ctx, s.cacheKey()).Result()
	if err != nil || payload == "" {
		return FeedSnapshot{}, false
	}
	var snap FeedSnapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return FeedSnapshot{}, false
	}
	return snap, true
}

func (s *feedSnapshotService) store(ctx context.Context, snap FeedSnapshot) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(), payload, s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to write feed snapshot")
	}
}

func (s *feedSnapshotService) cacheKey() string {
	return fmt.Sprintf("activities:feed:page1:v1:%d", s.pageSize)
}
