package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/upliftco/uplift-api/internal/dto"
	"github.com/upliftco/uplift-api/internal/models"
	"github.com/upliftco/uplift-api/internal/observability"
)

// FeedState is the presenter's load-more lifecycle state.
type FeedState string

const (
	// FeedIdle means the feed holds a loaded list and no fetch is in flight.
	FeedIdle FeedState = "idle"
	// FeedLoading means a page fetch plus enrichment round trip is in flight.
	FeedLoading FeedState = "loading"
	// FeedExhausted is terminal: the last page came back short, no further
	// loads will be attempted.
	FeedExhausted FeedState = "exhausted"
)

// FeedItem is one display row: the raw event plus resolved labels.
type FeedItem struct {
	dto.ActivityResponse
	ActorName  string `json:"actorName"`
	EntityName string `json:"entityName,omitempty"`
}

// feedLister is the slice of ActivityService the presenter needs.
type feedLister interface {
	List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error)
}

// ActivityFeed accumulates feed pages into a chronologically ordered display
// list. The list only ever grows by appending successfully loaded pages; it is
// never reordered or deduplicated, since the reader's exclusive cursor
// guarantees no overlap between pages.
type ActivityFeed struct {
	lister   feedLister
	enricher EnrichmentService
	limit    int
	logger   zerolog.Logger

	mu     sync.Mutex
	state  FeedState
	items  []FeedItem
	cursor string
}

// NewActivityFeed constructs an empty presenter. The first LoadMore fetches
// the first page.
func NewActivityFeed(lister feedLister, enricher EnrichmentService, limit int, logger zerolog.Logger) *ActivityFeed {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	return &ActivityFeed{
		lister:   lister,
		enricher: enricher,
		limit:    limit,
		state:    FeedIdle,
		logger:   logger.With().Str("component", "activity_feed").Logger(),
	}
}

// Seed installs an out-of-band initial page, typically server-rendered. It is
// ignored while a load is in flight: the completing load would append onto the
// seeded list and clobber its state.
func (f *ActivityFeed) Seed(items []FeedItem, cursor string, hasMore bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == FeedLoading {
		return
	}

	f.items = append([]FeedItem(nil), items...)
	f.cursor = cursor
	if hasMore {
		f.state = FeedIdle
	} else {
		f.state = FeedExhausted
	}
}

// State returns the current lifecycle state.
func (f *ActivityFeed) State() FeedState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Cursor returns the id of the last loaded event, empty before the first page.
func (f *ActivityFeed) Cursor() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cursor
}

// Items returns a copy of the accumulated display list, newest first.
func (f *ActivityFeed) Items() []FeedItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FeedItem(nil), f.items...)
}

// LoadMore fetches and appends the next page. It is a no-op unless the feed
// is idle. On failure the accumulated list and cursor are left untouched and
// the feed returns to idle so the caller can retry.
func (f *ActivityFeed) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	if f.state != FeedIdle {
		f.mu.Unlock()
		return nil
	}
	f.state = FeedLoading
	cursor := f.cursor
	f.mu.Unlock()

	start := time.Now()
	page, err := f.lister.List(ctx, dto.ActivityListRequest{Limit: f.limit, Cursor: cursor})
	if err != nil {
		f.logger.Warn().Err(err).Str("cursor", cursor).Msg("feed page load failed")
		f.mu.Lock()
		f.state = FeedIdle
		f.mu.Unlock()
		return err
	}

	labeled := f.label(ctx, page.Items)
	observability.FeedLoadLatency().Observe(time.Since(start).Seconds())

	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, labeled...)
	if page.NextCursor != "" {
		f.cursor = page.NextCursor
	}
	if page.HasMore {
		f.state = FeedIdle
	} else {
		f.state = FeedExhausted
	}
	return nil
}

func (f *ActivityFeed) label(ctx context.Context, items []dto.ActivityResponse) []FeedItem {
	events := make([]models.ActivityEvent, 0, len(items))
	for _, item := range items {
		events = append(events, models.ActivityEvent{
			ID:         item.ID,
			ActorID:    item.UserID,
			Action:     models.ActionType(item.Action),
			EntityType: models.EntityType(item.EntityType),
			EntityID:   item.EntityID,
			CreatedAt:  item.Timestamp,
		})
	}

	labels := f.enricher.Enrich(ctx, events)

	labeled := make([]FeedItem, 0, len(items))
	for i, item := range items {
		labeled = append(labeled, FeedItem{
			ActivityResponse: item,
			ActorName:        labels.ActorLabel(item.UserID),
			EntityName:       labels.EntityLabel(events[i]),
		})
	}
	return labeled
}
