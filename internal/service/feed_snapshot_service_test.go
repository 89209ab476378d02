package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/upliftco/uplift-api/internal/dto"
)

func TestFeedSnapshotFirstPageRendersLabeledPage(t *testing.T) {
	charityID := "charity-1"
	page := dto.ActivityListResponse{
		Items: []dto.ActivityResponse{{
			ID:         "event-1",
			UserID:     "admin-1",
			Action:     "APPROVED_CHARITY",
			EntityType: "CHARITY",
			EntityID:   &charityID,
		}},
		NextCursor: "event-1",
		HasMore:    true,
	}
	lister := &stubFeedLister{pages: []dto.ActivityListResponse{page}}
	users := &fakeUserRegistry{users: map[string]string{"admin-1": "Alice Admin"}}
	charities := &fakeCharityRegistry{charities: map[string]string{"charity-1": "Helping Hands"}}

	svc := NewFeedSnapshotService(lister, setupEnrichmentService(users, charities, nil, nil), nil, time.Minute, 10, testLogger())

	snap, err := svc.FirstPage(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	require.Equal(t, "Alice Admin", snap.Items[0].ActorName)
	require.Equal(t, "Helping Hands", snap.Items[0].EntityName)
	require.Equal(t, "event-1", snap.NextCursor)
	require.True(t, snap.HasMore)

	require.Len(t, lister.calls, 1)
	require.Equal(t, 10, lister.calls[0].Limit)
	require.Empty(t, lister.calls[0].Cursor)
}

func TestFeedSnapshotFirstPageIsCached(t *testing.T) {
	lister := &stubFeedLister{pages: []dto.ActivityListResponse{
		feedPage(0, 5, 5),
		feedPage(5, 5, 5),
	}}
	cache := setupMiniredis(t)
	svc := NewFeedSnapshotService(lister, setupEnrichmentService(nil, nil, nil, nil), cache, time.Minute, 5, testLogger())

	first, err := svc.FirstPage(context.Background())
	require.NoError(t, err)
	second, err := svc.FirstPage(context.Background())
	require.NoError(t, err)

	// The second render came from the snapshot, not the store.
	require.Len(t, lister.calls, 1)
	require.Equal(t, first, second)
}

func TestFeedSnapshotWithoutCacheRendersFresh(t *testing.T) {
	lister := &stubFeedLister{pages: []dto.ActivityListResponse{
		feedPage(0, 5, 5),
		feedPage(0, 5, 5),
	}}
	svc := NewFeedSnapshotService(lister, setupEnrichmentService(nil, nil, nil, nil), nil, time.Minute, 5, testLogger())

	_, err := svc.FirstPage(context.Background())
	require.NoError(t, err)
	_, err = svc.FirstPage(context.Background())
	require.NoError(t, err)
	require.Len(t, lister.calls, 2)
}

func TestFeedSnapshotPropagatesLoadErrors(t *testing.T) {
	boom := errors.New("backend down")
	lister := &stubFeedLister{errs: []error{boom}}
	cache := setupMiniredis(t)
	svc := NewFeedSnapshotService(lister, setupEnrichmentService(nil, nil, nil, nil), cache, time.Minute, 5, testLogger())

	_, err := svc.FirstPage(context.Background())
	require.ErrorIs(t, err, boom)

	// Nothing was cached on the failed render.
	keys, err := cache.Keys(context.Background(), "activities:feed:*").Result()
	require.NoError(t, err)
	require.Empty(t, keys)
}
