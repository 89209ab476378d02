package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/upliftco/uplift-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:activity_repo_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ActivityEvent{}, &models.Charity{}, &models.User{}))
	return db
}

func seedEvents(t *testing.T, repo ActivityLogRepository, n int) []models.ActivityEvent {
	t.Helper()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	events := make([]models.ActivityEvent, 0, n)
	for i := 0; i < n; i++ {
		entityID := fmt.Sprintf("charity-%04d", i+1)
		event := models.ActivityEvent{
			ActorID:    "admin-1",
			Action:     models.ActionApprovedCharity,
			EntityType: models.EntityCharity,
			EntityID:   &entityID,
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.Append(context.Background(), &event))
		events = append(events, event)
	}
	return events
}

func TestActivityLogRepositoryAppendAssignsIdentity(t *testing.T) {
	repo := NewActivityLogRepository(setupTestDB(t))

	event := models.ActivityEvent{
		ActorID:    "admin-1",
		Action:     models.ActionCreatedUser,
		EntityType: models.EntityUser,
	}
	require.NoError(t, repo.Append(context.Background(), &event))
	require.NotEmpty(t, event.ID)
	require.False(t, event.CreatedAt.IsZero())
}

func TestActivityLogRepositoryListIsRepeatable(t *testing.T) {
	repo := NewActivityLogRepository(setupTestDB(t))
	seedEvents(t, repo, 6)

	first, err := repo.ListRecent(context.Background(), ActivityLogFilter{Limit: 10})
	require.NoError(t, err)
	second, err := repo.ListRecent(context.Background(), ActivityLogFilter{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestActivityLogRepositoryCursorPaginationIsExclusive(t *testing.T) {
	repo := NewActivityLogRepository(setupTestDB(t))
	events := seedEvents(t, repo, 10)

	firstPage, err := repo.ListRecent(context.Background(), ActivityLogFilter{Limit: 5})
	require.NoError(t, err)
	require.Len(t, firstPage, 5)
	for i, event := range firstPage {
		require.Equal(t, events[9-i].ID, event.ID, "expected newest first")
	}

	secondPage, err := repo.ListRecent(context.Background(), ActivityLogFilter{
		Limit:    5,
		CursorID: firstPage[len(firstPage)-1].ID,
	})
	require.NoError(t, err)
	require.Len(t, secondPage, 5)
	for i, event := range secondPage {
		require.Equal(t, events[4-i].ID, event.ID, "expected no overlap and no gap across pages")
	}
}

func TestActivityLogRepositoryCursorBreaksTimestampTies(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityLogRepository(db)

	ts := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	ids := []string{"aaaa", "bbbb", "cccc"}
	for _, id := range ids {
		event := models.ActivityEvent{
			ID:         id,
			ActorID:    "admin-1",
			Action:     models.ActionViewedDashboard,
			EntityType: models.EntitySystem,
			CreatedAt:  ts,
		}
		require.NoError(t, repo.Append(context.Background(), &event))
	}

	page, err := repo.ListRecent(context.Background(), ActivityLogFilter{Limit: 2})
	require.NoError(t, err)
	require.Equal(t, []string{"cccc", "bbbb"}, []string{page[0].ID, page[1].ID})

	rest, err := repo.ListRecent(context.Background(), ActivityLogFilter{Limit: 2, CursorID: "bbbb"})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	require.Equal(t, "aaaa", rest[0].ID)
}

func TestActivityLogRepositoryEqualityFilters(t *testing.T) {
	repo := NewActivityLogRepository(setupTestDB(t))

	otherActor := models.ActivityEvent{
		ActorID:    "admin-2",
		Action:     models.ActionDeletedStory,
		EntityType: models.EntityStory,
		CreatedAt:  time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Append(context.Background(), &otherActor))
	seedEvents(t, repo, 3)

	filtered, err := repo.ListRecent(context.Background(), ActivityLogFilter{
		Limit:   10,
		ActorID: "admin-2",
		Action:  models.ActionDeletedStory,
	})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, otherActor.ID, filtered[0].ID)

	byEntity, err := repo.ListRecent(context.Background(), ActivityLogFilter{
		Limit:      10,
		EntityType: models.EntityCharity,
	})
	require.NoError(t, err)
	require.Len(t, byEntity, 3)
}

func TestActivityLogRepositoryCountByActionHalfOpenWindow(t *testing.T) {
	repo := NewActivityLogRepository(setupTestDB(t))
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	for i, action := range []models.ActionType{
		models.ActionApprovedCharity,
		models.ActionApprovedCharity,
		models.ActionDeletedStory,
	} {
		event := models.ActivityEvent{
			ActorID:    "admin-1",
			Action:     action,
			EntityType: models.EntitySystem,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, repo.Append(context.Background(), &event))
	}

	counts, err := repo.CountByAction(context.Background(), ActivityCountFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(2), counts[models.ActionApprovedCharity])
	require.Equal(t, int64(1), counts[models.ActionDeletedStory])

	// [base, base+2h) excludes the deletion recorded at base+2h.
	windowed, err := repo.CountByAction(context.Background(), ActivityCountFilter{
		Since: base,
		Until: base.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), windowed[models.ActionApprovedCharity])
	require.NotContains(t, windowed, models.ActionDeletedStory)
}

func TestCharityRepositoryFindByIDsSkipsMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCharityRepository(db)

	charity := models.Charity{ID: "charity-1", Name: "Helping Hands", Status: models.CharityStatusApproved}
	require.NoError(t, repo.Create(context.Background(), &charity))

	found, err := repo.FindByIDs(context.Background(), []string{"charity-1", "charity-missing"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "Helping Hands", found[0].Name)
}
