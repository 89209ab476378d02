package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/upliftco/uplift-api/internal/dto"
	"github.com/upliftco/uplift-api/internal/models"
	"github.com/upliftco/uplift-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	return db
}

type failingActivityRepo struct{}

func (failingActivityRepo) Append(ctx context.Context, event *models.ActivityEvent) error {
	return errors.New("disk full")
}

func (failingActivityRepo) ListRecent(ctx context.Context, filter repository.ActivityLogFilter) ([]models.ActivityEvent, error) {
	return nil, errors.New("disk full")
}

func (failingActivityRepo) CountByAction(ctx context.Context, filter repository.ActivityCountFilter) (map[models.ActionType]int64, error) {
	return nil, errors.New("disk full")
}

func setupActivityService(t *testing.T) (ActivityService, repository.ActivityLogRepository) {
	t.Helper()
	db := openTestDB(t, "activity_service")
	require.NoError(t, db.AutoMigrate(&models.ActivityEvent{}))
	repo := repository.NewActivityLogRepository(db)
	return NewActivityService(repo, nil, "", testLogger()), repo
}

func TestActivityServiceRecordPersistsEvent(t *testing.T) {
	svc, repo := setupActivityService(t)

	entityID := "charity-1"
	svc.Record(context.Background(), RecordedAction{
		ActorID:    "admin-1",
		Action:     models.ActionApprovedCharity,
		EntityType: models.EntityCharity,
		EntityID:   &entityID,
		Details:    map[string]interface{}{"charityName": "Helping Hands"},
	})

	events, err := repo.ListRecent(context.Background(), repository.ActivityLogFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, models.ActionApprovedCharity, events[0].Action)
	require.Equal(t, "Helping Hands", events[0].Details["charityName"])
}

func TestActivityServiceRecordNeverPropagatesFailure(t *testing.T) {
	svc := NewActivityService(failingActivityRepo{}, nil, "", testLogger())

	require.NotPanics(t, func() {
		svc.Record(context.Background(), RecordedAction{
			ActorID:    "admin-1",
			Action:     models.ActionDeletedUser,
			EntityType: models.EntityUser,
		})
	})
}

func TestActivityServiceRecordDropsUnknownEnums(t *testing.T) {
	svc, repo := setupActivityService(t)

	svc.Record(context.Background(), RecordedAction{
		ActorID:    "admin-1",
		Action:     models.ActionType("LAUNCHED_ROCKET"),
		EntityType: models.EntitySystem,
	})
	svc.Record(context.Background(), RecordedAction{
		ActorID:    "admin-1",
		Action:     models.ActionViewedDashboard,
		EntityType: models.EntityType("ROCKET"),
	})

	events, err := repo.ListRecent(context.Background(), repository.ActivityLogFilter{Limit: 10})
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestActivityServiceRecordMasksSensitiveDetailKeys(t *testing.T) {
	svc, repo := setupActivityService(t)

	svc.Record(context.Background(), RecordedAction{
		ActorID:    "admin-1",
		Action:     models.ActionResetPassword,
		EntityType: models.EntityUser,
		Details: map[string]interface{}{
			"targetEmail":   "user@example.org",
			"temp_password": "hunter2",
			"resetToken":    "abc123",
			"clientSecret":  "shh",
		},
	})

	events, err := repo.ListRecent(context.Background(), repository.ActivityLogFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, events, 1)

	details := events[0].Details
	require.Equal(t, "user@example.org", details["targetEmail"])
	require.Equal(t, "***", details["temp_password"])
	require.Equal(t, "***", details["resetToken"])
	require.Equal(t, "***", details["clientSecret"])
}

func TestActivityServiceListDefaultsLimitAndSetsCursor(t *testing.T) {
	svc, repo := setupActivityService(t)

	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < DefaultFeedLimit+5; i++ {
		event := models.ActivityEvent{
			ActorID:    "admin-1",
			Action:     models.ActionUpdatedStory,
			EntityType: models.EntityStory,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Append(context.Background(), &event))
	}

	page, err := svc.List(context.Background(), dto.ActivityListRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, DefaultFeedLimit)
	require.True(t, page.HasMore)
	require.Equal(t, page.Items[len(page.Items)-1].ID, page.NextCursor)

	rest, err := svc.List(context.Background(), dto.ActivityListRequest{Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, rest.Items, 5)
	require.False(t, rest.HasMore)
}

func TestActivityServiceListUppercasesEnumFilters(t *testing.T) {
	svc, repo := setupActivityService(t)

	event := models.ActivityEvent{
		ActorID:    "admin-1",
		Action:     models.ActionFlaggedComment,
		EntityType: models.EntityComment,
	}
	require.NoError(t, repo.Append(context.Background(), &event))

	page, err := svc.List(context.Background(), dto.ActivityListRequest{
		Action:     "flagged_comment",
		EntityType: "comment",
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, event.ID, page.Items[0].ID)
}

func TestActivityServiceCountByAction(t *testing.T) {
	svc, repo := setupActivityService(t)

	for _, action := range []models.ActionType{models.ActionCreatedDonor, models.ActionCreatedDonor, models.ActionDeletedDonor} {
		event := models.ActivityEvent{ActorID: "admin-1", Action: action, EntityType: models.EntityDonor}
		require.NoError(t, repo.Append(context.Background(), &event))
	}

	counts, err := svc.CountByAction(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Equal(t, int64(2), counts[models.ActionCreatedDonor])
	require.Equal(t, int64(1), counts[models.ActionDeletedDonor])
}

func TestApprovalFlowRecordListEnrich(t *testing.T) {
	db := openTestDB(t, "approval_flow")
	require.NoError(t, db.AutoMigrate(&models.ActivityEvent{}, &models.Charity{}, &models.User{}, &models.Donor{}, &models.Story{}))

	activityRepo := repository.NewActivityLogRepository(db)
	charityRepo := repository.NewCharityRepository(db)
	userRepo := repository.NewUserRepository(db)
	donorRepo := repository.NewDonorRepository(db)
	storyRepo := repository.NewStoryRepository(db)

	require.NoError(t, userRepo.Create(context.Background(), &models.User{
		ID: "admin-1", Name: "Alice Admin", Email: "alice@uplift.org", Role: models.RolePlatformAdmin,
	}))
	require.NoError(t, charityRepo.Create(context.Background(), &models.Charity{
		ID: "charity-1", Name: "Helping Hands", Status: models.CharityStatusPending,
	}))

	activities := NewActivityService(activityRepo, nil, "", testLogger())
	charities := NewAdminCharityService(charityRepo, activities, validator.New(validator.WithRequiredStructEnabled()), testLogger())
	enricher := NewEnrichmentService(userRepo, charityRepo, donorRepo, storyRepo, testLogger())

	_, err := charities.Approve(context.Background(), ActivityActor{ID: "admin-1"}, "charity-1")
	require.NoError(t, err)

	page, err := activities.List(context.Background(), dto.ActivityListRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, string(models.ActionApprovedCharity), page.Items[0].Action)

	event := models.ActivityEvent{
		ID:         page.Items[0].ID,
		ActorID:    page.Items[0].UserID,
		Action:     models.ActionType(page.Items[0].Action),
		EntityType: models.EntityType(page.Items[0].EntityType),
		EntityID:   page.Items[0].EntityID,
	}
	labels := enricher.Enrich(context.Background(), []models.ActivityEvent{event})
	require.Equal(t, "Alice Admin", labels.ActorLabel(event.ActorID))
	require.Equal(t, "Helping Hands", labels.EntityLabel(event))
}
