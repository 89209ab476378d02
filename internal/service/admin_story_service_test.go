package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/upliftco/uplift-api/internal/dto"
	"github.com/upliftco/uplift-api/internal/models"
	"github.com/upliftco/uplift-api/internal/repository"
)

func setupAdminStoryService(t *testing.T) (AdminStoryService, repository.StoryRepository, *spyRecorder) {
	t.Helper()
	db := openTestDB(t, "admin_story")
	require.NoError(t, db.AutoMigrate(&models.Story{}))

	repo := repository.NewStoryRepository(db)
	recorder := &spyRecorder{}
	svc := NewAdminStoryService(repo, recorder, validator.New(validator.WithRequiredStructEnabled()), testLogger())
	return svc, repo, recorder
}

func TestAdminStoryServiceFlagRecordsReason(t *testing.T) {
	svc, repo, recorder := setupAdminStoryService(t)
	require.NoError(t, repo.Create(context.Background(), &models.Story{
		ID: "story-1", CharityID: "charity-1", Title: "A Well in Every Village",
	}))

	flagged, err := svc.Flag(context.Background(), ActivityActor{ID: "admin-1"}, "story-1", "misleading claims")
	require.NoError(t, err)
	require.True(t, flagged.Flagged)
	require.Equal(t, "misleading claims", flagged.FlagReason)

	entry := recorder.last(t)
	require.Equal(t, models.ActionFlaggedStory, entry.Action)
	require.Equal(t, models.EntityStory, entry.EntityType)
	require.Equal(t, "misleading claims", entry.Details["flagReason"])
}

func TestAdminStoryServiceUnflagClearsReason(t *testing.T) {
	svc, repo, recorder := setupAdminStoryService(t)
	require.NoError(t, repo.Create(context.Background(), &models.Story{
		ID: "story-1", CharityID: "charity-1", Title: "A Well in Every Village",
		Flagged: true, FlagReason: "misleading claims",
	}))

	story, err := svc.Unflag(context.Background(), ActivityActor{ID: "admin-1"}, "story-1")
	require.NoError(t, err)
	require.False(t, story.Flagged)
	require.Empty(t, story.FlagReason)

	entry := recorder.last(t)
	require.Equal(t, models.ActionUnflaggedStory, entry.Action)
	require.NotContains(t, entry.Details, "flagReason")
}

func TestAdminStoryServiceUpdateSanitizesBody(t *testing.T) {
	svc, repo, recorder := setupAdminStoryService(t)
	require.NoError(t, repo.Create(context.Background(), &models.Story{
		ID: "story-1", CharityID: "charity-1", Title: "A Well in Every Village",
	}))

	body := `<p>Real progress.</p><script>steal()</script>`
	story, err := svc.Update(context.Background(), ActivityActor{ID: "admin-1"}, "story-1", dto.StoryUpdateRequest{Body: &body})
	require.NoError(t, err)
	require.Contains(t, story.Body, "<p>Real progress.</p>")
	require.NotContains(t, story.Body, "<script>")

	require.Equal(t, models.ActionUpdatedStory, recorder.last(t).Action)
}
