package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/upliftco/uplift-api/internal/dto"
	"github.com/upliftco/uplift-api/internal/handler"
	"github.com/upliftco/uplift-api/internal/middleware"
	"github.com/upliftco/uplift-api/internal/models"
	"github.com/upliftco/uplift-api/internal/repository"
	"github.com/upliftco/uplift-api/internal/service"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func decodeResponse(t *testing.T, resp *http.Response, out interface{}) envelope {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))
	if out != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}

type activityTestEnv struct {
	app          *fiber.App
	activityRepo repository.ActivityLogRepository
	userRepo     repository.UserRepository
	charityRepo  repository.CharityRepository
}

func setupActivityTestEnv(t *testing.T, role string) activityTestEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:activity_handler_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.ActivityEvent{},
		&models.User{},
		&models.Charity{},
		&models.Donor{},
		&models.Story{},
	))

	logger := zerolog.Nop()
	activityRepo := repository.NewActivityLogRepository(db)
	userRepo := repository.NewUserRepository(db)
	charityRepo := repository.NewCharityRepository(db)
	donorRepo := repository.NewDonorRepository(db)
	storyRepo := repository.NewStoryRepository(db)

	activities := service.NewActivityService(activityRepo, nil, "", logger)
	enricher := service.NewEnrichmentService(userRepo, charityRepo, donorRepo, storyRepo, logger)
	stats := service.NewAdminStatsService(activities, nil, 0, logger)

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	snapshots := service.NewFeedSnapshotService(activities, enricher, cache, time.Minute, 10, logger)

	app := fiber.New()
	admin := app.Group("/api/v1/admin",
		func(c *fiber.Ctx) error {
			c.Locals("user_id", "admin-1")
			c.Locals("user_role", role)
			return c.Next()
		},
		middleware.RequirePlatformAdmin(),
	)
	handler.NewActivityHandler(activities, enricher, stats, snapshots, nil, "", logger).Register(admin)

	return activityTestEnv{
		app:          app,
		activityRepo: activityRepo,
		userRepo:     userRepo,
		charityRepo:  charityRepo,
	}
}

func seedActivityPage(t *testing.T, env activityTestEnv, n int) {
	t.Helper()
	base := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		entityID := fmt.Sprintf("charity-%04d", i+1)
		require.NoError(t, env.activityRepo.Append(context.Background(), &models.ActivityEvent{
			ActorID:    "admin-1",
			Action:     models.ActionApprovedCharity,
			EntityType: models.EntityCharity,
			EntityID:   &entityID,
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		}))
	}
}

func TestActivityRoutesRejectNonAdmins(t *testing.T) {
	env := setupActivityTestEnv(t, string(models.RoleCharityEditor))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/activities", nil)
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	env2 := setupActivityTestEnv(t, "")
	resp, err = env2.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/activities", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestActivityListReturnsNewestFirstPage(t *testing.T) {
	env := setupActivityTestEnv(t, string(models.RolePlatformAdmin))
	seedActivityPage(t, env, 25)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/activities", nil)
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page dto.ActivityListResponse
	body := decodeResponse(t, resp, &page)
	require.True(t, body.Success)
	require.Len(t, page.Items, service.DefaultFeedLimit)
	require.True(t, page.HasMore)
	require.NotEmpty(t, page.NextCursor)
	require.Equal(t, "charity-0025", *page.Items[0].EntityID)
}

func TestActivityListIgnoresMalformedLimit(t *testing.T) {
	env := setupActivityTestEnv(t, string(models.RolePlatformAdmin))
	seedActivityPage(t, env, 25)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/activities?limit=abc", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page dto.ActivityListResponse
	decodeResponse(t, resp, &page)
	require.Len(t, page.Items, service.DefaultFeedLimit)
}

func TestActivityListCursorWalksWithoutOverlap(t *testing.T) {
	env := setupActivityTestEnv(t, string(models.RolePlatformAdmin))
	seedActivityPage(t, env, 15)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/activities?limit=10", nil))
	require.NoError(t, err)
	var first dto.ActivityListResponse
	decodeResponse(t, resp, &first)
	require.Len(t, first.Items, 10)
	require.True(t, first.HasMore)

	resp, err = env.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/activities?limit=10&cursor="+first.NextCursor, nil))
	require.NoError(t, err)
	var second dto.ActivityListResponse
	decodeResponse(t, resp, &second)
	require.Len(t, second.Items, 5)
	require.False(t, second.HasMore)

	seen := map[string]struct{}{}
	for _, item := range append(first.Items, second.Items...) {
		_, dup := seen[item.ID]
		require.False(t, dup, "event %s returned twice", item.ID)
		seen[item.ID] = struct{}{}
	}
	require.Len(t, seen, 15)
}

func TestActivityFeedServesCachedFirstPage(t *testing.T) {
	env := setupActivityTestEnv(t, string(models.RolePlatformAdmin))
	require.NoError(t, env.userRepo.Create(context.Background(), &models.User{
		ID: "admin-1", Name: "Alice Admin", Email: "alice@uplift.org", Role: models.RolePlatformAdmin,
	}))
	seedActivityPage(t, env, 12)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/activities/feed", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap service.FeedSnapshot
	decodeResponse(t, resp, &snap)
	require.Len(t, snap.Items, 10)
	require.True(t, snap.HasMore)
	require.NotEmpty(t, snap.NextCursor)
	require.Equal(t, "charity-0012", *snap.Items[0].EntityID)
	require.Equal(t, "Alice Admin", snap.Items[0].ActorName)

	// An event recorded after the render stays out of the page until the
	// snapshot expires.
	entityID := "charity-9999"
	require.NoError(t, env.activityRepo.Append(context.Background(), &models.ActivityEvent{
		ActorID:    "admin-1",
		Action:     models.ActionApprovedCharity,
		EntityType: models.EntityCharity,
		EntityID:   &entityID,
	}))

	resp, err = env.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/activities/feed", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cached service.FeedSnapshot
	decodeResponse(t, resp, &cached)
	require.Equal(t, snap.Items, cached.Items)
}

func TestActivityEnrichmentResolvesKnownIDs(t *testing.T) {
	env := setupActivityTestEnv(t, string(models.RolePlatformAdmin))
	require.NoError(t, env.userRepo.Create(context.Background(), &models.User{
		ID: "user-1", Name: "Alice Admin", Email: "alice@uplift.org", Role: models.RolePlatformAdmin,
	}))
	require.NoError(t, env.charityRepo.Create(context.Background(), &models.Charity{
		ID: "charity-1", Name: "Helping Hands",
	}))

	payload, err := json.Marshal(dto.EnrichmentRequest{
		UserIDs:    []string{"user-1", "user-missing"},
		CharityIDs: []string{"charity-1"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/activity-enrichment", bytes.NewReader(payload))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var resolved dto.EnrichmentResponse
	decodeResponse(t, resp, &resolved)
	require.Equal(t, []dto.NamedRef{{ID: "user-1", Name: "Alice Admin"}}, resolved.Users)
	require.Equal(t, []dto.NamedRef{{ID: "charity-1", Name: "Helping Hands"}}, resolved.Charities)
	require.Empty(t, resolved.Donors)
	require.Empty(t, resolved.Stories)
}

func TestActivityEnrichmentRejectsMalformedBody(t *testing.T) {
	env := setupActivityTestEnv(t, string(models.RolePlatformAdmin))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/activity-enrichment", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestActivityStatsCountsAndValidatesWindow(t *testing.T) {
	env := setupActivityTestEnv(t, string(models.RolePlatformAdmin))
	seedActivityPage(t, env, 3)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/activities/stats", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats dto.ActivityStatsResponse
	decodeResponse(t, resp, &stats)
	require.Equal(t, int64(3), stats.Counts["APPROVED_CHARITY"])

	resp, err = env.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/activities/stats?since=yesterday", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// The view itself lands in the trail.
	events, err := env.activityRepo.ListRecent(context.Background(), repository.ActivityLogFilter{
		Limit:  1,
		Action: models.ActionViewedDashboard,
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "admin-1", events[0].ActorID)
}

func TestActivityStreamRequiresUpgrade(t *testing.T) {
	env := setupActivityTestEnv(t, string(models.RolePlatformAdmin))

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/activities/stream", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}
