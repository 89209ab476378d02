package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("UPLIFT_JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.AppPort)
	require.Equal(t, "uplift.activity", cfg.StreamSubject)
	require.Equal(t, 30*time.Second, cfg.StatsCacheTTL)
	require.Equal(t, 15*time.Second, cfg.FeedCacheTTL)
	require.Equal(t, 20, cfg.FeedPageSize)
}

func TestLoadOverridesFeedSettings(t *testing.T) {
	t.Setenv("UPLIFT_JWT_SECRET", "test-secret")
	t.Setenv("UPLIFT_FEED_CACHE_TTL", "45s")
	t.Setenv("UPLIFT_FEED_PAGE_SIZE", "50")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 45*time.Second, cfg.FeedCacheTTL)
	require.Equal(t, 50, cfg.FeedPageSize)
}

func TestLoadClampsNonPositivePageSize(t *testing.T) {
	t.Setenv("UPLIFT_JWT_SECRET", "test-secret")
	t.Setenv("UPLIFT_FEED_PAGE_SIZE", "-5")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 20, cfg.FeedPageSize)
}

func TestLoadRejectsMalformedFeedTTL(t *testing.T) {
	t.Setenv("UPLIFT_JWT_SECRET", "test-secret")
	t.Setenv("UPLIFT_FEED_CACHE_TTL", "soon")

	_, err := Load()
	require.ErrorContains(t, err, "feed cache ttl")
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("UPLIFT_JWT_SECRET", "")

	_, err := Load()
	require.ErrorContains(t, err, "jwt secret")
}
