package myconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("ENV", "production")
		t.Setenv("PORT", "")
		t.Setenv("CART_TTL", "")
		t.Setenv("CATALOG_CACHE_TTL", "")
		t.Setenv("SEED_CATALOG", "")
		t.Setenv("QUEUE_NAME", "")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, 24*time.Hour, cfg.CartTTL)
		assert.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
		assert.False(t, cfg.SeedCatalog)
		assert.Equal(t, "default", cfg.QueueName)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("ENV", "production")
		t.Setenv("PORT", "9090")
		t.Setenv("ADMIN_API_KEY", "secret")
		t.Setenv("CART_TTL", "2h")
		t.Setenv("CATALOG_CACHE_TTL", "30s")
		t.Setenv("SEED_CATALOG", "true")
		t.Setenv("GOOGLE_CLOUD_PROJECT", "phoneloom-test")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, "secret", cfg.AdminAPIKey)
		assert.Equal(t, 2*time.Hour, cfg.CartTTL)
		assert.Equal(t, 30*time.Second, cfg.CatalogCacheTTL)
		assert.True(t, cfg.SeedCatalog)
		assert.True(t, cfg.RunsInCloud())
	})

	t.Run("invalid duration", func(t *testing.T) {
		t.Setenv("ENV", "production")
		t.Setenv("CART_TTL", "forever")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("invalid boolean", func(t *testing.T) {
		t.Setenv("ENV", "production")
		t.Setenv("CART_TTL", "")
		t.Setenv("SEED_CATALOG", "maybe")

		_, err := Load()
		assert.Error(t, err)
	})
}
