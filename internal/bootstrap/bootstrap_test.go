package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codesearch/internal/cache"
	"codesearch/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestNewBlogAppFileStorageCreatesPostsFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Blog.PostsPath = filepath.Join(t.TempDir(), "data", "posts.json")

	a, err := NewBlogApp(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	raw, err := os.ReadFile(cfg.Blog.PostsPath)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
	assert.Nil(t, a.MQConn)
	assert.NotNil(t, a.Blog)
}

func TestNewBlogAppUnknownStorage(t *testing.T) {
	cfg := testConfig(t)
	cfg.Blog.Storage = "sqlite"

	_, err := NewBlogApp(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestNewSearchAppRequiresAttendanceID(t *testing.T) {
	cfg := testConfig(t)
	cfg.Embedding.AttendancePath = filepath.Join(t.TempDir(), "missing")

	_, err := NewSearchApp(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create embeddings provider failed")
}

func TestNewByteStoreBackends(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Dir = t.TempDir()

	store, client, err := newByteStore(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, client)
	assert.IsType(t, &cache.LRUStore{}, store)

	cfg.Cache.LRUSize = 0
	store, _, err = newByteStore(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &cache.FileStore{}, store)

	mr := miniredis.RunT(t)
	cfg.Cache.Backend = "redis"
	cfg.Redis.Addr = mr.Addr()
	store, client, err = newByteStore(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, client)
	defer client.Close()
	assert.IsType(t, &cache.RedisStore{}, store)
}

func TestResilienceConfigConversion(t *testing.T) {
	rc := resilienceConfig(config.ResilienceConfig{
		MaxRetries:             2,
		InitialIntervalMillis:  50,
		MaxIntervalMillis:      1000,
		BreakerTimeoutSeconds:  10,
		BreakerFailureRatio:    0.25,
		BreakerMinimumRequests: 4,
	})
	assert.Equal(t, 2, rc.MaxRetries)
	assert.Equal(t, 50*time.Millisecond, rc.InitialInterval)
	assert.Equal(t, time.Second, rc.MaxInterval)
	assert.Equal(t, 10*time.Second, rc.BreakerTimeout)
	assert.Equal(t, 0.25, rc.FailureRatio)
	assert.Equal(t, uint32(4), rc.MinimumRequests)
}
