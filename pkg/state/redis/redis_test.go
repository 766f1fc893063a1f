package redis

import (
	"context"
	"os"
	"testing"

	"github.com/retail-ai-inc/storagebridge/pkg/config"
	"github.com/retail-ai-inc/storagebridge/pkg/state/statetest"
	"github.com/stretchr/testify/require"
)

// TestRedisStore needs a live server, e.g.
// STORAGEBRIDGE_TEST_REDIS=redis://localhost:6379/15
func TestRedisStore(t *testing.T) {
	dsn := os.Getenv("STORAGEBRIDGE_TEST_REDIS")
	if dsn == "" {
		t.Skip("STORAGEBRIDGE_TEST_REDIS not set, skipping test.")
	}

	store, err := Open(context.Background(), config.StorageConfig{Type: "redis", Connection: dsn})
	require.NoError(t, err)
	defer store.Close()

	statetest.Run(t, store)
}

func TestOpenRejectsBadDSN(t *testing.T) {
	_, err := Open(context.Background(), config.StorageConfig{Type: "redis", Connection: "not a url"})
	require.Error(t, err)
}
