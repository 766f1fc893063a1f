package state

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/retail-ai-inc/storagebridge/pkg/config"
	"github.com/retail-ai-inc/storagebridge/pkg/state/mongodb"
	"github.com/retail-ai-inc/storagebridge/pkg/state/redis"
	"github.com/retail-ai-inc/storagebridge/pkg/state/sqlstore"
	"github.com/sirupsen/logrus"
)

var ErrUnknownStorageType = errors.New("unknown storage type")

var (
	_ StateStore = (*FileStateStore)(nil)
	_ StateStore = (*MemoryStateStore)(nil)
	_ StateStore = (*redis.RedisStore)(nil)
	_ StateStore = (*mongodb.MongoDBStore)(nil)
	_ StateStore = (*sqlstore.SQLStore)(nil)
)

// Open returns the storage medium selected by cfg.Type.
func Open(ctx context.Context, cfg config.StorageConfig, log *logrus.Logger) (StateStore, error) {
	storageType := strings.ToLower(cfg.Type)
	log.WithField("storage_type", storageType).Info("[Storage] Opening storage medium")

	var (
		store StateStore
		err   error
	)
	switch storageType {
	case "file":
		store, err = NewFileStateStore(cfg.Path)
	case "memory":
		store = NewMemoryStateStore()
	case "redis":
		store, err = redis.Open(ctx, cfg)
	case "mongodb":
		store, err = mongodb.Open(ctx, cfg)
	case "mysql", "mariadb", "postgresql":
		store, err = sqlstore.Open(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorageType, cfg.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", storageType, err)
	}
	return store, nil
}
