package utils

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/retail-ai-inc/storagebridge/pkg/state"
	"github.com/sirupsen/logrus"
)

// StartDocumentMonitoring logs the presence and size of the stored document
// every interval until ctx is done.
func StartDocumentMonitoring(ctx context.Context, store state.StateStore, key string, log *logrus.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				logDocument(ctx, store, key, log)
			}
		}
	}()
}

func logDocument(ctx context.Context, store state.StateStore, key string, log *logrus.Logger) {
	value, ok, err := store.Get(ctx, key)
	if err != nil {
		log.WithError(err).WithField("storage_key", key).
			Error("[Monitor] Fail to read stored document")
		return
	}

	log.WithFields(logrus.Fields{
		"storage_key":    key,
		"present":        ok,
		"bytes":          len(value),
		"runes":          utf8.RuneCountInString(value),
		"monitor_action": "document_size_minutely",
	}).Info("document_size_minutely")
}
