package badgerfx

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

const SeekEnd = byte(0xFF)

func New(config Config, logger *zapLogger) (*badger.DB, error) {
	opts := config.Build().
		WithLogger(logger)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB: %w", err)
	}

	logger.logger.Info("badger opened",
		zap.String("dir", opts.Dir),
		zap.Bool("in_memory", opts.InMemory))

	return db, nil
}

// collectGarbage runs value log GC until nothing is left to rewrite.
func collectGarbage(db *badger.DB, ratio float64) (int, error) {
	runs := 0
	for {
		err := db.RunValueLogGC(ratio)
		if errors.Is(err, badger.ErrNoRewrite) ||
			errors.Is(err, badger.ErrRejected) ||
			errors.Is(err, badger.ErrGCInMemoryMode) {
			return runs, nil
		}
		if err != nil {
			return runs, fmt.Errorf("value log gc failed: %w", err)
		}
		runs++
	}
}

// runGC collects garbage every interval until stop is closed.
func runGC(db *badger.DB, config Config, logger *zap.Logger, stop <-chan struct{}) {
	ticker := time.NewTicker(config.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			runs, err := collectGarbage(db, config.discardRatio())
			if err != nil {
				logger.Warn("badger gc failed", zap.Error(err))
				continue
			}
			if runs > 0 {
				logger.Debug("badger gc completed", zap.Int("rewrites", runs))
			}
		}
	}
}
