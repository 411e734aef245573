package badgerfx

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"badgerfx",
		logger.WithNamedLogger("badgerfx"),
		fx.Provide(newLogger, fx.Private),
		fx.Provide(New),
		fx.Invoke(func(db *badger.DB, config Config, logger *zap.Logger, lifecycle fx.Lifecycle) {
			stop := make(chan struct{})
			done := make(chan struct{})

			lifecycle.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					if config.GCInterval <= 0 || config.InMemory {
						close(done)
						return nil
					}

					logger.Info("starting value log gc", zap.Duration("interval", config.GCInterval))
					go func() {
						defer close(done)
						runGC(db, config, logger, stop)
					}()
					return nil
				},
				OnStop: func(_ context.Context) error {
					close(stop)
					<-done

					if err := db.Close(); err != nil {
						return fmt.Errorf("failed to close BadgerDB: %w", err)
					}
					logger.Info("badger closed")
					return nil
				},
			})
		}),
	)
}
