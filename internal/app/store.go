package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/campus-aura/backend/internal/api/http/handlers"
	"github.com/campus-aura/backend/internal/config"
	"github.com/campus-aura/backend/internal/docstore"
	"github.com/campus-aura/backend/internal/persistence"
)

// OpenedStore is a connected document store plus its readiness checks.
type OpenedStore struct {
	Store  docstore.Store
	Checks []handlers.HealthCheck
	close  func()
}

// Close releases the backend connection.
func (o *OpenedStore) Close() {
	if o != nil && o.close != nil {
		o.close()
	}
}

// OpenStore connects the configured document store backend, running SQL
// migrations first for postgres when enabled.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*OpenedStore, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.Pool, cfg.Postgres.MigrationsDir, logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		return &OpenedStore{
			Store:  pg.Documents(),
			Checks: []handlers.HealthCheck{{Name: "postgres", Pinger: pg}},
			close:  pg.Close,
		}, nil

	case config.StoreBackendMongo:
		mongo, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, err
		}
		return &OpenedStore{
			Store:  docstore.NewMongoStore(mongo.DB),
			Checks: []handlers.HealthCheck{{Name: "mongo", Pinger: mongo}},
			close: func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				mongo.Close(closeCtx)
			},
		}, nil

	default:
		logger.Warn("using in-memory document store; data is lost on restart")
		return &OpenedStore{Store: docstore.NewMemoryStore()}, nil
	}
}
