package main

import (
	"context"

	"github.com/lshigami/uteach/config"
	"github.com/lshigami/uteach/database"
	"github.com/lshigami/uteach/internal/repository"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

// Repositories exposes one implementation per repository interface, chosen by STORE_DRIVER.
type Repositories struct {
	fx.Out

	Materials repository.MaterialRepository
	Sessions  repository.SessionRepository
	Answers   repository.AnswerRepository
}

func NewRepositories(lc fx.Lifecycle, cfg *config.Config) (Repositories, error) {
	switch cfg.Store.Driver {
	case config.StorePostgres, config.StoreSQLite:
		db, err := database.NewDatabase(cfg)
		if err != nil {
			return Repositories{}, err
		}
		log.Info().Msg("Running database migrations...")
		if err := repository.AutoMigrate(db); err != nil {
			log.Error().Err(err).Msg("Database migration failed")
			return Repositories{}, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		})
		return Repositories{
			Materials: repository.NewMaterialRepository(db),
			Sessions:  repository.NewSessionRepository(db),
			Answers:   repository.NewAnswerRepository(db),
		}, nil

	case config.StoreMongo:
		client, db, err := database.NewMongo(context.Background(), cfg)
		if err != nil {
			return Repositories{}, err
		}
		if err := repository.InitializeMongoIndexes(context.Background(), db); err != nil {
			_ = client.Disconnect(context.Background())
			return Repositories{}, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return client.Disconnect(ctx)
			},
		})
		return Repositories{
			Materials: repository.NewMongoMaterialRepository(db),
			Sessions:  repository.NewMongoSessionRepository(db),
			Answers:   repository.NewMongoAnswerRepository(db),
		}, nil

	default:
		log.Info().Msg("Using in-memory store, data is lost on restart")
		store := repository.NewMemoryStore()
		return Repositories{
			Materials: store.Materials(),
			Sessions:  store.Sessions(),
			Answers:   store.Answers(),
		}, nil
	}
}
