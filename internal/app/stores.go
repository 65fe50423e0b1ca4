// Package app assembles the stores selected by configuration.
package app

import (
	"context"
	"fmt"

	"personnel-tracker/internal/domain/repository"
	"personnel-tracker/internal/infrastructure/config"
	"personnel-tracker/internal/infrastructure/persistence"
	repo "personnel-tracker/internal/interface/repository"
	"personnel-tracker/pkg/logger"
)

// Stores holds the repositories chosen by STORE_DRIVER
type Stores struct {
	Attendance repository.AttendanceRepository
	Personnel  repository.PersonnelRepository

	closers []func(context.Context) error
}

// Close releases every connection opened by OpenStores
func (s *Stores) Close(ctx context.Context) error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// OpenStores connects the configured backend and, when REDIS_URL is set,
// puts the personnel cache in front of the directory
func OpenStores(ctx context.Context, cfg *config.Config, log logger.Logger) (*Stores, error) {
	stores := &Stores{}

	switch cfg.StoreDriver {
	case config.DriverMongo:
		log.Info("Connecting to MongoDB", "database", cfg.MongoDB)
		client, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
		if err != nil {
			return nil, err
		}
		stores.closers = append(stores.closers, client.Disconnect)

		db := persistence.GetDatabase(client, cfg.MongoDB)
		attendance, err := repo.NewMongoAttendanceRepository(ctx, db)
		if err != nil {
			_ = stores.Close(ctx)
			return nil, err
		}
		stores.Attendance = attendance
		stores.Personnel = repo.NewMongoPersonnelRepository(db)

	case config.DriverPostgres:
		log.Info("Connecting to PostgreSQL")
		db, err := persistence.NewPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		stores.closers = append(stores.closers, func(context.Context) error {
			return persistence.ClosePostgres(db)
		})

		if err := persistence.MigratePostgres(ctx, db); err != nil {
			_ = stores.Close(ctx)
			return nil, err
		}
		stores.Attendance = repo.NewGormAttendanceRepository(db)
		stores.Personnel = repo.NewGormPersonnelRepository(db)

	case config.DriverMemory:
		log.Warn("Using in-memory stores; data is lost on restart")
		stores.Attendance = repo.NewInMemoryAttendanceRepository()
		stores.Personnel = repo.NewInMemoryPersonnelRepository()

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	redisClient, err := persistence.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		_ = stores.Close(ctx)
		return nil, err
	}
	if redisClient != nil {
		log.Info("Personnel cache enabled", "ttl", cfg.PersonnelCacheTTL)
		stores.closers = append(stores.closers, func(context.Context) error {
			return redisClient.Close()
		})
		stores.Personnel = repo.NewCachedPersonnelRepository(stores.Personnel, redisClient, cfg.PersonnelCacheTTL, log)
	}

	return stores, nil
}
