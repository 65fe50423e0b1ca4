//go:build integration

package repository_test

import (
	"context"
	"testing"

	"personnel-tracker/internal/domain/repository"
	"personnel-tracker/internal/infrastructure/persistence"
	repo "personnel-tracker/internal/interface/repository"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("personnel_tracker"),
		tcpostgres.WithUsername("tracker"),
		tcpostgres.WithPassword("tracker"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err, "failed to start postgres container")
	testcontainers.CleanupContainer(t, container)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := persistence.NewPostgres(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = persistence.ClosePostgres(db) })

	require.NoError(t, persistence.MigratePostgres(ctx, db))
	// a second run finds nothing pending
	require.NoError(t, persistence.MigratePostgres(ctx, db))
	return db
}

func postgresStores(db *gorm.DB) storeFactory {
	return func(t *testing.T) (repository.AttendanceRepository, repository.PersonnelRepository) {
		t.Helper()
		require.NoError(t, db.Exec("TRUNCATE attendance_records, personnel").Error)
		return repo.NewGormAttendanceRepository(db), repo.NewGormPersonnelRepository(db)
	}
}

func TestGormRepositories(t *testing.T) {
	factory := postgresStores(startPostgres(t))

	t.Run("attendance", func(t *testing.T) { runAttendanceContract(t, factory) })
	t.Run("personnel", func(t *testing.T) { runPersonnelContract(t, factory) })
}
