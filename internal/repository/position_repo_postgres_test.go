package repository

import (
	"context"
	"testing"
	"time"

	"golang-portfolio/config"
	"golang-portfolio/internal/model"
	"golang-portfolio/pkg/database"
	"golang-portfolio/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgres starts a throwaway postgres container and applies the SQL
// migrations to it.
func setupPostgres(t *testing.T) *database.DB {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("portfolio"),
		tcpostgres.WithUsername("portfolio"),
		tcpostgres.WithPassword("portfolio"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	db, err := database.NewDB(config.Database{
		Driver:   config.DriverPostgres,
		Host:     host,
		Port:     port.Int(),
		User:     "portfolio",
		Password: "portfolio",
		DBName:   "portfolio",
		SSLMode:  "disable",
		LogLevel: "Silent",
	}, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.RunMigrations(database.MigrateUp))
	return db
}

func TestPositionRepository_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupPostgres(t)
	repo := NewPositionRepository(db.DB)
	ctx := context.Background()

	id, err := repo.Create(ctx, samplePosition("tcs"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, samplePosition("TCS"))
	assert.ErrorIs(t, err, ErrDuplicateSymbol)

	exists, err := repo.ExistsBySymbol(ctx, "tcs", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	update := *samplePosition("TCS")
	update.TradeType = model.Bearish
	update.StopLoss, update.Target = 3675, 3325
	require.NoError(t, repo.Update(ctx, id, update))

	positions, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, model.Bearish, positions[0].TradeType)
	assert.Equal(t, 3675.0, positions[0].StopLoss)

	require.NoError(t, repo.Delete(ctx, id))
	assert.ErrorIs(t, repo.Delete(ctx, id), ErrPositionNotFound)

	require.NoError(t, db.RunMigrations(database.MigrateDown))
}
