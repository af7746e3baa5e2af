// Package testdb provides a migrated Postgres pool for integration tests.
package testdb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	once sync.Once
	pool *pgxpool.Pool
	err  error
)

// Pool returns a pool on DB_URL when set, otherwise on a throwaway Postgres container.
// The test is skipped when neither is reachable.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	once.Do(func() {
		_ = godotenv.Load(".env")
		_ = godotenv.Load(filepath.Join("..", "..", ".env"))

		dbURL := os.Getenv("DB_URL")
		if dbURL == "" {
			dbURL, err = startContainer()
			if err != nil {
				return
			}
		}

		dir, dirErr := database.FindMigrationsDir()
		if dirErr != nil {
			err = dirErr
			return
		}
		if err = database.RunMigrations(dbURL, dir, database.MigrateUp); err != nil {
			return
		}

		pool, err = database.NewPool(context.Background(), dbURL)
	})

	if err != nil {
		t.Skipf("skipping integration test: %v", err)
	}
	return pool
}

func startContainer() (dbURL string, err error) {
	defer func() {
		// testcontainers panics when no docker host can be resolved.
		if r := recover(); r != nil {
			err = fmt.Errorf("docker unavailable: %v", r)
		}
	}()

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "gym",
				"POSTGRES_PASSWORD": "gym",
				"POSTGRES_DB":       "gym_test",
			},
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
				wait.ForListeningPort("5432/tcp"),
			).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return "", err
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", err
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("postgres://gym:gym@%s:%s/gym_test?sslmode=disable", host, port.Port()), nil
}
