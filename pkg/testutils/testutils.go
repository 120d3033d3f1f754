// Package testutils starts the real stores behind the integration suites.
// Every helper skips the calling test under -short.
package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/amirasaad/strides/infra"
	"github.com/amirasaad/strides/infra/migrations"
	"github.com/amirasaad/strides/infra/mongodb"
	"github.com/amirasaad/strides/pkg/config"
	"github.com/testcontainers/testcontainers-go"
	tcmongodb "github.com/testcontainers/testcontainers-go/modules/mongodb"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

// MongoDatabase is the database the mongo helpers use.
const MongoDatabase = "strides_test"

// SetupPostgres starts a Postgres container, applies the embedded
// migrations and returns a connection to it.
func SetupPostgres(tb testing.TB) *gorm.DB {
	tb.Helper()
	if testing.Short() {
		tb.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pg, err := startPostgresContainer(ctx)
	if err != nil {
		tb.Fatalf("Failed to start Postgres container: %v", err)
	}
	tb.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		tb.Fatalf("Failed to get Postgres DSN: %v", err)
	}
	db, err := infra.NewDBConnection(&config.DB{Driver: config.DriverPostgres, Url: dsn}, "test")
	if err != nil {
		tb.Fatalf("Failed to connect to Postgres: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("Failed to get sql.DB: %v", err)
	}
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := migrations.Up(sqlDB); err != nil {
		tb.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// SetupMongo starts a single node MongoDB replica set, so session
// transactions work, and returns a client with the indexes in place.
func SetupMongo(tb testing.TB) *mongo.Client {
	tb.Helper()
	if testing.Short() {
		tb.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	container, err := tcmongodb.Run(ctx, "mongo:7", tcmongodb.WithReplicaSet("rs0"))
	if err != nil {
		tb.Fatalf("Failed to start MongoDB container: %v", err)
	}
	tb.Cleanup(func() { _ = container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		tb.Fatalf("Failed to get MongoDB URI: %v", err)
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetDirect(true))
	if err != nil {
		tb.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	tb.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	if err := mongodb.EnsureIndexes(ctx, client.Database(MongoDatabase)); err != nil {
		tb.Fatalf("Failed to create indexes: %v", err)
	}
	return client
}

// startPostgresContainer starts a Postgres container using Testcontainers
func startPostgresContainer(ctx context.Context) (*tcpostgres.PostgresContainer, error) {
	return tcpostgres.Run(
		ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second),
		),
	)
}
