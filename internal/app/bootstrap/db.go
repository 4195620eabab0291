// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/projecthub/internal/app/system/indexes"
	"github.com/dalemusser/projecthub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection and verifies it with a
// ping before the rest of startup proceeds.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(appCfg.MongoURI))
	if err != nil {
		logger.Error("mongo connect failed", zap.Error(err))
		return DBDeps{}, err
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		logger.Error("mongo ping failed", zap.Error(err))
		return DBDeps{}, err
	}

	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))
	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the unique and query indexes the invariants rely
// on. Runs on every startup; index builds are idempotent.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Ping:   appCfg.TimeoutPing,
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	schemaCtx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	if err := indexes.EnsureAll(schemaCtx, deps.MongoDatabase); err != nil {
		logger.Error("index creation failed", zap.Error(err))
		return err
	}
	logger.Info("mongo indexes ensured")
	return nil
}
