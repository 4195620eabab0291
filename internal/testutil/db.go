package testutil

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/projecthub/internal/app/system/indexes"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// defaultTestURI is used when PROJECTHUB_TEST_MONGO_URI is not set.
const defaultTestURI = "mongodb://localhost:27017"

// SetupTestDB connects to a local MongoDB and returns a unique, empty
// database for this test. The database is dropped on cleanup. If no server
// is reachable the test is skipped, so the suite still runs on machines
// without MongoDB.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("PROJECTHUB_TEST_MONGO_URI")
	if uri == "" {
		uri = defaultTestURI
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("mongo not available at %s: %v", uri, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		t.Skipf("mongo not reachable at %s: %v", uri, err)
	}

	name := "projecthub_test_" + strings.ReplaceAll(uuid.New().String()[:13], "-", "")
	db := client.Database(name)

	if err := indexes.EnsureAll(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		t.Fatalf("ensure test indexes: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	return db
}

// TestContext returns a context with a generous timeout for test DB work.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
