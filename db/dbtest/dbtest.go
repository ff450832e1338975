// Package dbtest holds helpers for tests that need a live MongoDB.
package dbtest

import (
	"context"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sensible-care/sensible-push-server/db"
)

const defaultConnect = "mongodb://localhost:27017"

// Config returns the connection used by repository tests. Packages pass their
// own database so they can run in parallel. MONGO_TEST_URL overrides the
// local default.
func Config(database string) db.Mongo {
	connect := os.Getenv("MONGO_TEST_URL")
	if connect == "" {
		connect = defaultConnect
	}
	return db.Mongo{
		Connect:  connect,
		Database: database,
	}
}

// SkipIfUnavailable skips the test when MongoDB can't be reached.
func SkipIfUnavailable(t testing.TB) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	opts := options.Client().ApplyURI(Config("").Connect).SetServerSelectionTimeout(2 * time.Second)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		t.Skipf("mongo unavailable: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()
	if err = client.Ping(ctx, nil); err != nil {
		t.Skipf("mongo unavailable: %v", err)
	}
}
