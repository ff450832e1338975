package testredisprovider

import (
	"context"

	"github.com/alicebob/miniredis/v2"
	"github.com/anyproto/any-sync/app"
	"github.com/redis/go-redis/v9"

	"github.com/sensible-care/sensible-push-server/redisprovider"
)

// NewTestRedisProvider returns a provider backed by an in-process miniredis.
func NewTestRedisProvider() redisprovider.RedisProvider {
	return new(testRedisProvider)
}

type testRedisProvider struct {
	server *miniredis.Miniredis
	client redis.UniversalClient
}

func (t *testRedisProvider) Init(a *app.App) (err error) {
	if t.server, err = miniredis.Run(); err != nil {
		return err
	}
	t.client = redis.NewClient(&redis.Options{Addr: t.server.Addr()})
	return nil
}

func (t *testRedisProvider) Name() (name string) {
	return redisprovider.CName
}

func (t *testRedisProvider) Run(ctx context.Context) error {
	return nil
}

func (t *testRedisProvider) Redis() redis.UniversalClient {
	return t.client
}

func (t *testRedisProvider) Close(ctx context.Context) error {
	_ = t.client.Close()
	t.server.Close()
	return nil
}
