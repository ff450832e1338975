package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/anyproto/any-sync/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensible-care/sensible-push-server/domain"
	"github.com/sensible-care/sensible-push-server/redisprovider/testredisprovider"
)

var ctx = context.Background()

func TestQueue_Consume(t *testing.T) {
	fx := newFixture(t)
	var toSend = []Message{
		{
			Selector: domain.Selector{Kind: domain.SelectAll, RequesterId: "u1"},
			Message:  domain.Message{Title: "one", Body: "first"},
			Created:  time.Now().Round(time.Hour).UTC(),
		},
		{
			Selector: domain.Selector{Kind: domain.SelectAll, RequesterId: "u2", ExcludeUserId: "u2"},
			Message:  domain.Message{Title: "two", Body: "second", Data: map[string]string{"k": "v"}},
			Created:  time.Now().Round(time.Hour).UTC(),
		},
	}
	require.NoError(t, fx.Add(ctx, toSend[0]))
	var msgs = make(chan Message)
	require.NoError(t, fx.Consume(ctx, func(msg Message) error {
		msgs <- msg
		return nil
	}))

	require.NoError(t, fx.Add(ctx, toSend[1]))
	var result = make([]Message, 2)
	for i := range result {
		select {
		case msg := <-msgs:
			result[i] = msg
		case <-time.After(time.Second):
			t.Fatal("timeout")
		}
	}
	assert.Equal(t, toSend, result)
}

func TestQueue_ConsumeError(t *testing.T) {
	fx := newFixture(t)
	var calls = make(chan struct{}, 1)
	require.NoError(t, fx.Consume(ctx, func(msg Message) error {
		calls <- struct{}{}
		return errors.New("failed")
	}))
	require.NoError(t, fx.Add(ctx, Message{Selector: domain.Selector{Kind: domain.SelectAll}}))
	select {
	case <-calls:
	case <-time.After(time.Second):
		t.Fatal("timeout")
	}
}

func TestQueue_ConfiguredName(t *testing.T) {
	fx := newFixture(t, &testConfig{conf: Config{Name: "broadcasts", PollIntervalMs: 10}})
	assert.Equal(t, "broadcasts", fx.Queue.(*queue).conf.Name)
	assert.Equal(t, int64(10), fx.Queue.(*queue).conf.PrefetchLimit)

	var msgs = make(chan Message, 1)
	require.NoError(t, fx.Consume(ctx, func(msg Message) error {
		msgs <- msg
		return nil
	}))
	require.NoError(t, fx.Add(ctx, Message{Selector: domain.Selector{Kind: domain.SelectAll}}))
	select {
	case msg := <-msgs:
		assert.Equal(t, domain.SelectAll, msg.Selector.Kind)
		assert.False(t, msg.Created.IsZero())
	case <-time.After(time.Second):
		t.Fatal("timeout")
	}
}

func TestConsumer_Consume(t *testing.T) {
	payload := `{"selector":{"kind":3},"message":{"title":"t","body":"b"},"created":"2024-01-01T00:00:00Z"}`
	t.Run("ack", func(t *testing.T) {
		var got Message
		c := &consumer{runCtx: ctx, ctx: ctx, handle: func(msg Message) error {
			got = msg
			return nil
		}}
		d := rmq.NewTestDeliveryString(payload)
		c.Consume(d)
		assert.Equal(t, rmq.Acked, d.State)
		assert.Equal(t, domain.SelectAll, got.Selector.Kind)
		assert.Equal(t, "t", got.Message.Title)
	})
	t.Run("handler error", func(t *testing.T) {
		c := &consumer{runCtx: ctx, ctx: ctx, handle: func(msg Message) error {
			return errors.New("failed")
		}}
		d := rmq.NewTestDeliveryString(payload)
		c.Consume(d)
		assert.Equal(t, rmq.Rejected, d.State)
	})
	t.Run("bad payload", func(t *testing.T) {
		c := &consumer{runCtx: ctx, ctx: ctx, handle: func(msg Message) error {
			t.Fatal("unexpected call")
			return nil
		}}
		d := rmq.NewTestDeliveryString("{")
		c.Consume(d)
		assert.Equal(t, rmq.Rejected, d.State)
	})
	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		c := &consumer{runCtx: ctx, ctx: cctx, handle: func(msg Message) error {
			t.Fatal("unexpected call")
			return nil
		}}
		d := rmq.NewTestDeliveryString(payload)
		c.Consume(d)
		assert.Equal(t, rmq.Rejected, d.State)
	})
}

type fixture struct {
	Queue
	a *app.App
}

func newFixture(t *testing.T, conf ...*testConfig) *fixture {
	fx := &fixture{
		Queue: New(),
		a:     new(app.App),
	}
	for _, c := range conf {
		fx.a.Register(c)
	}
	fx.a.Register(testredisprovider.NewTestRedisProvider()).Register(fx.Queue)
	require.NoError(t, fx.a.Start(ctx))
	t.Cleanup(func() {
		require.NoError(t, fx.a.Close(ctx))
	})
	return fx
}

type testConfig struct {
	conf Config
}

func (c *testConfig) Init(a *app.App) (err error) {
	return
}

func (c *testConfig) Name() string {
	return "config"
}

func (c *testConfig) GetQueue() Config {
	return c.conf
}
