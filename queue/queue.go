//go:generate mockgen -destination mock_queue/mock_queue.go github.com/sensible-care/sensible-push-server/queue Queue

package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sensible-care/sensible-push-server/domain"
	"github.com/sensible-care/sensible-push-server/redisprovider"
)

const CName = "push.queue"

var log = logger.NewNamed(CName)

type configSource interface {
	GetQueue() Config
}

type Config struct {
	Name             string `yaml:"name"`
	PrefetchLimit    int64  `yaml:"prefetchLimit"`
	PollIntervalMs   int    `yaml:"pollIntervalMs"`
	CleanIntervalSec int    `yaml:"cleanIntervalSec"`
}

func (c *Config) setDefaults() {
	if c.Name == "" {
		c.Name = "notifications"
	}
	if c.PrefetchLimit <= 0 {
		c.PrefetchLimit = 10
	}
	if c.PollIntervalMs <= 0 {
		c.PollIntervalMs = 100
	}
	if c.CleanIntervalSec <= 0 {
		c.CleanIntervalSec = 60
	}
}

func New() Queue {
	return new(queue)
}

// Message is a fan-out request waiting for a worker.
type Message struct {
	Selector domain.Selector `json:"selector"`
	Message  domain.Message  `json:"message"`
	Created  time.Time       `json:"created"`
}

type Queue interface {
	// Add publishes msg. Created is set to now when empty.
	Add(ctx context.Context, msg Message) error
	// Consume registers one more consumer. A handler error rejects the delivery.
	Consume(ctx context.Context, handle func(msg Message) error) error
	app.ComponentRunnable
}

type queue struct {
	conf         Config
	client       redis.UniversalClient
	conn         rmq.Connection
	msgs         rmq.Queue
	errCh        chan error
	tag          string
	runCtx       context.Context
	runCtxCancel context.CancelFunc
	done         chan struct{}
}

func (q *queue) Init(a *app.App) (err error) {
	if cs, ok := a.Component("config").(configSource); ok {
		q.conf = cs.GetQueue()
	}
	q.conf.setDefaults()
	q.client = a.MustComponent(redisprovider.CName).(redisprovider.RedisProvider).Redis()
	q.tag = "sensible-" + uuid.NewString()
	q.runCtx, q.runCtxCancel = context.WithCancel(context.Background())
	return
}

func (q *queue) Name() (name string) {
	return CName
}

func (q *queue) Run(ctx context.Context) (err error) {
	q.errCh = make(chan error, 10)
	if q.conn, err = rmq.OpenClusterConnection(q.tag, q.client, q.errCh); err != nil {
		return fmt.Errorf("open rmq connection: %w", err)
	}
	if q.msgs, err = q.conn.OpenQueue(q.conf.Name); err != nil {
		return fmt.Errorf("open queue %q: %w", q.conf.Name, err)
	}
	if err = q.msgs.StartConsuming(q.conf.PrefetchLimit, time.Duration(q.conf.PollIntervalMs)*time.Millisecond); err != nil {
		return
	}
	q.done = make(chan struct{})
	go q.watch()
	return
}

func (q *queue) Add(ctx context.Context, msg Message) error {
	if msg.Created.IsZero() {
		msg.Created = time.Now()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err = q.msgs.Publish(string(data)); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

func (q *queue) Consume(ctx context.Context, handle func(msg Message) error) error {
	_, err := q.msgs.AddConsumer(q.tag, &consumer{
		runCtx: q.runCtx,
		ctx:    ctx,
		handle: handle,
	})
	return err
}

// watch logs rmq errors and periodically returns deliveries left unacked by
// dead connections to the ready list.
func (q *queue) watch() {
	defer close(q.done)
	ticker := time.NewTicker(time.Duration(q.conf.CleanIntervalSec) * time.Second)
	defer ticker.Stop()
	cleaner := rmq.NewCleaner(q.conn)
	for {
		select {
		case <-q.runCtx.Done():
			return
		case err := <-q.errCh:
			log.Warn("rmq error", zap.Error(err))
		case <-ticker.C:
			returned, err := cleaner.Clean()
			if err != nil {
				log.Warn("rmq clean failed", zap.Error(err))
			} else if returned > 0 {
				log.Info("returned unacked deliveries", zap.Int64("count", returned))
			}
		}
	}
}

func (q *queue) Close(ctx context.Context) (err error) {
	if q.runCtxCancel != nil {
		q.runCtxCancel()
	}
	if q.msgs != nil {
		<-q.msgs.StopConsuming()
	}
	if q.done != nil {
		<-q.done
	}
	return nil
}

type consumer struct {
	runCtx context.Context
	ctx    context.Context
	handle func(msg Message) error
}

func (c *consumer) Consume(delivery rmq.Delivery) {
	if c.runCtx.Err() != nil || c.ctx.Err() != nil {
		_ = delivery.Reject()
		return
	}
	var msg Message
	if err := json.Unmarshal([]byte(delivery.Payload()), &msg); err != nil {
		log.Warn("can't decode queued message", zap.Error(err))
		_ = delivery.Reject()
		return
	}
	if err := c.handle(msg); err != nil {
		_ = delivery.Reject()
		return
	}
	if err := delivery.Ack(); err != nil {
		log.Warn("ack failed", zap.Error(err))
	}
}
