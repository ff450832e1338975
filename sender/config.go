package sender

import (
	"time"

	"github.com/sensible-care/sensible-push-server/domain"
)

const (
	defaultConcurrency  = 4
	defaultTimeout      = 30 * time.Second
	defaultQueueWorkers = 4
)

type configSource interface {
	GetPush() Config
}

type Config struct {
	Providers              []domain.ProviderKind `yaml:"providers"`
	BatchSize              int                   `yaml:"batchSize"`
	Concurrency            int                   `yaml:"concurrency"`
	TimeoutSec             int                   `yaml:"timeoutSec"`
	BroadcastIncludeSender *bool                 `yaml:"broadcastIncludeSender"`
	PruneInvalidTokens     bool                  `yaml:"pruneInvalidTokens"`
	AsyncBroadcast         bool                  `yaml:"asyncBroadcast"`
	QueueWorkers           int                   `yaml:"queueWorkers"`
}

// IncludeSender reports whether broadcasts reach the requester too. Defaults to true.
func (c Config) IncludeSender() bool {
	return c.BroadcastIncludeSender == nil || *c.BroadcastIncludeSender
}

func (c Config) concurrency() int {
	if c.Concurrency > 0 {
		return c.Concurrency
	}
	return defaultConcurrency
}

func (c Config) timeout() time.Duration {
	if c.TimeoutSec > 0 {
		return time.Duration(c.TimeoutSec) * time.Second
	}
	return defaultTimeout
}

func (c Config) queueWorkers() int {
	if c.QueueWorkers > 0 {
		return c.QueueWorkers
	}
	return defaultQueueWorkers
}
