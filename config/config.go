package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/metric"
	"gopkg.in/yaml.v3"

	"github.com/sensible-care/sensible-push-server/auth"
	"github.com/sensible-care/sensible-push-server/db"
	"github.com/sensible-care/sensible-push-server/domain"
	"github.com/sensible-care/sensible-push-server/httpserver"
	"github.com/sensible-care/sensible-push-server/queue"
	"github.com/sensible-care/sensible-push-server/redisprovider"
	"github.com/sensible-care/sensible-push-server/resolver"
	"github.com/sensible-care/sensible-push-server/sender"
	"github.com/sensible-care/sensible-push-server/sender/provider/expo"
	"github.com/sensible-care/sensible-push-server/sender/provider/fcm"
)

const CName = "config"

func NewFromFile(path string) (c *Config, err error) {
	c = &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return nil, err
	}
	return
}

type Config struct {
	HTTP     httpserver.Config    `yaml:"http"`
	Metric   metric.Config        `yaml:"metric"`
	Auth     auth.Config          `yaml:"auth"`
	Mongo    db.Mongo             `yaml:"mongo"`
	Redis    redisprovider.Config `yaml:"redis"`
	Push     sender.Config        `yaml:"push"`
	Queue    queue.Config         `yaml:"queue"`
	Resolver resolver.Config      `yaml:"resolver"`
	FCM      fcm.Config           `yaml:"fcm"`
	Expo     expo.Config          `yaml:"expo"`
}

// ApplyEnv overrides file values with the environment variables the service
// has always been deployed with.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.HTTP.ListenAddr = ":" + v
	}
	if v := os.Getenv("METRIC_ADDR"); v != "" {
		c.Metric.Addr = v
	}
	if v := os.Getenv("MONGO_URL"); v != "" {
		c.Mongo.Connect = v
	}
	if v := os.Getenv("MONGO_DB"); v != "" {
		c.Mongo.Database = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Redis.Url = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("FIREBASE_CREDENTIAL_BASE64"); v != "" {
		c.FCM.CredentialsBase64 = v
	}
	if v := os.Getenv("FIREBASE_CREDENTIAL_FILE"); v != "" {
		c.FCM.CredentialsFile = v
	}
	if v := os.Getenv("EXPO_ACCESS_TOKEN"); v != "" {
		c.Expo.AccessToken = v
	}
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwtSecret is required")
	}
	if c.Mongo.Connect == "" || c.Mongo.Database == "" {
		return errors.New("mongo.connect and mongo.database are required")
	}
	if len(c.Push.Providers) == 0 {
		c.Push.Providers = []domain.ProviderKind{domain.ProviderFCM}
	}
	seen := make(map[domain.ProviderKind]bool, len(c.Push.Providers))
	for _, p := range c.Push.Providers {
		if p != domain.ProviderFCM && p != domain.ProviderExpo {
			return fmt.Errorf("push.providers: unknown provider %q", p)
		}
		if seen[p] {
			return fmt.Errorf("push.providers: provider %q is listed twice", p)
		}
		seen[p] = true
	}
	if c.Push.BatchSize < 0 {
		return errors.New("push.batchSize can't be negative")
	}
	if c.Push.Concurrency < 0 || c.Push.TimeoutSec < 0 || c.Push.QueueWorkers < 0 {
		return errors.New("push.concurrency, push.timeoutSec and push.queueWorkers can't be negative")
	}
	if c.Queue.PrefetchLimit < 0 || c.Queue.PollIntervalMs < 0 || c.Queue.CleanIntervalSec < 0 {
		return errors.New("queue settings can't be negative")
	}
	if c.Resolver.PageSize < 0 {
		return errors.New("resolver.pageSize can't be negative")
	}
	if c.Push.AsyncBroadcast && c.Redis.Url == "" {
		return errors.New("push.asyncBroadcast requires redis.url")
	}
	return nil
}

func (c *Config) Init(a *app.App) (err error) {
	return nil
}

func (c *Config) Name() (name string) {
	return CName
}

func (c *Config) GetHTTP() httpserver.Config {
	return c.HTTP
}

func (c *Config) GetMetric() metric.Config {
	return c.Metric
}

func (c *Config) GetAuth() auth.Config {
	return c.Auth
}

func (c *Config) GetMongo() db.Mongo {
	return c.Mongo
}

func (c *Config) GetRedis() redisprovider.Config {
	return c.Redis
}

func (c *Config) GetPush() sender.Config {
	return c.Push
}

func (c *Config) GetQueue() queue.Config {
	return c.Queue
}

func (c *Config) GetResolver() resolver.Config {
	return c.Resolver
}

func (c *Config) GetFCM() fcm.Config {
	return c.FCM
}

func (c *Config) GetExpo() expo.Config {
	return c.Expo
}
