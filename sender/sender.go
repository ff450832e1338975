//go:generate mockgen -destination mock_sender/mock_sender.go github.com/sensible-care/sensible-push-server/sender Sender

package sender

import (
	"context"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"github.com/anyproto/any-sync/metric"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sensible-care/sensible-push-server/batcher"
	"github.com/sensible-care/sensible-push-server/domain"
	"github.com/sensible-care/sensible-push-server/queue"
	"github.com/sensible-care/sensible-push-server/resolver"
	"github.com/sensible-care/sensible-push-server/tokenpruner"
)

const CName = "push.sender"

var log = logger.NewNamed(CName)

func New() Sender {
	return new(sender)
}

// Sender fans a notification out to every token a selector resolves to.
type Sender interface {
	// RegisterProvider must be called from the provider's Init.
	RegisterProvider(p Provider)
	// Notify returns an error when recipients can't be resolved or, after a
	// successful resolution, when no provider is active.
	// Delivery failures are reported in the result.
	Notify(ctx context.Context, sel domain.Selector, msg domain.Message) (res domain.DispatchResult, err error)
	app.ComponentRunnable
}

type sender struct {
	conf      Config
	resolver  resolver.Resolver
	queue     queue.Queue
	pruner    tokenpruner.Pruner
	providers map[domain.ProviderKind]Provider
	active    []Provider
	metrics   metrics
}

func (s *sender) Init(a *app.App) (err error) {
	s.conf = a.MustComponent("config").(configSource).GetPush()
	s.resolver = a.MustComponent(resolver.CName).(resolver.Resolver)
	if s.conf.AsyncBroadcast {
		s.queue = a.MustComponent(queue.CName).(queue.Queue)
	}
	if s.conf.PruneInvalidTokens {
		s.pruner = a.MustComponent(tokenpruner.CName).(tokenpruner.Pruner)
	}
	if m, ok := a.Component(metric.CName).(metric.Metric); ok {
		registerMetrics(m.Registry(), s)
	}
	return
}

func (s *sender) Name() (name string) {
	return CName
}

func (s *sender) Run(ctx context.Context) (err error) {
	s.active = s.active[:0]
	seen := make(map[domain.ProviderKind]struct{}, len(s.conf.Providers))
	for _, kind := range s.conf.Providers {
		if _, dup := seen[kind]; dup {
			log.Warn("provider is listed twice", zap.String("provider", string(kind)))
			continue
		}
		seen[kind] = struct{}{}
		if p, ok := s.providers[kind]; ok {
			s.active = append(s.active, p)
		} else {
			log.Warn("provider is not available", zap.String("provider", string(kind)))
		}
	}
	if len(s.active) == 0 {
		log.Warn("no active push providers, notifications will fail")
	}
	if s.queue != nil {
		for range s.conf.queueWorkers() {
			if err = s.queue.Consume(ctx, s.handleQueued); err != nil {
				return
			}
		}
	}
	return
}

func (s *sender) RegisterProvider(p Provider) {
	if s.providers == nil {
		s.providers = make(map[domain.ProviderKind]Provider)
	}
	s.providers[p.Kind()] = p
}

func (s *sender) isValidToken(token string) bool {
	return s.providerFor(token) != nil
}

// providerFor returns the first active provider accepting the token.
func (s *sender) providerFor(token string) Provider {
	for _, p := range s.active {
		if p.IsValidToken(token) {
			return p
		}
	}
	return nil
}

type chunk struct {
	provider Provider
	tokens   []string
}

func (s *sender) Notify(ctx context.Context, sel domain.Selector, msg domain.Message) (res domain.DispatchResult, err error) {
	st := time.Now()
	resolution, err := s.resolver.Resolve(ctx, sel, s.isValidToken)
	if err != nil {
		return
	}
	if len(s.active) == 0 {
		return res, domain.ErrNoProviders
	}
	res.Skipped = resolution.Skipped

	chunks := s.split(resolution.Tokens)
	res.Chunks = len(chunks)
	var invalid []string
	for _, outcomes := range s.dispatchAll(ctx, chunks, msg) {
		res.Add(outcomes...)
		for _, o := range outcomes {
			if o.TokenInvalid {
				invalid = append(invalid, o.Token)
			}
		}
	}
	res.Finalize(sel.Kind, resolution.NoToken)

	if len(invalid) > 0 && s.pruner != nil {
		s.pruner.Report(invalid...)
	}
	s.observe(sel, res, time.Since(st))
	return res, nil
}

// split groups tokens by provider, preserving resolution order, and chunks every group.
func (s *sender) split(tokens []string) (chunks []chunk) {
	groups := make(map[domain.ProviderKind][]string, len(s.active))
	for _, t := range tokens {
		if p := s.providerFor(t); p != nil {
			groups[p.Kind()] = append(groups[p.Kind()], t)
		}
	}
	for _, p := range s.active {
		group := groups[p.Kind()]
		if len(group) == 0 {
			continue
		}
		for _, c := range batcher.Chunk(group, s.batchSize(p)) {
			chunks = append(chunks, chunk{provider: p, tokens: c})
		}
	}
	return
}

func (s *sender) batchSize(p Provider) int {
	size := p.MaxBatch()
	if s.conf.BatchSize > 0 && (size <= 0 || s.conf.BatchSize < size) {
		size = s.conf.BatchSize
	}
	if size <= 0 {
		size = 1
	}
	return size
}

func (s *sender) dispatchAll(ctx context.Context, chunks []chunk, msg domain.Message) [][]domain.Outcome {
	if len(chunks) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.conf.timeout())
	defer cancel()

	results := make([][]domain.Outcome, len(chunks))
	var g errgroup.Group
	g.SetLimit(s.conf.concurrency())
	for i, c := range chunks {
		g.Go(func() error {
			results[i] = dispatch(ctx, c.provider, c.tokens, msg)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *sender) handleQueued(msg queue.Message) error {
	res, err := s.Notify(context.Background(), msg.Selector, msg.Message)
	if err != nil {
		log.Warn("queued notification failed", zap.String("selector", msg.Selector.Kind.String()), zap.Error(err))
		return err
	}
	log.Info("queued notification sent",
		zap.String("requester", msg.Selector.RequesterId),
		zap.Duration("queued", time.Since(msg.Created)),
		zap.Bool("success", res.Success),
	)
	return nil
}

func (s *sender) observe(sel domain.Selector, res domain.DispatchResult, dur time.Duration) {
	s.metrics.sendCount.Add(1)
	s.metrics.sendTokens.Add(uint64(res.Attempted()))
	if s.metrics.outcomes != nil {
		s.metrics.outcomes.WithLabelValues(domain.OutcomeAccepted.String()).Add(float64(res.Accepted))
		s.metrics.outcomes.WithLabelValues(domain.OutcomeRejected.String()).Add(float64(res.RejectedCount))
		s.metrics.outcomes.WithLabelValues(domain.OutcomeErrored.String()).Add(float64(res.ErroredCount))
		s.metrics.sendDuration.WithLabelValues(sel.Kind.String()).Observe(dur.Seconds())
	}
	log.Info("notification sent",
		zap.String("selector", sel.Kind.String()),
		zap.String("requester", sel.RequesterId),
		zap.Int("accepted", res.Accepted),
		zap.Int("rejected", res.RejectedCount),
		zap.Int("errored", res.ErroredCount),
		zap.Int("skipped", res.Skipped),
		zap.Int("chunks", res.Chunks),
		zap.Bool("success", res.Success),
		zap.Duration("dur", dur),
	)
}

func (s *sender) Close(ctx context.Context) (err error) {
	return nil
}
