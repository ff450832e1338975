package sender

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sensible-care/sensible-push-server/domain"
)

// Provider delivers one chunk of tokens to a push service.
type Provider interface {
	Kind() domain.ProviderKind
	// MaxBatch is the largest chunk the service accepts in one call.
	MaxBatch() int
	// IsValidToken checks token syntax only.
	IsValidToken(token string) bool
	// SendBatch makes exactly one call to the push service. An error means the
	// whole chunk failed in transport; per-token failures are returned as outcomes.
	SendBatch(ctx context.Context, tokens []string, msg domain.Message) ([]domain.Outcome, error)
}

// dispatch sends one chunk and returns exactly one outcome per token, in token order.
func dispatch(ctx context.Context, p Provider, tokens []string, msg domain.Message) (outcomes []domain.Outcome) {
	if err := ctx.Err(); err != nil {
		return chunkError(tokens, err)
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error("provider panic", zap.String("provider", string(p.Kind())), zap.Any("panic", r))
			outcomes = chunkError(tokens, fmt.Errorf("provider panic: %v", r))
		}
	}()
	res, err := p.SendBatch(ctx, tokens, msg)
	if err != nil {
		log.Warn("chunk failed", zap.String("provider", string(p.Kind())), zap.Int("tokens", len(tokens)), zap.Error(err))
		return chunkError(tokens, err)
	}
	return reconcile(tokens, res)
}

func chunkError(tokens []string, err error) []domain.Outcome {
	outcomes := make([]domain.Outcome, len(tokens))
	for i, t := range tokens {
		outcomes[i] = domain.Errored(t, err.Error())
	}
	return outcomes
}

// reconcile maps provider outcomes back onto the chunk. Tokens the provider
// did not report on are errored; outcomes for unknown tokens are dropped.
func reconcile(tokens []string, res []domain.Outcome) []domain.Outcome {
	byToken := make(map[string]domain.Outcome, len(res))
	for _, o := range res {
		if _, ok := byToken[o.Token]; !ok {
			byToken[o.Token] = o
		}
	}
	outcomes := make([]domain.Outcome, len(tokens))
	for i, t := range tokens {
		if o, ok := byToken[t]; ok {
			outcomes[i] = o
		} else {
			outcomes[i] = domain.Errored(t, domain.ReasonMissingOutcome)
		}
	}
	return outcomes
}
