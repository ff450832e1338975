package sender

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sensible-care/sensible-push-server/domain"
)

func TestDispatch(t *testing.T) {
	msg := domain.Message{Title: "t", Body: "b"}
	t.Run("outcomes in token order", func(t *testing.T) {
		p := newTestProvider(domain.ProviderFCM, "f", 10)
		p.send = func(tokens []string) ([]domain.Outcome, error) {
			return []domain.Outcome{
				domain.Rejected("f2", "bad", true),
				domain.Accepted("f1"),
			}, nil
		}
		outcomes := dispatch(ctx, p, []string{"f1", "f2"}, msg)
		assert.Equal(t, []domain.Outcome{domain.Accepted("f1"), domain.Rejected("f2", "bad", true)}, outcomes)
	})
	t.Run("transport error", func(t *testing.T) {
		p := newTestProvider(domain.ProviderFCM, "f", 10)
		p.send = func(tokens []string) ([]domain.Outcome, error) {
			return nil, errors.New("connection refused")
		}
		outcomes := dispatch(ctx, p, []string{"f1", "f2"}, msg)
		assert.Equal(t, []domain.Outcome{
			domain.Errored("f1", "connection refused"),
			domain.Errored("f2", "connection refused"),
		}, outcomes)
	})
	t.Run("missing outcomes", func(t *testing.T) {
		p := newTestProvider(domain.ProviderFCM, "f", 10)
		p.send = func(tokens []string) ([]domain.Outcome, error) {
			return []domain.Outcome{domain.Accepted("f1"), domain.Accepted("unknown")}, nil
		}
		outcomes := dispatch(ctx, p, []string{"f1", "f2"}, msg)
		assert.Equal(t, []domain.Outcome{
			domain.Accepted("f1"),
			domain.Errored("f2", domain.ReasonMissingOutcome),
		}, outcomes)
	})
	t.Run("context done", func(t *testing.T) {
		p := newTestProvider(domain.ProviderFCM, "f", 10)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		outcomes := dispatch(cctx, p, []string{"f1"}, msg)
		assert.Equal(t, []domain.Outcome{domain.Errored("f1", context.Canceled.Error())}, outcomes)
		assert.Empty(t, p.Calls())
	})
	t.Run("provider panic", func(t *testing.T) {
		p := newTestProvider(domain.ProviderFCM, "f", 10)
		p.send = func(tokens []string) ([]domain.Outcome, error) {
			panic("boom")
		}
		outcomes := dispatch(ctx, p, []string{"f1"}, msg)
		assert.Len(t, outcomes, 1)
		assert.Equal(t, domain.OutcomeErrored, outcomes[0].Status)
		assert.Contains(t, outcomes[0].Reason, "boom")
	})
}
