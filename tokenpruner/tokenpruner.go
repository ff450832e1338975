//go:generate mockgen -destination mock_tokenpruner/mock_tokenpruner.go github.com/sensible-care/sensible-push-server/tokenpruner Pruner

package tokenpruner

import (
	"context"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"github.com/cheggaaa/mb/v3"
	"go.uber.org/zap"

	"github.com/sensible-care/sensible-push-server/repo/tokenrepo"
)

const CName = "push.tokenpruner"

var log = logger.NewNamed(CName)

const (
	minBatch  = 10
	maxBatch  = 500
	waitLimit = time.Second
)

func New() Pruner {
	return new(pruner)
}

// Pruner removes tokens that providers reported as permanently invalid.
// Removal happens in the background in small batches.
type Pruner interface {
	Report(tokens ...string)
	app.ComponentRunnable
}

type pruner struct {
	tokenRepo     tokenrepo.TokenRepo
	invalidTokens *mb.MB[string]
	done          chan struct{}
}

func (p *pruner) Init(a *app.App) (err error) {
	p.tokenRepo = a.MustComponent(tokenrepo.CName).(tokenrepo.TokenRepo)
	p.invalidTokens = mb.New[string](0)
	p.done = make(chan struct{})
	return
}

func (p *pruner) Name() (name string) {
	return CName
}

func (p *pruner) Run(ctx context.Context) (err error) {
	go p.removeTokensLoop()
	return
}

func (p *pruner) Report(tokens ...string) {
	if len(tokens) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := p.invalidTokens.Add(ctx, tokens...); err != nil {
		log.Warn("can't enqueue invalid tokens", zap.Int("count", len(tokens)), zap.Error(err))
	}
}

func (p *pruner) removeTokensLoop() {
	defer close(p.done)
	ctx := mb.CtxWithTimeLimit(context.Background(), waitLimit)
	cond := p.invalidTokens.NewCond().WithMin(minBatch).WithMax(maxBatch)
	for {
		tokens, err := cond.Wait(ctx)
		if err != nil {
			return
		}
		if len(tokens) == 0 {
			continue
		}
		st := time.Now()
		if err = p.tokenRepo.RemoveTokens(context.Background(), tokens); err != nil {
			log.Error("remove tokens error", zap.Error(err))
		} else {
			log.Info("remove tokens success", zap.Int("count", len(tokens)), zap.Duration("dur", time.Since(st)))
		}
	}
}

func (p *pruner) Close(ctx context.Context) (err error) {
	if err = p.invalidTokens.Close(); err != nil {
		return
	}
	select {
	case <-p.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return
}
