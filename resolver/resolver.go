//go:generate mockgen -destination mock_resolver/mock_resolver.go github.com/sensible-care/sensible-push-server/resolver Resolver

package resolver

import (
	"context"
	"errors"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"go.uber.org/zap"

	"github.com/sensible-care/sensible-push-server/domain"
	"github.com/sensible-care/sensible-push-server/repo/relationrepo"
	"github.com/sensible-care/sensible-push-server/repo/tokenrepo"
	"github.com/sensible-care/sensible-push-server/repo/userrepo"
)

const CName = "push.resolver"

var log = logger.NewNamed(CName)

const defaultPageSize = 1000

type configSource interface {
	GetResolver() Config
}

type Config struct {
	PageSize int `yaml:"pageSize"`
}

func New() Resolver {
	return new(resolver)
}

// Resolver turns a recipient selector into the set of deliverable tokens.
// valid reports whether a token is well-formed for at least one provider.
type Resolver interface {
	Resolve(ctx context.Context, sel domain.Selector, valid func(token string) bool) (res domain.Resolution, err error)
	app.Component
}

type resolver struct {
	userRepo     userrepo.UserRepo
	tokenRepo    tokenrepo.TokenRepo
	relationRepo relationrepo.RelationRepo
	pageSize     int
}

func (r *resolver) Init(a *app.App) (err error) {
	r.userRepo = a.MustComponent(userrepo.CName).(userrepo.UserRepo)
	r.tokenRepo = a.MustComponent(tokenrepo.CName).(tokenrepo.TokenRepo)
	r.relationRepo = a.MustComponent(relationrepo.CName).(relationrepo.RelationRepo)
	r.pageSize = a.MustComponent("config").(configSource).GetResolver().PageSize
	if r.pageSize <= 0 {
		r.pageSize = defaultPageSize
	}
	return
}

func (r *resolver) Name() (name string) {
	return CName
}

func (r *resolver) Resolve(ctx context.Context, sel domain.Selector, valid func(token string) bool) (res domain.Resolution, err error) {
	if valid == nil {
		valid = func(string) bool { return true }
	}
	c := &collector{valid: valid, seen: make(map[string]struct{})}
	switch sel.Kind {
	case domain.SelectUser:
		err = r.resolveUser(ctx, sel.UserId, c)
	case domain.SelectCaretakers:
		err = r.resolveCaretakers(ctx, sel.UserId, c)
	case domain.SelectAll:
		err = r.tokenRepo.IterateTokens(ctx, r.pageSize, sel.ExcludeUserId, func(tokens []domain.UserToken) error {
			for _, t := range tokens {
				c.add(t.Token)
			}
			return nil
		})
	default:
		return res, domain.ErrInvalidSelector
	}
	if err != nil {
		return res, err
	}
	res = c.resolution()
	if res.Skipped > 0 {
		log.Debug("malformed tokens skipped", zap.String("selector", sel.Kind.String()), zap.Int("skipped", res.Skipped))
	}
	return
}

func (r *resolver) resolveUser(ctx context.Context, userId string, c *collector) error {
	if userId == "" {
		return domain.ErrInvalidSelector
	}
	token, ok, err := r.tokenRepo.GetToken(ctx, userId)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrRecipientNotFound
		}
		return err
	}
	if !ok {
		c.noToken = true
		return nil
	}
	c.add(token)
	return nil
}

func (r *resolver) resolveCaretakers(ctx context.Context, patientId string, c *collector) error {
	if patientId == "" {
		return domain.ErrInvalidSelector
	}
	if _, err := r.userRepo.GetById(ctx, patientId); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrRecipientNotFound
		}
		return err
	}
	relations, err := r.relationRepo.Find(ctx, domain.RelationFilter{PatientId: patientId})
	if err != nil {
		return err
	}
	if len(relations) == 0 {
		return nil
	}
	caretakerIds := make([]string, 0, len(relations))
	for _, rel := range relations {
		caretakerIds = append(caretakerIds, rel.CaretakerId)
	}
	userTokens, err := r.tokenRepo.GetTokensByUserIds(ctx, caretakerIds)
	if err != nil {
		return err
	}
	byUser := make(map[string]string, len(userTokens))
	for _, ut := range userTokens {
		byUser[ut.UserId] = ut.Token
	}
	for _, id := range caretakerIds {
		if token, ok := byUser[id]; ok {
			c.add(token)
		}
	}
	return nil
}

type collector struct {
	valid   func(token string) bool
	seen    map[string]struct{}
	tokens  []string
	skipped int
	noToken bool
}

func (c *collector) add(token string) {
	if token == "" {
		return
	}
	if _, ok := c.seen[token]; ok {
		return
	}
	c.seen[token] = struct{}{}
	if !c.valid(token) {
		c.skipped++
		return
	}
	c.tokens = append(c.tokens, token)
}

func (c *collector) resolution() domain.Resolution {
	return domain.Resolution{
		Tokens:  c.tokens,
		Skipped: c.skipped,
		NoToken: c.noToken,
	}
}
