package push

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"github.com/anyproto/any-sync/metric"
	"go.uber.org/zap"

	"github.com/sensible-care/sensible-push-server/apierr"
	"github.com/sensible-care/sensible-push-server/auth"
	"github.com/sensible-care/sensible-push-server/domain"
	"github.com/sensible-care/sensible-push-server/httpserver"
	"github.com/sensible-care/sensible-push-server/queue"
	"github.com/sensible-care/sensible-push-server/repo/tokenrepo"
	"github.com/sensible-care/sensible-push-server/sender"
)

const CName = "push"

var log = logger.NewNamed(CName)

type configSource interface {
	GetPush() sender.Config
}

func New() Push {
	return new(push)
}

type Push interface {
	SetToken(ctx context.Context, userId, token string) (err error)
	GetToken(ctx context.Context, userId string) (token string, ok bool, err error)
	ClearToken(ctx context.Context, userId string) (err error)
	SendToUser(ctx context.Context, requesterId, receiverId string, msg domain.Message) (res domain.DispatchResult, err error)
	SendToCaretakers(ctx context.Context, patientId string, msg domain.Message) (res domain.DispatchResult, err error)
	// SendToAll returns queued=true when the broadcast was handed to the queue
	// instead of being dispatched inline.
	SendToAll(ctx context.Context, requesterId string, msg domain.Message) (res domain.DispatchResult, queued bool, err error)
	app.Component
}

type push struct {
	conf      sender.Config
	tokenRepo tokenrepo.TokenRepo
	sender    sender.Sender
	queue     queue.Queue
	auth      auth.Auth
	metric    metric.Metric
}

func (p *push) Init(a *app.App) (err error) {
	p.conf = a.MustComponent("config").(configSource).GetPush()
	p.tokenRepo = a.MustComponent(tokenrepo.CName).(tokenrepo.TokenRepo)
	p.sender = a.MustComponent(sender.CName).(sender.Sender)
	if p.conf.AsyncBroadcast {
		p.queue = a.MustComponent(queue.CName).(queue.Queue)
	}
	p.auth = a.MustComponent(auth.CName).(auth.Auth)
	p.metric = a.MustComponent(metric.CName).(metric.Metric)
	p.registerRoutes(a.MustComponent(httpserver.CName).(httpserver.HTTPServer).Router())
	return
}

func (p *push) Name() (name string) {
	return CName
}

func (p *push) SetToken(ctx context.Context, userId, token string) (err error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: token is required", apierr.ErrInvalidRequest)
	}
	return p.tokenRepo.SetToken(ctx, userId, token)
}

func (p *push) GetToken(ctx context.Context, userId string) (token string, ok bool, err error) {
	return p.tokenRepo.GetToken(ctx, userId)
}

func (p *push) ClearToken(ctx context.Context, userId string) (err error) {
	return p.tokenRepo.ClearToken(ctx, userId)
}

func validateMessage(msg domain.Message) error {
	if strings.TrimSpace(msg.Title) == "" || strings.TrimSpace(msg.Body) == "" {
		return fmt.Errorf("%w: title and body are required", apierr.ErrInvalidRequest)
	}
	return nil
}

func (p *push) SendToUser(ctx context.Context, requesterId, receiverId string, msg domain.Message) (res domain.DispatchResult, err error) {
	if receiverId == "" {
		return res, fmt.Errorf("%w: receiverId is required", apierr.ErrInvalidRequest)
	}
	if err = validateMessage(msg); err != nil {
		return
	}
	return p.sender.Notify(ctx, domain.Selector{
		Kind:        domain.SelectUser,
		UserId:      receiverId,
		RequesterId: requesterId,
	}, msg)
}

func (p *push) SendToCaretakers(ctx context.Context, patientId string, msg domain.Message) (res domain.DispatchResult, err error) {
	if err = validateMessage(msg); err != nil {
		return
	}
	return p.sender.Notify(ctx, domain.Selector{
		Kind:        domain.SelectCaretakers,
		UserId:      patientId,
		RequesterId: patientId,
	}, msg)
}

func (p *push) SendToAll(ctx context.Context, requesterId string, msg domain.Message) (res domain.DispatchResult, queued bool, err error) {
	if err = validateMessage(msg); err != nil {
		return
	}
	sel := domain.Selector{
		Kind:        domain.SelectAll,
		RequesterId: requesterId,
	}
	if !p.conf.IncludeSender() {
		sel.ExcludeUserId = requesterId
	}
	if p.queue != nil {
		if err = p.queue.Add(ctx, queue.Message{Selector: sel, Message: msg, Created: time.Now()}); err != nil {
			return
		}
		log.Info("broadcast queued", zap.String("requester", requesterId))
		return res, true, nil
	}
	res, err = p.sender.Notify(ctx, sel, msg)
	return res, false, err
}
