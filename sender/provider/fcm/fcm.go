package fcm

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/sensible-care/sensible-push-server/domain"
	"github.com/sensible-care/sensible-push-server/sender"
)

const CName = "push.provider.fcm"

var log = logger.NewNamed(CName)

const (
	batchSize   = 500
	minTokenLen = 32
	maxTokenLen = 4096
)

func New() FCM {
	return &fcm{isInvalid: isInvalidTokenErr}
}

type FCM interface {
	sender.Provider
	app.Component
}

type multicastClient interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

type fcm struct {
	client    multicastClient
	isInvalid func(err error) bool
}

func (f *fcm) Init(a *app.App) (err error) {
	conf := a.MustComponent("config").(configSource).GetFCM()
	opt, err := credentials(conf)
	if err != nil {
		return err
	}
	if opt == nil {
		log.Warn("fcm credentials are not configured, provider disabled")
		return nil
	}
	if f.client, err = newClient(opt); err != nil {
		return err
	}
	a.MustComponent(sender.CName).(sender.Sender).RegisterProvider(f)
	return
}

func (f *fcm) Name() (name string) {
	return CName
}

func credentials(conf Config) (option.ClientOption, error) {
	switch {
	case conf.CredentialsBase64 != "":
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(conf.CredentialsBase64))
		if err != nil {
			return nil, fmt.Errorf("fcm: decode credentials: %w", err)
		}
		return option.WithCredentialsJSON(data), nil
	case conf.CredentialsFile != "":
		return option.WithCredentialsFile(conf.CredentialsFile), nil
	}
	return nil, nil
}

func newClient(opt option.ClientOption) (*messaging.Client, error) {
	fcmApp, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		return nil, err
	}
	return fcmApp.Messaging(context.Background())
}

func (f *fcm) Kind() domain.ProviderKind {
	return domain.ProviderFCM
}

func (f *fcm) MaxBatch() int {
	return batchSize
}

// IsValidToken accepts registration tokens: long url-safe strings, optionally
// with a ':' separated prefix.
func (f *fcm) IsValidToken(token string) bool {
	if len(token) < minTokenLen || len(token) > maxTokenLen {
		return false
	}
	for _, r := range token {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == ':', r == '.':
		default:
			return false
		}
	}
	return true
}

func (f *fcm) SendBatch(ctx context.Context, tokens []string, msg domain.Message) ([]domain.Outcome, error) {
	response, err := f.client.SendEachForMulticast(ctx, buildFcmMessage(tokens, msg))
	if err != nil {
		return nil, err
	}
	outcomes := make([]domain.Outcome, 0, len(tokens))
	for i, resp := range response.Responses {
		if i >= len(tokens) {
			break
		}
		if resp.Error == nil {
			outcomes = append(outcomes, domain.Accepted(tokens[i]))
			continue
		}
		invalid := f.isInvalid(resp.Error)
		if invalid {
			log.Info("mark token as invalid", zap.String("token", tokens[i]), zap.Error(resp.Error))
		} else {
			log.Warn("fcm returned error", zap.Error(resp.Error), zap.String("token", tokens[i]))
		}
		outcomes = append(outcomes, domain.Rejected(tokens[i], resp.Error.Error(), invalid))
	}
	log.Info("push sent", zap.Int("success", response.SuccessCount), zap.Int("failure", response.FailureCount))
	return outcomes, nil
}

// isInvalidTokenErr reports errors after which the token will never be accepted again.
func isInvalidTokenErr(err error) bool {
	return messaging.IsInvalidArgument(err) || messaging.IsUnregistered(err) || messaging.IsSenderIDMismatch(err)
}

func buildFcmMessage(tokens []string, msg domain.Message) *messaging.MulticastMessage {
	return &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}
}
