package expo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"go.uber.org/zap"

	"github.com/sensible-care/sensible-push-server/domain"
	"github.com/sensible-care/sensible-push-server/sender"
)

const CName = "push.provider.expo"

var log = logger.NewNamed(CName)

const (
	defaultEndpoint = "https://exp.host/--/api/v2/push/send"
	defaultTimeout  = 30 * time.Second
	batchSize       = 100
	maxResponseSize = 1 << 20
)

const errDeviceNotRegistered = "DeviceNotRegistered"

var tokenRe = regexp.MustCompile(`^(ExponentPushToken|ExpoPushToken)\[[^\]]+\]$`)

func New() Expo {
	return new(expo)
}

type Expo interface {
	sender.Provider
	app.Component
}

type expo struct {
	httpClient  *http.Client
	endpoint    string
	accessToken string
	maxResponse int64
}

func (e *expo) Init(a *app.App) (err error) {
	conf := a.MustComponent("config").(configSource).GetExpo()
	e.endpoint = conf.Endpoint
	if e.endpoint == "" {
		e.endpoint = defaultEndpoint
	}
	e.accessToken = conf.AccessToken
	timeout := defaultTimeout
	if conf.TimeoutSec > 0 {
		timeout = time.Duration(conf.TimeoutSec) * time.Second
	}
	e.httpClient = &http.Client{Timeout: timeout}
	e.maxResponse = maxResponseSize
	a.MustComponent(sender.CName).(sender.Sender).RegisterProvider(e)
	return
}

func (e *expo) Name() (name string) {
	return CName
}

func (e *expo) Kind() domain.ProviderKind {
	return domain.ProviderExpo
}

func (e *expo) MaxBatch() int {
	return batchSize
}

func (e *expo) IsValidToken(token string) bool {
	return tokenRe.MatchString(token)
}

type pushMessage struct {
	To       string            `json:"to"`
	Title    string            `json:"title,omitempty"`
	Body     string            `json:"body,omitempty"`
	Data     map[string]string `json:"data,omitempty"`
	Sound    string            `json:"sound,omitempty"`
	Priority string            `json:"priority,omitempty"`
}

type pushTicket struct {
	Status  string `json:"status"`
	Id      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	Details struct {
		Error string `json:"error,omitempty"`
	} `json:"details"`
}

type requestError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type pushResponse struct {
	Data   []pushTicket   `json:"data"`
	Errors []requestError `json:"errors"`
}

func (e *expo) SendBatch(ctx context.Context, tokens []string, msg domain.Message) ([]domain.Outcome, error) {
	messages := make([]pushMessage, len(tokens))
	for i, t := range tokens {
		messages[i] = pushMessage{
			To:       t,
			Title:    msg.Title,
			Body:     msg.Body,
			Data:     msg.Data,
			Sound:    "default",
			Priority: "high",
		}
	}
	resp, err := e.post(ctx, messages)
	if err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("expo: %s: %s", resp.Errors[0].Code, resp.Errors[0].Message)
	}
	if len(resp.Data) != len(tokens) {
		return nil, fmt.Errorf("expo: got %d tickets for %d messages", len(resp.Data), len(tokens))
	}
	outcomes := make([]domain.Outcome, len(tokens))
	var failed int
	for i, ticket := range resp.Data {
		if ticket.Status == "ok" {
			outcomes[i] = domain.Accepted(tokens[i])
			continue
		}
		failed++
		reason := ticket.Message
		if reason == "" {
			reason = ticket.Details.Error
		}
		invalid := ticket.Details.Error == errDeviceNotRegistered
		if !invalid {
			log.Warn("expo ticket error", zap.String("token", tokens[i]), zap.String("error", ticket.Details.Error), zap.String("message", ticket.Message))
		}
		outcomes[i] = domain.Rejected(tokens[i], reason, invalid)
	}
	log.Info("push sent", zap.Int("success", len(tokens)-failed), zap.Int("failure", failed))
	return outcomes, nil
}

func (e *expo) post(ctx context.Context, messages []pushMessage) (*pushResponse, error) {
	body, err := json.Marshal(messages)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if e.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+e.accessToken)
	}
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, e.maxResponse+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > e.maxResponse {
		return nil, fmt.Errorf("expo: status %d: response exceeds %d bytes", resp.StatusCode, e.maxResponse)
	}
	var res pushResponse
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if json.Unmarshal(data, &res) == nil && len(res.Errors) > 0 {
			return nil, fmt.Errorf("expo: status %d: %s", resp.StatusCode, res.Errors[0].Message)
		}
		return nil, fmt.Errorf("expo: status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if err = json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("expo: decode response: %w", err)
	}
	return &res, nil
}
