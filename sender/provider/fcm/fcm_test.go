package fcm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/anyproto/any-sync/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sensible-care/sensible-push-server/domain"
	"github.com/sensible-care/sensible-push-server/sender"
	"github.com/sensible-care/sensible-push-server/sender/mock_sender"
)

var ctx = context.Background()

var (
	token1 = "dGVzdC10b2tlbi0x:APA91bH" + strings.Repeat("a", 40)
	token2 = "dGVzdC10b2tlbi0y:APA91bH" + strings.Repeat("b", 40)
	token3 = "dGVzdC10b2tlbi0z:APA91bH" + strings.Repeat("c", 40)
)

var errUnregistered = errors.New("registration token is not registered")

func TestFCM_IsValidToken(t *testing.T) {
	f := New()
	assert.True(t, f.IsValidToken(token1))
	assert.True(t, f.IsValidToken(strings.Repeat("x", minTokenLen)))
	assert.False(t, f.IsValidToken(""))
	assert.False(t, f.IsValidToken("short"))
	assert.False(t, f.IsValidToken("ExponentPushToken[xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx]"))
	assert.False(t, f.IsValidToken(strings.Repeat("x", 40)+" with space"))
	assert.False(t, f.IsValidToken(strings.Repeat("x", maxTokenLen+1)))
}

func TestFCM_SendBatch(t *testing.T) {
	client := &testClient{
		resp: &messaging.BatchResponse{
			SuccessCount: 1,
			FailureCount: 2,
			Responses: []*messaging.SendResponse{
				{Success: true, MessageID: "m1"},
				{Error: errUnregistered},
				{Error: errors.New("quota exceeded")},
			},
		},
	}
	f := newTestFCM(client)
	msg := domain.Message{Title: "title", Body: "body", Data: map[string]string{"k": "v"}}
	outcomes, err := f.SendBatch(ctx, []string{token1, token2, token3}, msg)
	require.NoError(t, err)
	assert.Equal(t, []domain.Outcome{
		domain.Accepted(token1),
		domain.Rejected(token2, errUnregistered.Error(), true),
		domain.Rejected(token3, "quota exceeded", false),
	}, outcomes)

	require.NotNil(t, client.msg)
	assert.Equal(t, []string{token1, token2, token3}, client.msg.Tokens)
	assert.Equal(t, "title", client.msg.Notification.Title)
	assert.Equal(t, "body", client.msg.Notification.Body)
	assert.Equal(t, msg.Data, client.msg.Data)
}

func TestFCM_SendBatchError(t *testing.T) {
	f := newTestFCM(&testClient{err: errors.New("transport error")})
	_, err := f.SendBatch(ctx, []string{token1}, domain.Message{Title: "t"})
	require.Error(t, err)
}

func TestFCM_Init(t *testing.T) {
	t.Run("no credentials", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := newSenderMock(ctrl)
		a := new(app.App)
		a.Register(&testConfig{}).Register(s).Register(New())
		require.NoError(t, a.Start(ctx))
		require.NoError(t, a.Close(ctx))
	})
	t.Run("broken credentials", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := newSenderMock(ctrl)
		a := new(app.App)
		a.Register(&testConfig{conf: Config{CredentialsBase64: "not base64!"}}).Register(s).Register(New())
		require.Error(t, a.Start(ctx))
	})
}

func TestCredentials(t *testing.T) {
	opt, err := credentials(Config{})
	require.NoError(t, err)
	assert.Nil(t, opt)

	opt, err = credentials(Config{CredentialsFile: "/etc/sensible/firebase.json"})
	require.NoError(t, err)
	assert.NotNil(t, opt)

	opt, err = credentials(Config{CredentialsBase64: "e30="})
	require.NoError(t, err)
	assert.NotNil(t, opt)
}

func newTestFCM(client multicastClient) *fcm {
	return &fcm{
		client: client,
		isInvalid: func(err error) bool {
			return errors.Is(err, errUnregistered) || isInvalidTokenErr(err)
		},
	}
}

func newSenderMock(ctrl *gomock.Controller) *mock_sender.MockSender {
	s := mock_sender.NewMockSender(ctrl)
	s.EXPECT().Name().Return(sender.CName).AnyTimes()
	s.EXPECT().Init(gomock.Any()).AnyTimes()
	s.EXPECT().Run(gomock.Any()).AnyTimes()
	s.EXPECT().Close(gomock.Any()).AnyTimes()
	return s
}

type testClient struct {
	msg  *messaging.MulticastMessage
	resp *messaging.BatchResponse
	err  error
}

func (c *testClient) SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	c.msg = message
	return c.resp, c.err
}

type testConfig struct {
	conf Config
}

func (c *testConfig) Init(a *app.App) (err error) {
	return
}

func (c *testConfig) Name() string {
	return "config"
}

func (c *testConfig) GetFCM() Config {
	return c.conf
}
