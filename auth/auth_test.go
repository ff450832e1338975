package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/metric"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/sensible-care/sensible-push-server/apierr"
	"github.com/sensible-care/sensible-push-server/domain"
	"github.com/sensible-care/sensible-push-server/httpserver"
	"github.com/sensible-care/sensible-push-server/repo/userrepo"
	"github.com/sensible-care/sensible-push-server/repo/userrepo/mock_userrepo"
)

var ctx = context.Background()

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuth_Signup(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fx := newFixture(t)
		var created domain.User
		fx.userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, user domain.User) error {
			created = user
			return nil
		})
		rec := fx.do(http.MethodPost, "/api/auth/signup", `{"name":"Alice","email":" Alice@Example.com ","password":"pa55word"}`, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Success   bool           `json:"success"`
			UserToken string         `json:"userToken"`
			User      map[string]any `json:"user"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "alice@example.com", created.Email)
		assert.NotEmpty(t, created.Id)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("pa55word")))
		assert.NotContains(t, resp.User, "password")
		assert.NotContains(t, resp.User, "PasswordHash")
		assert.Equal(t, created.Id, resp.User["id"])

		userId, err := fx.ParseToken(resp.UserToken)
		require.NoError(t, err)
		assert.Equal(t, created.Id, userId)
	})
	t.Run("email exists", func(t *testing.T) {
		fx := newFixture(t)
		fx.userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domain.ErrEmailExists)
		rec := fx.do(http.MethodPost, "/api/auth/signup", `{"name":"Alice","email":"alice@example.com","password":"pa55word"}`, "")
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
	t.Run("missing fields", func(t *testing.T) {
		fx := newFixture(t)
		rec := fx.do(http.MethodPost, "/api/auth/signup", `{"email":"alice@example.com"}`, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuth_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pa55word"), bcrypt.MinCost)
	require.NoError(t, err)
	user := domain.User{Id: "u1", Name: "Alice", Email: "alice@example.com", PasswordHash: string(hash)}

	t.Run("success", func(t *testing.T) {
		fx := newFixture(t)
		fx.userRepo.EXPECT().GetByEmail(gomock.Any(), "alice@example.com").Return(user, nil)
		got, token, err := fx.Login(ctx, "ALICE@example.com", "pa55word")
		require.NoError(t, err)
		assert.Equal(t, "u1", got.Id)
		userId, err := fx.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, "u1", userId)
	})
	t.Run("wrong password", func(t *testing.T) {
		fx := newFixture(t)
		fx.userRepo.EXPECT().GetByEmail(gomock.Any(), "alice@example.com").Return(user, nil)
		rec := fx.do(http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"nope"}`, "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
	t.Run("unknown email", func(t *testing.T) {
		fx := newFixture(t)
		fx.userRepo.EXPECT().GetByEmail(gomock.Any(), "bob@example.com").Return(domain.User{}, domain.ErrUserNotFound)
		_, _, err := fx.Login(ctx, "bob@example.com", "pa55word")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
	t.Run("empty password", func(t *testing.T) {
		fx := newFixture(t)
		_, _, err := fx.Login(ctx, "alice@example.com", "")
		require.ErrorIs(t, err, apierr.ErrInvalidRequest)
	})
}

func TestAuth_ParseToken(t *testing.T) {
	fx := newFixture(t)
	sign := func(method jwt.SigningMethod, key any, claims jwt.Claims) string {
		token, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return token
	}
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	valid := sign(jwt.SigningMethodHS256, []byte(testSecret), claims{UserId: "u1", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}})
	userId, err := fx.ParseToken(valid)
	require.NoError(t, err)
	assert.Equal(t, "u1", userId)

	for name, token := range map[string]string{
		"wrong secret": sign(jwt.SigningMethodHS256, []byte("other"), claims{UserId: "u1", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}}),
		"expired":      sign(jwt.SigningMethodHS256, []byte(testSecret), claims{UserId: "u1", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))}}),
		"no expiry":    sign(jwt.SigningMethodHS256, []byte(testSecret), claims{UserId: "u1"}),
		"legacy id":    sign(jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"id": "u1", "exp": exp.Unix()}),
		"other alg":    sign(jwt.SigningMethodHS512, []byte(testSecret), claims{UserId: "u1", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}}),
		"garbage":      "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := fx.ParseToken(token)
			require.ErrorIs(t, err, domain.ErrInvalidToken)
		})
	}
}

func TestAuth_UserInfo(t *testing.T) {
	user := domain.User{Id: "u1", Name: "Alice", Email: "alice@example.com", PasswordHash: "hash", Token: "device-token"}
	t.Run("no session", func(t *testing.T) {
		fx := newFixture(t)
		rec := fx.do(http.MethodGet, "/api/auth/userinfo", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
	t.Run("bad session", func(t *testing.T) {
		fx := newFixture(t)
		rec := fx.do(http.MethodGet, "/api/auth/userinfo", "", "bad")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
	t.Run("success", func(t *testing.T) {
		fx := newFixture(t)
		fx.userRepo.EXPECT().GetById(gomock.Any(), "u1").Return(user, nil)
		rec := fx.do(http.MethodGet, "/api/auth/userinfo", "", fx.token(t, "u1"))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "hash")
		assert.Contains(t, rec.Body.String(), "device-token")
	})
	t.Run("by id", func(t *testing.T) {
		fx := newFixture(t)
		fx.userRepo.EXPECT().GetById(gomock.Any(), "u1").Return(user, nil)
		rec := fx.do(http.MethodGet, "/api/auth/userinfoById?id=u1", "", fx.token(t, "u2"))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"user":{"id":"u1","name":"Alice","email":"alice@example.com","isPatient":false}}`, rec.Body.String())
	})
	t.Run("by id without id", func(t *testing.T) {
		fx := newFixture(t)
		rec := fx.do(http.MethodGet, "/api/auth/userinfoById", "", fx.token(t, "u2"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("by unknown id", func(t *testing.T) {
		fx := newFixture(t)
		fx.userRepo.EXPECT().GetById(gomock.Any(), "x").Return(domain.User{}, domain.ErrUserNotFound)
		rec := fx.do(http.MethodGet, "/api/auth/userinfoById?id=x", "", fx.token(t, "u2"))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

type fixture struct {
	Auth
	a        *app.App
	server   httpserver.HTTPServer
	userRepo *mock_userrepo.MockUserRepo
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	fx := &fixture{
		Auth:     New(),
		a:        new(app.App),
		server:   httpserver.New(),
		userRepo: mock_userrepo.NewMockUserRepo(ctrl),
	}
	fx.userRepo.EXPECT().Name().Return(userrepo.CName).AnyTimes()
	fx.userRepo.EXPECT().Init(gomock.Any()).AnyTimes()
	fx.userRepo.EXPECT().Run(gomock.Any()).AnyTimes()
	fx.userRepo.EXPECT().Close(gomock.Any()).AnyTimes()

	fx.a.Register(&testConfig{}).
		Register(metric.New()).
		Register(fx.server).
		Register(fx.userRepo).
		Register(fx.Auth)
	require.NoError(t, fx.a.Start(ctx))
	t.Cleanup(func() {
		require.NoError(t, fx.a.Close(ctx))
	})
	return fx
}

func (fx *fixture) token(t *testing.T, userId string) string {
	token, err := fx.IssueToken(userId)
	require.NoError(t, err)
	return token
}

func (fx *fixture) do(method, path, body, session string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set("Authorization", "Bearer "+session)
	}
	fx.server.Handler().ServeHTTP(rec, req)
	return rec
}

type testConfig struct{}

func (c *testConfig) Init(a *app.App) (err error) {
	return
}

func (c *testConfig) Name() string {
	return "config"
}

func (c *testConfig) GetMetric() metric.Config {
	return metric.Config{}
}

func (c *testConfig) GetAuth() Config {
	return Config{JWTSecret: testSecret, TokenTTLHours: 1}
}

func (c *testConfig) GetHTTP() httpserver.Config {
	return httpserver.Config{ListenAddr: "127.0.0.1:0"}
}
