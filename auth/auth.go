package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"github.com/anyproto/any-sync/metric"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sensible-care/sensible-push-server/apierr"
	"github.com/sensible-care/sensible-push-server/domain"
	"github.com/sensible-care/sensible-push-server/httpserver"
	"github.com/sensible-care/sensible-push-server/repo/userrepo"
)

const CName = "auth"

var log = logger.NewNamed(CName)

const (
	defaultTokenTTL = 30 * 24 * time.Hour
	userIdKey       = "auth.userId"
)

type configSource interface {
	GetAuth() Config
}

type Config struct {
	JWTSecret     string `yaml:"jwtSecret"`
	TokenTTLHours int    `yaml:"tokenTtlHours"`
}

func New() Auth {
	return new(auth)
}

type Auth interface {
	Signup(ctx context.Context, name, email, password string) (user domain.User, token string, err error)
	Login(ctx context.Context, email, password string) (user domain.User, token string, err error)
	IssueToken(userId string) (token string, err error)
	ParseToken(token string) (userId string, err error)
	// Middleware rejects requests without a valid bearer session token.
	Middleware() gin.HandlerFunc
	app.Component
}

type claims struct {
	UserId string `json:"userId"`
	jwt.RegisteredClaims
}

type auth struct {
	userRepo userrepo.UserRepo
	metric   metric.Metric
	secret   []byte
	ttl      time.Duration
}

func (s *auth) Init(a *app.App) (err error) {
	conf := a.MustComponent("config").(configSource).GetAuth()
	if conf.JWTSecret == "" {
		return errors.New("auth: jwt secret is empty")
	}
	s.secret = []byte(conf.JWTSecret)
	s.ttl = defaultTokenTTL
	if conf.TokenTTLHours > 0 {
		s.ttl = time.Duration(conf.TokenTTLHours) * time.Hour
	}
	s.userRepo = a.MustComponent(userrepo.CName).(userrepo.UserRepo)
	s.metric = a.MustComponent(metric.CName).(metric.Metric)
	s.registerRoutes(a.MustComponent(httpserver.CName).(httpserver.HTTPServer).Router())
	return
}

func (s *auth) Name() (name string) {
	return CName
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *auth) Signup(ctx context.Context, name, email, password string) (user domain.User, token string, err error) {
	name, email = strings.TrimSpace(name), normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return user, "", fmt.Errorf("%w: name, email and password are required", apierr.ErrInvalidRequest)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user, "", err
	}
	user = domain.User{
		Id:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err = s.userRepo.Create(ctx, user); err != nil {
		return domain.User{}, "", err
	}
	if token, err = s.IssueToken(user.Id); err != nil {
		return domain.User{}, "", err
	}
	log.Info("user signed up", zap.String("userId", user.Id))
	return user, token, nil
}

func (s *auth) Login(ctx context.Context, email, password string) (user domain.User, token string, err error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return user, "", fmt.Errorf("%w: email and password are required", apierr.ErrInvalidRequest)
	}
	if user, err = s.userRepo.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, "", domain.ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}
	if token, err = s.IssueToken(user.Id); err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

func (s *auth) IssueToken(userId string) (token string, err error) {
	now := time.Now()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserId: userId,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}).SignedString(s.secret)
}

func (s *auth) ParseToken(token string) (userId string, err error) {
	var c claims
	_, err = jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || c.UserId == "" {
		return "", domain.ErrInvalidToken
	}
	return c.UserId, nil
}

func (s *auth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			apierr.Abort(c, apierr.ErrUnauthorized)
			return
		}
		userId, err := s.ParseToken(strings.TrimSpace(token))
		if err != nil {
			apierr.Abort(c, err)
			return
		}
		c.Set(userIdKey, userId)
		c.Next()
	}
}

// UserId returns the id of the authenticated requester.
func UserId(c *gin.Context) string {
	return c.GetString(userIdKey)
}
