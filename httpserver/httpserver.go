package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"github.com/anyproto/any-sync/metric"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sensible-care/sensible-push-server/apierr"
)

const CName = "httpserver"

var log = logger.NewNamed(CName)

const defaultListenAddr = ":3000"

type configSource interface {
	GetHTTP() Config
}

type Config struct {
	ListenAddr string `yaml:"listen"`
}

func New() HTTPServer {
	return new(httpServer)
}

// HTTPServer owns the gin engine. Components add their routes in Init.
type HTTPServer interface {
	Router() gin.IRouter
	Handler() http.Handler
	Addr() string
	app.ComponentRunnable
}

type httpServer struct {
	conf   Config
	engine *gin.Engine
	srv    *http.Server
	ln     net.Listener
}

func (s *httpServer) Init(a *app.App) (err error) {
	s.conf = a.MustComponent("config").(configSource).GetHTTP()
	if s.conf.ListenAddr == "" {
		s.conf.ListenAddr = defaultListenAddr
	}
	s.engine = gin.New()
	s.engine.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("handler panic", zap.Any("panic", recovered), zap.String("path", c.FullPath()))
		apierr.Abort(c, apierr.ErrUnexpected)
	}))
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "not found"})
	})
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if m, ok := a.Component(metric.CName).(metric.Metric); ok {
		s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{})))
	}
	return
}

func (s *httpServer) Name() (name string) {
	return CName
}

func (s *httpServer) Router() gin.IRouter {
	return s.engine
}

func (s *httpServer) Handler() http.Handler {
	return s.engine
}

// Addr returns the bound address once the server is running.
func (s *httpServer) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.conf.ListenAddr
}

func (s *httpServer) Run(ctx context.Context) (err error) {
	if s.ln, err = net.Listen("tcp", s.conf.ListenAddr); err != nil {
		return err
	}
	s.srv = &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if serr := s.srv.Serve(s.ln); serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			log.Error("http server stopped", zap.Error(serr))
		}
	}()
	log.Info("http server started", zap.String("addr", s.Addr()))
	return nil
}

func (s *httpServer) Close(ctx context.Context) (err error) {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
