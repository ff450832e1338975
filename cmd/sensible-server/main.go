package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"github.com/anyproto/any-sync/metric"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sensible-care/sensible-push-server/auth"
	"github.com/sensible-care/sensible-push-server/care"
	"github.com/sensible-care/sensible-push-server/config"
	"github.com/sensible-care/sensible-push-server/db"
	"github.com/sensible-care/sensible-push-server/httpserver"
	"github.com/sensible-care/sensible-push-server/push"
	"github.com/sensible-care/sensible-push-server/queue"
	"github.com/sensible-care/sensible-push-server/redisprovider"
	"github.com/sensible-care/sensible-push-server/repo/relationrepo"
	"github.com/sensible-care/sensible-push-server/repo/tokenrepo"
	"github.com/sensible-care/sensible-push-server/repo/userrepo"
	"github.com/sensible-care/sensible-push-server/resolver"
	"github.com/sensible-care/sensible-push-server/sender"
	"github.com/sensible-care/sensible-push-server/sender/provider/expo"
	"github.com/sensible-care/sensible-push-server/sender/provider/fcm"
	"github.com/sensible-care/sensible-push-server/tokenpruner"
)

var log = logger.NewNamed("main")

var flagConfigFile = flag.String("c", "etc/sensible-push-server.yml", "path to config file")

func main() {
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	conf, err := config.NewFromFile(*flagConfigFile)
	if err != nil {
		log.Fatal("can't open config file", zap.Error(err))
	}
	conf.ApplyEnv()
	if err = conf.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)

	a := new(app.App)
	Bootstrap(a, conf)

	ctx := context.Background()
	if err = a.Start(ctx); err != nil {
		log.Fatal("can't start app", zap.Error(err))
	}
	log.Info("app started", zap.String("listen", conf.HTTP.ListenAddr))

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	sig := <-signals
	log.Info("received signal, stopping", zap.String("signal", fmt.Sprint(sig)))

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err = a.Close(ctx); err != nil {
		log.Fatal("close error", zap.Error(err))
	}
	log.Info("goodbye")
}

// Bootstrap registers components in dependency order.
func Bootstrap(a *app.App, conf *config.Config) {
	a.Register(conf).
		Register(metric.New()).
		Register(db.New())
	if conf.Push.AsyncBroadcast {
		a.Register(redisprovider.New())
	}
	a.Register(userrepo.New()).
		Register(relationrepo.New()).
		Register(tokenrepo.New()).
		Register(resolver.New())
	if conf.Push.PruneInvalidTokens {
		a.Register(tokenpruner.New())
	}
	if conf.Push.AsyncBroadcast {
		a.Register(queue.New())
	}
	a.Register(sender.New()).
		Register(fcm.New()).
		Register(expo.New()).
		Register(httpserver.New()).
		Register(auth.New()).
		Register(care.New()).
		Register(push.New())
}
