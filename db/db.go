package db

import (
	"context"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const CName = "db"

var log = logger.NewNamed(CName)

type Mongo struct {
	Connect  string `yaml:"connect"`
	Database string `yaml:"database"`
}

type configSource interface {
	GetMongo() Mongo
}

func New() Database {
	return new(database)
}

type Database interface {
	Db() *mongo.Database
	app.ComponentRunnable
}

type database struct {
	conf   Mongo
	client *mongo.Client
	db     *mongo.Database
}

func (d *database) Init(a *app.App) (err error) {
	d.conf = a.MustComponent("config").(configSource).GetMongo()
	if d.client, err = mongo.Connect(context.Background(), options.Client().ApplyURI(d.conf.Connect)); err != nil {
		return err
	}
	d.db = d.client.Database(d.conf.Database)
	return nil
}

func (d *database) Name() (name string) {
	return CName
}

func (d *database) Run(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := d.client.Ping(pingCtx, nil); err != nil {
		return err
	}
	log.Info("mongo connected", zap.String("database", d.conf.Database))
	return nil
}

func (d *database) Db() *mongo.Database {
	return d.db
}

func (d *database) Close(ctx context.Context) error {
	if d.client == nil {
		return nil
	}
	return d.client.Disconnect(ctx)
}
