//go:generate mockgen -destination mock_userrepo/mock_userrepo.go github.com/sensible-care/sensible-push-server/repo/userrepo UserRepo

package userrepo

import (
	"context"
	"errors"
	"time"

	"github.com/anyproto/any-sync/app"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sensible-care/sensible-push-server/db"
	"github.com/sensible-care/sensible-push-server/domain"
)

const CName = "push.userrepo"

const collName = "user"

func New() UserRepo {
	return new(userRepo)
}

type UserRepo interface {
	Create(ctx context.Context, user domain.User) (err error)
	GetById(ctx context.Context, userId string) (user domain.User, err error)
	GetByEmail(ctx context.Context, email string) (user domain.User, err error)
	GetByIds(ctx context.Context, userIds []string) (users []domain.User, err error)
	SetPatient(ctx context.Context, userId string) (err error)
	app.ComponentRunnable
}

type userRepo struct {
	coll *mongo.Collection
}

func (r *userRepo) Init(a *app.App) (err error) {
	r.coll = a.MustComponent(db.CName).(db.Database).Db().Collection(collName)
	return
}

func (r *userRepo) Name() (name string) {
	return CName
}

func (r *userRepo) Run(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{"email", 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *userRepo) Create(ctx context.Context, user domain.User) (err error) {
	now := time.Now().Unix()
	user.Created = now
	user.Updated = now
	_, err = r.coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrEmailExists
	}
	return
}

func (r *userRepo) GetById(ctx context.Context, userId string) (user domain.User, err error) {
	return r.findOne(ctx, bson.D{{"_id", userId}})
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (user domain.User, err error) {
	return r.findOne(ctx, bson.D{{"email", email}})
}

func (r *userRepo) findOne(ctx context.Context, filter bson.D) (user domain.User, err error) {
	err = r.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		err = domain.ErrUserNotFound
	}
	return
}

func (r *userRepo) GetByIds(ctx context.Context, userIds []string) (users []domain.User, err error) {
	if len(userIds) == 0 {
		return nil, nil
	}
	cur, err := r.coll.Find(ctx, bson.D{{"_id", bson.D{{"$in", userIds}}}})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cur.Close(ctx)
	}()
	if err = cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) SetPatient(ctx context.Context, userId string) (err error) {
	res, err := r.coll.UpdateByID(ctx, userId, bson.D{{"$set", bson.D{
		{"isPatient", true},
		{"updated", time.Now().Unix()},
	}}})
	if err != nil {
		return
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return
}

func (r *userRepo) Close(ctx context.Context) error {
	return nil
}
