//go:generate mockgen -destination mock_tokenrepo/mock_tokenrepo.go github.com/sensible-care/sensible-push-server/repo/tokenrepo TokenRepo

package tokenrepo

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

const CName = "push.tokenrepo"

// tokens are stored on the user document
const collName = "user"

const defaultPageSize = 1000

func New() TokenRepo {
	return new(tokenRepo)
}

// TokenRepo is the registry of the current device token of each user.
type TokenRepo interface {
	SetToken(ctx context.Context, userId, token string) (err error)
	GetToken(ctx context.Context, userId string) (token string, ok bool, err error)
	ClearToken(ctx context.Context, userId string) (err error)
	GetTokensByUserIds(ctx context.Context, userIds []string) (tokens []domain.UserToken, err error)
	IterateTokens(ctx context.Context, pageSize int, excludeUserId string, fn func(tokens []domain.UserToken) error) (err error)
	RemoveTokens(ctx context.Context, tokens []string) (err error)
	app.ComponentRunnable
}

type tokenRepo struct {
	coll *mongo.Collection
}

func (t *tokenRepo) Init(a *app.App) (err error) {
	t.coll = a.MustComponent(db.CName).(db.Database).Db().Collection(collName)
	return
}

func (t *tokenRepo) Run(ctx context.Context) error {
	_, err := t.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{"token", 1}},
		Options: options.Index().SetSparse(true),
	})
	return err
}

func (t *tokenRepo) Name() (name string) {
	return CName
}

var hasToken = bson.D{{"$exists", true}, {"$ne", ""}}

func (t *tokenRepo) SetToken(ctx context.Context, userId, token string) (err error) {
	now := time.Now().Unix()
	res, err := t.coll.UpdateByID(ctx, userId, bson.D{{"$set", bson.D{
		{"token", token},
		{"updated", now},
	}}})
	if err != nil {
		return
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	// a device token belongs to one user; the latest registration wins
	_, err = t.coll.UpdateMany(ctx,
		bson.D{{"token", token}, {"_id", bson.D{{"$ne", userId}}}},
		bson.D{
			{"$unset", bson.D{{"token", ""}}},
			{"$set", bson.D{{"updated", now}}},
		},
	)
	return
}

type withToken struct {
	Token string `bson:"token"`
}

func (t *tokenRepo) GetToken(ctx context.Context, userId string) (token string, ok bool, err error) {
	var doc withToken
	err = t.coll.FindOne(ctx, bson.D{{"_id", userId}}, options.FindOne().SetProjection(bson.D{{"token", 1}})).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", false, domain.ErrUserNotFound
		}
		return "", false, err
	}
	return doc.Token, doc.Token != "", nil
}

func (t *tokenRepo) ClearToken(ctx context.Context, userId string) (err error) {
	res, err := t.coll.UpdateByID(ctx, userId, bson.D{
		{"$unset", bson.D{{"token", ""}}},
		{"$set", bson.D{{"updated", time.Now().Unix()}}},
	})
	if err != nil {
		return
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return
}

var tokenProjection = bson.D{{"_id", 1}, {"token", 1}}

func (t *tokenRepo) GetTokensByUserIds(ctx context.Context, userIds []string) (tokens []domain.UserToken, err error) {
	if len(userIds) == 0 {
		return nil, nil
	}
	cur, err := t.coll.Find(ctx, bson.D{
		{"_id", bson.D{{"$in", userIds}}},
		{"token", hasToken},
	}, options.Find().SetProjection(tokenProjection))
	if err != nil {
		return
	}
	defer func() {
		_ = cur.Close(ctx)
	}()
	err = cur.All(ctx, &tokens)
	return
}

func (t *tokenRepo) IterateTokens(ctx context.Context, pageSize int, excludeUserId string, fn func(tokens []domain.UserToken) error) (err error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	var lastId string
	for {
		idCond := bson.D{}
		if lastId != "" {
			idCond = append(idCond, bson.E{Key: "$gt", Value: lastId})
		}
		if excludeUserId != "" {
			idCond = append(idCond, bson.E{Key: "$ne", Value: excludeUserId})
		}
		filter := bson.D{{"token", hasToken}}
		if len(idCond) > 0 {
			filter = append(filter, bson.E{Key: "_id", Value: idCond})
		}
		page, err := t.findPage(ctx, filter, pageSize)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}
		if err = fn(page); err != nil {
			return err
		}
		if len(page) < pageSize {
			return nil
		}
		lastId = page[len(page)-1].UserId
	}
}

func (t *tokenRepo) findPage(ctx context.Context, filter bson.D, pageSize int) (page []domain.UserToken, err error) {
	cur, err := t.coll.Find(ctx, filter, options.Find().
		SetProjection(tokenProjection).
		SetSort(bson.D{{"_id", 1}}).
		SetLimit(int64(pageSize)),
	)
	if err != nil {
		return
	}
	defer func() {
		_ = cur.Close(ctx)
	}()
	err = cur.All(ctx, &page)
	return
}

func (t *tokenRepo) RemoveTokens(ctx context.Context, tokens []string) (err error) {
	if len(tokens) == 0 {
		return nil
	}
	_, err = t.coll.UpdateMany(ctx,
		bson.D{{"token", bson.D{{"$in", tokens}}}},
		bson.D{
			{"$unset", bson.D{{"token", ""}}},
			{"$set", bson.D{{"updated", time.Now().Unix()}}},
		},
	)
	return
}

func (t *tokenRepo) Close(ctx context.Context) (err error) {
	return nil
}
