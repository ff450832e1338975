//go:generate mockgen -destination mock_relationrepo/mock_relationrepo.go github.com/sensible-care/sensible-push-server/repo/relationrepo RelationRepo

package relationrepo

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

const CName = "push.relationrepo"

const collName = "relation"

var errEmptyFilter = errors.New("relation filter is empty")

func New() RelationRepo {
	return new(relationRepo)
}

type RelationRepo interface {
	Create(ctx context.Context, relation domain.Relation) (err error)
	Find(ctx context.Context, filter domain.RelationFilter) (relations []domain.Relation, err error)
	Remove(ctx context.Context, filter domain.RelationFilter) (err error)
	app.ComponentRunnable
}

type relationRepo struct {
	coll *mongo.Collection
}

func (r *relationRepo) Init(a *app.App) (err error) {
	r.coll = a.MustComponent(db.CName).(db.Database).Db().Collection(collName)
	return
}

func (r *relationRepo) Name() (name string) {
	return CName
}

func (r *relationRepo) Run(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{"caretakerId", 1}, {"patientId", 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{"patientId", 1}},
		},
	})
	return err
}

func (r *relationRepo) Create(ctx context.Context, relation domain.Relation) (err error) {
	relation.Created = time.Now().Unix()
	_, err = r.coll.InsertOne(ctx, relation)
	if mongo.IsDuplicateKeyError(err) {
		err = domain.ErrRelationExists
	}
	return
}

func (r *relationRepo) Find(ctx context.Context, filter domain.RelationFilter) (relations []domain.Relation, err error) {
	cur, err := r.coll.Find(ctx, toBson(filter), options.Find().SetSort(bson.D{{"created", 1}, {"_id", 1}}))
	if err != nil {
		return
	}
	defer func() {
		_ = cur.Close(ctx)
	}()
	err = cur.All(ctx, &relations)
	return
}

func (r *relationRepo) Remove(ctx context.Context, filter domain.RelationFilter) (err error) {
	if filter.IsEmpty() {
		return errEmptyFilter
	}
	res, err := r.coll.DeleteMany(ctx, toBson(filter))
	if err != nil {
		return
	}
	if res.DeletedCount == 0 {
		return domain.ErrRelationNotFound
	}
	return
}

func toBson(filter domain.RelationFilter) bson.D {
	var d = bson.D{}
	if filter.CaretakerId != "" {
		d = append(d, bson.E{Key: "caretakerId", Value: filter.CaretakerId})
	}
	if filter.PatientId != "" {
		d = append(d, bson.E{Key: "patientId", Value: filter.PatientId})
	}
	return d
}

func (r *relationRepo) Close(ctx context.Context) error {
	return nil
}
