package userrepo

import (
	"context"
	"testing"

	"github.com/anyproto/any-sync/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensible-care/sensible-push-server/db"
	"github.com/sensible-care/sensible-push-server/db/dbtest"
	"github.com/sensible-care/sensible-push-server/domain"
)

var ctx = context.Background()

func TestUserRepo_Create(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.Create(ctx, domain.User{Id: "1", Name: "Ann", Email: "ann@example.com"}))
	require.ErrorIs(t, fx.Create(ctx, domain.User{Id: "2", Name: "Ann 2", Email: "ann@example.com"}), domain.ErrEmailExists)
}

func TestUserRepo_Get(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.Create(ctx, domain.User{Id: "1", Name: "Ann", Email: "ann@example.com", PasswordHash: "hash"}))
	require.NoError(t, fx.Create(ctx, domain.User{Id: "2", Name: "Bob", Email: "bob@example.com"}))

	user, err := fx.GetById(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.Name)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.NotZero(t, user.Created)

	user, err = fx.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "2", user.Id)

	_, err = fx.GetById(ctx, "3")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = fx.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	users, err := fx.GetByIds(ctx, []string{"1", "2", "3"})
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestUserRepo_SetPatient(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.Create(ctx, domain.User{Id: "1", Email: "ann@example.com"}))
	require.NoError(t, fx.SetPatient(ctx, "1"))
	user, err := fx.GetById(ctx, "1")
	require.NoError(t, err)
	assert.True(t, user.IsPatient)

	require.ErrorIs(t, fx.SetPatient(ctx, "2"), domain.ErrUserNotFound)
}

func newFixture(t testing.TB) *fixture {
	dbtest.SkipIfUnavailable(t)
	fx := &fixture{
		UserRepo: New(),
		a:        new(app.App),
	}
	fx.a.Register(&testConfig{Mongo: dbtest.Config("userrepo_unittest")}).
		Register(db.New()).
		Register(fx.UserRepo)
	require.NoError(t, fx.a.Start(ctx))
	t.Cleanup(func() {
		fx.finish(t)
	})
	return fx
}

type fixture struct {
	UserRepo
	a *app.App
}

func (fx *fixture) finish(t testing.TB) {
	_ = fx.UserRepo.(*userRepo).coll.Drop(ctx)
	require.NoError(t, fx.a.Close(ctx))
}

type testConfig struct {
	Mongo db.Mongo
}

func (t testConfig) Init(a *app.App) (err error) {
	return
}

func (t testConfig) Name() (name string) {
	return "config"
}

func (t testConfig) GetMongo() db.Mongo {
	return t.Mongo
}
