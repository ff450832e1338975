package care

import (
	"context"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"github.com/anyproto/any-sync/metric"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sensible-care/sensible-push-server/auth"
	"github.com/sensible-care/sensible-push-server/domain"
	"github.com/sensible-care/sensible-push-server/httpserver"
	"github.com/sensible-care/sensible-push-server/repo/relationrepo"
	"github.com/sensible-care/sensible-push-server/repo/userrepo"
)

const CName = "care"

var log = logger.NewNamed(CName)

func New() Care {
	return new(care)
}

// RelationView is a relation together with the profile of the other party.
type RelationView struct {
	domain.Relation
	Patient   *domain.Profile `json:"patient,omitempty"`
	Caretaker *domain.Profile `json:"caretaker,omitempty"`
}

// Care manages caretaker -> patient links.
type Care interface {
	Link(ctx context.Context, caretakerId, patientId string) (rel domain.Relation, err error)
	Unlink(ctx context.Context, caretakerId, patientId string) (err error)
	Patients(ctx context.Context, caretakerId string) (views []RelationView, err error)
	Caretakers(ctx context.Context, patientId string) (views []RelationView, err error)
	app.Component
}

type care struct {
	userRepo     userrepo.UserRepo
	relationRepo relationrepo.RelationRepo
	auth         auth.Auth
	metric       metric.Metric
}

func (c *care) Init(a *app.App) (err error) {
	c.userRepo = a.MustComponent(userrepo.CName).(userrepo.UserRepo)
	c.relationRepo = a.MustComponent(relationrepo.CName).(relationrepo.RelationRepo)
	c.auth = a.MustComponent(auth.CName).(auth.Auth)
	c.metric = a.MustComponent(metric.CName).(metric.Metric)
	c.registerRoutes(a.MustComponent(httpserver.CName).(httpserver.HTTPServer).Router())
	return
}

func (c *care) Name() (name string) {
	return CName
}

func (c *care) Link(ctx context.Context, caretakerId, patientId string) (rel domain.Relation, err error) {
	if caretakerId == patientId {
		return rel, domain.ErrSelfRelation
	}
	if err = c.checkUsers(ctx, caretakerId, patientId); err != nil {
		return
	}
	rel = domain.Relation{
		Id:          uuid.NewString(),
		CaretakerId: caretakerId,
		PatientId:   patientId,
	}
	// SetPatient is idempotent and runs first
	if err = c.userRepo.SetPatient(ctx, patientId); err != nil {
		return domain.Relation{}, err
	}
	if err = c.relationRepo.Create(ctx, rel); err != nil {
		return domain.Relation{}, err
	}
	log.Info("relation created", zap.String("caretakerId", caretakerId), zap.String("patientId", patientId))
	return rel, nil
}

func (c *care) checkUsers(ctx context.Context, ids ...string) error {
	users, err := c.userRepo.GetByIds(ctx, ids)
	if err != nil {
		return err
	}
	found := make(map[string]bool, len(users))
	for _, u := range users {
		found[u.Id] = true
	}
	for _, id := range ids {
		if !found[id] {
			return domain.ErrUserNotFound
		}
	}
	return nil
}

func (c *care) Unlink(ctx context.Context, caretakerId, patientId string) (err error) {
	if caretakerId == patientId {
		return domain.ErrSelfRelation
	}
	if err = c.relationRepo.Remove(ctx, domain.RelationFilter{CaretakerId: caretakerId, PatientId: patientId}); err != nil {
		return
	}
	log.Info("relation removed", zap.String("caretakerId", caretakerId), zap.String("patientId", patientId))
	return
}

func (c *care) Patients(ctx context.Context, caretakerId string) (views []RelationView, err error) {
	relations, err := c.relationRepo.Find(ctx, domain.RelationFilter{CaretakerId: caretakerId})
	if err != nil {
		return
	}
	profiles, err := c.profiles(ctx, relations, func(r domain.Relation) string { return r.PatientId })
	if err != nil {
		return
	}
	views = make([]RelationView, 0, len(relations))
	for _, r := range relations {
		views = append(views, RelationView{Relation: r, Patient: profiles[r.PatientId]})
	}
	return
}

func (c *care) Caretakers(ctx context.Context, patientId string) (views []RelationView, err error) {
	relations, err := c.relationRepo.Find(ctx, domain.RelationFilter{PatientId: patientId})
	if err != nil {
		return
	}
	profiles, err := c.profiles(ctx, relations, func(r domain.Relation) string { return r.CaretakerId })
	if err != nil {
		return
	}
	views = make([]RelationView, 0, len(relations))
	for _, r := range relations {
		views = append(views, RelationView{Relation: r, Caretaker: profiles[r.CaretakerId]})
	}
	return
}

func (c *care) profiles(ctx context.Context, relations []domain.Relation, other func(domain.Relation) string) (map[string]*domain.Profile, error) {
	if len(relations) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(relations))
	for _, r := range relations {
		ids = append(ids, other(r))
	}
	users, err := c.userRepo.GetByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	res := make(map[string]*domain.Profile, len(users))
	for _, u := range users {
		p := u.Profile()
		res[u.Id] = &p
	}
	return res, nil
}
