package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/MessBoT/internal/apperr"
	"github.com/Kerhoff/MessBoT/internal/auth"
	"github.com/Kerhoff/MessBoT/internal/metrics"
	"github.com/Kerhoff/MessBoT/internal/models"
	"github.com/Kerhoff/MessBoT/internal/repository/memory"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fixture struct {
	svc     *Service
	store   *memory.Store
	metrics *metrics.Metrics
	now     time.Time

	owner *models.User
	other *models.User
	user  *models.User
	mess  *models.Mess
	plan  *models.Plan
}

// newFixture seeds an owner with one mess and one monthly plan, a second
// owner, and a subscriber. The clock reads 2024-01-20 10:00 UTC.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	tokens, err := auth.NewManager(testSecret, time.Hour)
	require.NoError(t, err)

	f := &fixture{
		store:   memory.New(),
		metrics: metrics.New(prometheus.NewRegistry()),
		now:     time.Date(2024, time.January, 20, 10, 0, 0, 0, time.UTC),
	}
	f.svc = New(logger, tokens,
		f.store.Users(), f.store.Messes(), f.store.Plans(), f.store.Subscriptions(), f.store.Attendance(),
		WithMetrics(f.metrics),
		WithClock(func() time.Time { return f.now }),
	)

	f.owner = f.seedUser(t, "Ravi", "ravi@example.com", models.RoleMessOwner)
	f.other = f.seedUser(t, "Meera", "meera@example.com", models.RoleMessOwner)
	f.user = f.seedUser(t, "Asha", "asha@example.com", models.RoleUser)

	f.mess, err = f.svc.CreateMess(ctx, f.owner.ID, CreateMessInput{Name: "Annapurna", Location: "Sector 5", VegAvailable: true})
	require.NoError(t, err)

	price := 3000.0
	f.plan, err = f.svc.CreatePlan(ctx, f.mess.ID, f.owner.ID, CreatePlanInput{
		Name:         "Veg Monthly",
		Price:        &price,
		DurationType: models.DurationMonthly,
		MealType:     models.MealVeg,
		MealsPerDay:  3,
	})
	require.NoError(t, err)

	return f
}

func (f *fixture) seedUser(t *testing.T, name, email string, role models.Role) *models.User {
	t.Helper()
	user, err := f.store.Users().Create(context.Background(), &models.User{Name: name, Email: email, Role: role})
	require.NoError(t, err)
	return user
}

func (f *fixture) subscribe(t *testing.T, userID, planID string, start time.Time) *models.Subscription {
	t.Helper()
	sub, err := f.svc.CreateSubscription(context.Background(), userID, CreateSubscriptionInput{PlanID: planID, StartDate: &start})
	require.NoError(t, err)
	return sub
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, apperr.KindOf(err), "unexpected error: %v", err)
}
