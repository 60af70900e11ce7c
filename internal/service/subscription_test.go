package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/MessBoT/internal/apperr"
	"github.com/Kerhoff/MessBoT/internal/models"
	"github.com/Kerhoff/MessBoT/internal/repository"
)

// raceRepo hides active subscriptions from FindActive, as if a concurrent
// request inserted one between the pre-check and the insert.
type raceRepo struct {
	repository.SubscriptionRepository
}

func (raceRepo) FindActive(ctx context.Context, userID, planID string) (*models.Subscription, error) {
	return nil, nil
}

// staleRepo serves a fixed copy from GetByID, as if another cancel landed
// between the read and the update.
type staleRepo struct {
	repository.SubscriptionRepository
	snapshot *models.Subscription
}

func (r staleRepo) GetByID(ctx context.Context, id string) (*models.Subscription, error) {
	out := *r.snapshot
	return &out, nil
}

// uuidPlans fails every lookup the way Postgres rejects a non-UUID key
type uuidPlans struct {
	repository.PlanRepository
}

func (uuidPlans) GetByID(ctx context.Context, id string) (*models.Plan, error) {
	return nil, errors.New("pq: invalid input syntax for type uuid")
}

func TestCreateSubscription_EndDate(t *testing.T) {
	tests := []struct {
		name     string
		duration models.DurationType
		start    time.Time
		end      time.Time
	}{
		{"monthly", models.DurationMonthly, date(2024, 1, 15), date(2024, 2, 15)},
		{"monthly clamps to leap february", models.DurationMonthly, date(2024, 1, 31), date(2024, 2, 29)},
		{"monthly clamps to february", models.DurationMonthly, date(2023, 1, 31), date(2023, 2, 28)},
		{"monthly across year end", models.DurationMonthly, date(2024, 12, 31), date(2025, 1, 31)},
		{"weekly", models.DurationWeekly, date(2024, 1, 15), date(2024, 1, 22)},
		{"weekly across month end", models.DurationWeekly, date(2024, 2, 26), date(2024, 3, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			plan, err := f.svc.CreatePlan(context.Background(), f.mess.ID, f.owner.ID, CreatePlanInput{
				Name: "P", Price: ptr(100.0), DurationType: tt.duration, MealType: models.MealVeg, MealsPerDay: 1,
			})
			require.NoError(t, err)

			sub := f.subscribe(t, f.user.ID, plan.ID, tt.start)
			assert.Equal(t, tt.start, sub.StartDate)
			assert.Equal(t, tt.end, sub.EndDate)
			assert.Equal(t, models.SubscriptionActive, sub.Status)
		})
	}
}

func TestCreateSubscription_StartTruncatedToServiceDay(t *testing.T) {
	f := newFixture(t)
	kolkata := time.FixedZone("IST", 5*3600+1800)
	f.svc.loc = kolkata

	// 20:00 UTC on Jan 14 is already Jan 15 in Kolkata
	start := time.Date(2024, 1, 14, 20, 0, 0, 0, time.UTC)
	sub := f.subscribe(t, f.user.ID, f.plan.ID, start)

	assert.Equal(t, date(2024, 1, 15), sub.StartDate)
	assert.Equal(t, date(2024, 2, 15), sub.EndDate)
}

func TestCreateSubscription_SnapshotSurvivesPlanEdit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub := f.subscribe(t, f.user.ID, f.plan.ID, date(2024, 1, 15))
	assert.Equal(t, 3000.0, sub.PriceAtPurchase)
	assert.Equal(t, "Veg Monthly", sub.PlanNameSnapshot)
	assert.Equal(t, models.MealVeg, sub.MealTypeSnapshot)

	_, err := f.svc.UpdatePlan(ctx, f.mess.ID, f.plan.ID, f.owner.ID, models.PlanUpdate{
		Name:  ptr("Veg Monthly Deluxe"),
		Price: ptr(3500.0),
	})
	require.NoError(t, err)

	subs, err := f.svc.ListMySubscriptions(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, 3000.0, subs[0].PriceAtPurchase)
	assert.Equal(t, "Veg Monthly", subs[0].PlanNameSnapshot)
	assert.Equal(t, "Veg Monthly Deluxe", subs[0].Plan.Name)
	assert.Equal(t, 3500.0, subs[0].Plan.Price)
}

func TestCreateSubscription_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := date(2024, 1, 15)

	_, err := f.svc.CreateSubscription(ctx, f.user.ID, CreateSubscriptionInput{PlanID: f.plan.ID})
	requireKind(t, err, apperr.KindValidation)

	_, err = f.svc.CreateSubscription(ctx, f.user.ID, CreateSubscriptionInput{PlanID: "missing", StartDate: &start})
	requireKind(t, err, apperr.KindNotFound)

	inactive, err := f.svc.CreatePlan(ctx, f.mess.ID, f.owner.ID, CreatePlanInput{
		Name: "Old", Price: ptr(1.0), DurationType: models.DurationWeekly, MealType: models.MealVeg, MealsPerDay: 1,
	})
	require.NoError(t, err)
	_, err = f.svc.UpdatePlan(ctx, f.mess.ID, inactive.ID, f.owner.ID, models.PlanUpdate{IsActive: ptr(false)})
	require.NoError(t, err)

	_, err = f.svc.CreateSubscription(ctx, f.user.ID, CreateSubscriptionInput{PlanID: inactive.ID, StartDate: &start})
	requireKind(t, err, apperr.KindNotFound)
}

func TestCreateSubscription_OneActivePerPlan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := date(2024, 1, 15)

	first := f.subscribe(t, f.user.ID, f.plan.ID, start)

	_, err := f.svc.CreateSubscription(ctx, f.user.ID, CreateSubscriptionInput{PlanID: f.plan.ID, StartDate: &start})
	requireKind(t, err, apperr.KindConflict)

	_, err = f.svc.CancelSubscription(ctx, first.ID, f.user.ID)
	require.NoError(t, err)

	second := f.subscribe(t, f.user.ID, f.plan.ID, start)
	assert.NotEqual(t, first.ID, second.ID)

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.SubscriptionsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SubscriptionsCanceled))
}

func TestCreateSubscription_StoreDuplicateIsConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A racing request that passed the pre-check is stopped by the store.
	_, err := f.store.Subscriptions().Create(ctx, &models.Subscription{UserID: f.user.ID, PlanID: f.plan.ID})
	require.NoError(t, err)

	f.svc.Subscriptions = raceRepo{f.svc.Subscriptions}
	start := date(2024, 1, 15)
	_, err = f.svc.CreateSubscription(ctx, f.user.ID, CreateSubscriptionInput{PlanID: f.plan.ID, StartDate: &start})
	requireKind(t, err, apperr.KindConflict)
}

func TestCreateSubscription_MalformedPlanIDIsNotFound(t *testing.T) {
	f := newFixture(t)
	f.svc.Plans = uuidPlans{f.svc.Plans}
	start := date(2024, 1, 15)

	_, err := f.svc.CreateSubscription(context.Background(), f.user.ID, CreateSubscriptionInput{PlanID: "not-a-uuid", StartDate: &start})
	requireKind(t, err, apperr.KindNotFound)
	assert.Equal(t, "Plan not found or inactive", err.Error())
}

func TestCancelSubscription_ConcurrentCancelCountsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub := f.subscribe(t, f.user.ID, f.plan.ID, date(2024, 1, 15))
	_, err := f.svc.CancelSubscription(ctx, sub.ID, f.user.ID)
	require.NoError(t, err)

	f.svc.Subscriptions = staleRepo{SubscriptionRepository: f.svc.Subscriptions, snapshot: sub}
	_, err = f.svc.CancelSubscription(ctx, sub.ID, f.user.ID)
	requireKind(t, err, apperr.KindValidation)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SubscriptionsCanceled))
}

func TestCancelSubscription(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub := f.subscribe(t, f.user.ID, f.plan.ID, date(2024, 1, 15))

	_, err := f.svc.CancelSubscription(ctx, "missing", f.user.ID)
	requireKind(t, err, apperr.KindNotFound)

	_, err = f.svc.CancelSubscription(ctx, sub.ID, f.owner.ID)
	requireKind(t, err, apperr.KindForbidden)

	cancelled, err := f.svc.CancelSubscription(ctx, sub.ID, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionCancelled, cancelled.Status)
	assert.Equal(t, sub.StartDate, cancelled.StartDate)
	assert.Equal(t, sub.EndDate, cancelled.EndDate)
	assert.Equal(t, sub.PriceAtPurchase, cancelled.PriceAtPurchase)
	require.NotNil(t, cancelled.Plan)

	_, err = f.svc.CancelSubscription(ctx, sub.ID, f.user.ID)
	requireKind(t, err, apperr.KindValidation)
}

func TestListMySubscriptions_NewestFirstWithRecentAttendance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	weekly, err := f.svc.CreatePlan(ctx, f.mess.ID, f.owner.ID, CreatePlanInput{
		Name: "Weekly", Price: ptr(800.0), DurationType: models.DurationWeekly, MealType: models.MealVeg, MealsPerDay: 2,
	})
	require.NoError(t, err)

	older := f.subscribe(t, f.user.ID, f.plan.ID, date(2024, 1, 1))
	newer := f.subscribe(t, f.user.ID, weekly.ID, date(2024, 1, 18))

	for d := 1; d <= 31; d++ {
		day := date(2024, 1, d)
		_, err := f.svc.MarkAttendance(ctx, older.ID, f.user.ID, MarkAttendanceInput{Date: &day, Lunch: ptr(true)})
		require.NoError(t, err)
	}

	subs, err := f.svc.ListMySubscriptions(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, newer.ID, subs[0].ID)
	assert.Empty(t, subs[0].Attendance)
	assert.Equal(t, older.ID, subs[1].ID)
	require.Len(t, subs[1].Attendance, RecentAttendanceLimit)
	assert.Equal(t, date(2024, 1, 31), subs[1].Attendance[0].Date)
	require.NotNil(t, subs[1].Plan.Mess)
	assert.Equal(t, "Annapurna", subs[1].Plan.Mess.Name)

	none, err := f.svc.ListMySubscriptions(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
