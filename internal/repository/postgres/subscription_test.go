package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/MessBoT/internal/models"
	"github.com/Kerhoff/MessBoT/internal/repository"
)

var subscriptionRowColumns = []string{
	"id", "user_id", "plan_id", "start_date", "end_date", "status",
	"price_at_purchase", "plan_name_snapshot", "meal_type_snapshot", "created_at", "updated_at",
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSubscriptionRepository_CreatePassesDateKeys(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO subscriptions")).
		WithArgs(sqlmock.AnyArg(), "u-1", "p-1", "2024-01-31", "2024-02-29", models.SubscriptionActive,
			3000.0, "Veg Monthly", models.MealVeg, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	repo := NewSubscriptionRepository(db)
	sub, err := repo.Create(context.Background(), &models.Subscription{
		UserID:           "u-1",
		PlanID:           "p-1",
		StartDate:        day(2024, time.January, 31),
		EndDate:          day(2024, time.February, 29),
		PriceAtPurchase:  3000,
		PlanNameSnapshot: "Veg Monthly",
		MealTypeSnapshot: models.MealVeg,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, sub.ID)
	assert.True(t, sub.IsActive())
}

func TestSubscriptionRepository_CreateSecondActiveIsDuplicate(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO subscriptions")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "subscriptions_one_active_per_plan"})

	repo := NewSubscriptionRepository(db)
	_, err := repo.Create(context.Background(), &models.Subscription{UserID: "u-1", PlanID: "p-1"})

	assert.True(t, errors.Is(err, repository.ErrDuplicate))
}

func TestSubscriptionRepository_FindActiveNone(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.user_id = $1 AND s.plan_id = $2 AND s.status = $3")).
		WithArgs("u-1", "p-1", models.SubscriptionActive).
		WillReturnRows(sqlmock.NewRows(subscriptionRowColumns))

	repo := NewSubscriptionRepository(db)
	sub, err := repo.FindActive(context.Background(), "u-1", "p-1")

	assert.NoError(t, err)
	assert.Nil(t, sub)
}

func TestSubscriptionRepository_ListByUserWithStatus(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()

	now := time.Now()
	cols := append(append(append([]string{}, subscriptionRowColumns...), planRowColumns...),
		"mid", "owner_id", "mname", "location", "description", "veg", "nonveg", "mactive", "mcreated", "mupdated")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.user_id = $1 AND s.status = $2 ORDER BY s.created_at DESC")).
		WithArgs("u-1", models.SubscriptionCancelled).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"s-1", "u-1", "p-1", day(2024, 3, 1), day(2024, 3, 8), "cancelled", 800.0, "Weekly", "veg", now, now,
			"p-1", "m-1", "Weekly Renamed", 900.0, "weekly", "veg", 2, true, now, now,
			"m-1", "owner-1", "Annapurna", "Sector 5", nil, true, false, true, now, now,
		))

	status := models.SubscriptionCancelled
	repo := NewSubscriptionRepository(db)
	subs, err := repo.ListByUser(context.Background(), "u-1", repository.SubscriptionFilters{Status: &status})

	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Weekly", subs[0].PlanNameSnapshot)
	assert.Equal(t, "Weekly Renamed", subs[0].Plan.Name)
	assert.Equal(t, "Annapurna", subs[0].Plan.Mess.Name)
}

func TestSubscriptionRepository_UpdateStatusOnlyChangesOtherStatus(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()

	now := time.Now()
	update := regexp.QuoteMeta("WHERE s.id = $1 AND s.status <> $2")
	mock.ExpectQuery(update).
		WithArgs("s-1", models.SubscriptionCancelled, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(subscriptionRowColumns).AddRow(
			"s-1", "u-1", "p-1", day(2024, 3, 1), day(2024, 3, 8), "cancelled", 800.0, "Weekly", "veg", now, now,
		))
	mock.ExpectQuery(update).
		WithArgs("s-1", models.SubscriptionCancelled, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(subscriptionRowColumns))

	repo := NewSubscriptionRepository(db)
	sub, err := repo.UpdateStatus(context.Background(), "s-1", models.SubscriptionCancelled)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, models.SubscriptionCancelled, sub.Status)

	sub, err = repo.UpdateStatus(context.Background(), "s-1", models.SubscriptionCancelled)
	assert.NoError(t, err)
	assert.Nil(t, sub)
}

func TestSubscriptionRepository_ListActiveOnDay(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()

	now := time.Now()
	today := day(2024, time.March, 5)
	cols := append(append(append([]string{}, subscriptionRowColumns...), planRowColumns...),
		"uname", "email", "phone", "aid", "breakfast", "lunch", "dinner", "acreated", "aupdated")
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN attendance a ON a.subscription_id = s.id AND a.date = $2")).
		WithArgs("m-1", "2024-03-05", models.SubscriptionActive).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(
				"s-1", "u-1", "p-1", day(2024, 3, 1), day(2024, 3, 31), "active", 3000.0, "Monthly", "veg", now, now,
				"p-1", "m-1", "Monthly", 3000.0, "monthly", "veg", 3, true, now, now,
				"Asha", "asha@example.com", nil, "a-1", true, false, true, now, now,
			).
			AddRow(
				"s-2", "u-2", "p-1", day(2024, 3, 1), day(2024, 3, 31), "active", 3000.0, "Monthly", "veg", now, now,
				"p-1", "m-1", "Monthly", 3000.0, "monthly", "veg", 3, true, now, now,
				"Bala", "bala@example.com", nil, nil, nil, nil, nil, nil, nil,
			))

	repo := NewSubscriptionRepository(db)
	subs, err := repo.ListActiveOnDay(context.Background(), "m-1", today)

	require.NoError(t, err)
	require.Len(t, subs, 2)

	require.Len(t, subs[0].Attendance, 1)
	assert.Equal(t, models.MealFlags{Breakfast: true, Dinner: true}, subs[0].Attendance[0].Meals())
	assert.Equal(t, today, subs[0].Attendance[0].Date)
	assert.Equal(t, "u-1", subs[0].User.ID)

	assert.Empty(t, subs[1].Attendance)
	assert.Equal(t, "Bala", subs[1].User.Name)
}
