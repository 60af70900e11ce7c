package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type messBody struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	IsActive bool   `json:"isActive"`
	Owner    *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"owner"`
	Plans []planBody `json:"plans"`
}

type planBody struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	DurationType string  `json:"durationType"`
	MealType     string  `json:"mealType"`
	MealsPerDay  int     `json:"mealsPerDay"`
	IsActive     bool    `json:"isActive"`
}

func (e *testEnv) createMess(t *testing.T, owner account, name string) messBody {
	t.Helper()
	rec, resp := e.do(t, http.MethodPost, "/api/messes", owner.Token, map[string]any{
		"name": name, "location": "Sector 5", "vegAvailable": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData[messBody](t, resp)
}

func (e *testEnv) createPlan(t *testing.T, owner account, messID, name string, price float64, duration string) planBody {
	t.Helper()
	rec, resp := e.do(t, http.MethodPost, "/api/messes/"+messID+"/plans", owner.Token, map[string]any{
		"name": name, "price": price, "durationType": duration, "mealType": "veg", "mealsPerDay": 3,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData[planBody](t, resp)
}

func TestCreateMess(t *testing.T) {
	env := newTestEnv(t, Options{})
	ravi := env.register(t, "Ravi", "ravi@example.com", "mess_owner")

	rec, resp := env.do(t, http.MethodPost, "/api/messes", ravi.Token, map[string]any{
		"name": "Annapurna", "location": "Sector 5",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Mess created successfully", resp.Message)

	mess := decodeData[messBody](t, resp)
	assert.Equal(t, "Annapurna", mess.Name)
	assert.True(t, mess.IsActive)
	require.NotNil(t, mess.Owner)
	assert.Equal(t, ravi.ID, mess.Owner.ID)
}

func TestCreateMess_RequiresOwnerRole(t *testing.T) {
	env := newTestEnv(t, Options{})
	asha := env.register(t, "Asha", "asha@example.com", "user")

	rec, resp := env.do(t, http.MethodPost, "/api/messes", asha.Token, map[string]any{
		"name": "Annapurna", "location": "Sector 5",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied. Required role: mess_owner", resp.Error)

	rec, _ = env.do(t, http.MethodPost, "/api/messes", "", map[string]any{"name": "x", "location": "y"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateMess_MissingFields(t *testing.T) {
	env := newTestEnv(t, Options{})
	ravi := env.register(t, "Ravi", "ravi@example.com", "mess_owner")

	rec, resp := env.do(t, http.MethodPost, "/api/messes", ravi.Token, map[string]any{"name": "Annapurna"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "location", resp.Errors[0].Field)
}

func TestListAndGetMesses(t *testing.T) {
	env := newTestEnv(t, Options{})
	ravi := env.register(t, "Ravi", "ravi@example.com", "mess_owner")
	mess := env.createMess(t, ravi, "Annapurna")
	env.createPlan(t, ravi, mess.ID, "Veg Monthly", 3000, "monthly")

	rec, resp := env.do(t, http.MethodGet, "/api/messes", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	messes := decodeData[[]messBody](t, resp)
	require.Len(t, messes, 1)
	require.Len(t, messes[0].Plans, 1)
	assert.Equal(t, "Veg Monthly", messes[0].Plans[0].Name)

	rec, resp = env.do(t, http.MethodGet, "/api/messes/"+mess.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Annapurna", decodeData[messBody](t, resp).Name)

	rec, resp = env.do(t, http.MethodGet, "/api/messes/00000000-0000-0000-0000-000000000000", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Mess not found", resp.Error)
}

func TestListMesses_Empty(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec, _ := env.do(t, http.MethodGet, "/api/messes", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, rec.Body.String())
}

func TestMyMesses(t *testing.T) {
	env := newTestEnv(t, Options{})
	ravi := env.register(t, "Ravi", "ravi@example.com", "mess_owner")
	meera := env.register(t, "Meera", "meera@example.com", "mess_owner")
	env.createMess(t, ravi, "Annapurna")
	env.createMess(t, meera, "Saraswati")

	rec, resp := env.do(t, http.MethodGet, "/api/messes/my", ravi.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	messes := decodeData[[]messBody](t, resp)
	require.Len(t, messes, 1)
	assert.Equal(t, "Annapurna", messes[0].Name)
}

func TestUpdateMess(t *testing.T) {
	env := newTestEnv(t, Options{})
	ravi := env.register(t, "Ravi", "ravi@example.com", "mess_owner")
	meera := env.register(t, "Meera", "meera@example.com", "mess_owner")
	mess := env.createMess(t, ravi, "Annapurna")

	rec, resp := env.do(t, http.MethodPut, "/api/messes/"+mess.ID, ravi.Token, map[string]any{"location": "Sector 9"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeData[messBody](t, resp)
	assert.Equal(t, "Sector 9", updated.Location)
	assert.Equal(t, "Annapurna", updated.Name)

	rec, _ = env.do(t, http.MethodPut, "/api/messes/"+mess.ID, meera.Token, map[string]any{"location": "Elsewhere"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPlans(t *testing.T) {
	env := newTestEnv(t, Options{})
	ravi := env.register(t, "Ravi", "ravi@example.com", "mess_owner")
	mess := env.createMess(t, ravi, "Annapurna")
	env.createPlan(t, ravi, mess.ID, "Veg Monthly", 3000, "monthly")
	weekly := env.createPlan(t, ravi, mess.ID, "Veg Weekly", 800, "weekly")

	rec, resp := env.do(t, http.MethodGet, "/api/messes/"+mess.ID+"/plans", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	plans := decodeData[[]planBody](t, resp)
	require.Len(t, plans, 2)
	assert.Equal(t, "Veg Weekly", plans[0].Name)

	rec, resp = env.do(t, http.MethodPut, "/api/messes/"+mess.ID+"/plans/"+weekly.ID, ravi.Token, map[string]any{
		"price": 850, "isActive": false,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeData[planBody](t, resp)
	assert.Equal(t, 850.0, updated.Price)
	assert.False(t, updated.IsActive)

	rec, resp = env.do(t, http.MethodGet, "/api/messes/"+mess.ID+"/plans", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]planBody](t, resp), 1)
}

func TestCreatePlan_Validation(t *testing.T) {
	env := newTestEnv(t, Options{})
	ravi := env.register(t, "Ravi", "ravi@example.com", "mess_owner")
	mess := env.createMess(t, ravi, "Annapurna")

	rec, resp := env.do(t, http.MethodPost, "/api/messes/"+mess.ID+"/plans", ravi.Token, map[string]any{
		"name": "Odd", "price": -1, "durationType": "daily", "mealType": "veg", "mealsPerDay": 4,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	fields := make([]string, 0, len(resp.Errors))
	for _, fe := range resp.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"price", "durationType", "mealsPerDay"}, fields)
}

func TestPlanPrice_FitsColumn(t *testing.T) {
	env := newTestEnv(t, Options{})
	ravi := env.register(t, "Ravi", "ravi@example.com", "mess_owner")
	mess := env.createMess(t, ravi, "Annapurna")

	rec, resp := env.do(t, http.MethodPost, "/api/messes/"+mess.ID+"/plans", ravi.Token, map[string]any{
		"name": "Gold", "price": 1e8, "durationType": "monthly", "mealType": "veg", "mealsPerDay": 3,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "price", resp.Errors[0].Field)

	plan := env.createPlan(t, ravi, mess.ID, "Top", 99999999.99, "monthly")
	assert.Equal(t, 99999999.99, plan.Price)

	rec, resp = env.do(t, http.MethodPut, "/api/messes/"+mess.ID+"/plans/"+plan.ID, ravi.Token, map[string]any{
		"price": 123456789,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "price", resp.Errors[0].Field)
}

func TestCreatePlan_OtherOwnersMess(t *testing.T) {
	env := newTestEnv(t, Options{})
	ravi := env.register(t, "Ravi", "ravi@example.com", "mess_owner")
	meera := env.register(t, "Meera", "meera@example.com", "mess_owner")
	mess := env.createMess(t, ravi, "Annapurna")

	rec, _ := env.do(t, http.MethodPost, "/api/messes/"+mess.ID+"/plans", meera.Token, map[string]any{
		"name": "Sneaky", "price": 10, "durationType": "weekly", "mealType": "veg", "mealsPerDay": 1,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetMess_MalformedID(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec, resp := env.do(t, http.MethodGet, "/api/messes/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Mess not found", resp.Error)
}
