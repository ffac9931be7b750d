package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nutrilens/domain/meal"
	"nutrilens/interfaces/http/rest/middleware"
	"nutrilens/pkg/common"
)

type fakeMealStore struct {
	entries []meal.Entry
	fail    bool
	deleted []string
}

func (f *fakeMealStore) ListMeals(ctx context.Context, userID string, limit int) ([]meal.Entry, error) {
	if f.fail {
		return nil, errors.New("store down")
	}
	return f.entries, nil
}

func (f *fakeMealStore) InsertMeal(ctx context.Context, userID string, e meal.Entry) (string, error) {
	if f.fail {
		return "", errors.New("store down")
	}
	e.ID = "assigned-1"
	f.entries = append([]meal.Entry{e}, f.entries...)
	return e.ID, nil
}

func (f *fakeMealStore) DeleteMeal(ctx context.Context, userID, id string) error {
	if f.fail {
		return errors.New("store down")
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := middleware.WithUser(req.Context(), &middleware.UserContext{UserID: "user-1", Email: "a@b.c"})
	return req.WithContext(ctx)
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) common.APIResponse {
	t.Helper()
	var resp common.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestMealHandler_List(t *testing.T) {
	store := &fakeMealStore{entries: []meal.Entry{
		{ID: "1", Name: "燕麦", Category: meal.Breakfast, Calories: 350},
	}}
	handler := NewMealHandler(store, 50, zap.NewNop())

	rr := httptest.NewRecorder()
	handler.List(rr, authedRequest(http.MethodGet, "/api/v1/meals", ""))

	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeEnvelope(t, rr)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data)
}

func TestMealHandler_List_Unauthenticated(t *testing.T) {
	handler := NewMealHandler(&fakeMealStore{}, 50, zap.NewNop())

	rr := httptest.NewRecorder()
	handler.List(rr, httptest.NewRequest(http.MethodGet, "/api/v1/meals", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMealHandler_Create(t *testing.T) {
	store := &fakeMealStore{}
	handler := NewMealHandler(store, 50, zap.NewNop())
	body := `{"name":"鸡胸肉沙拉","category":"lunch","calories":480,"protein":40,"carbs":15,"fat":20}`

	rr := httptest.NewRecorder()
	handler.Create(rr, authedRequest(http.MethodPost, "/api/v1/meals", body))

	require.Equal(t, http.StatusCreated, rr.Code)
	resp := decodeEnvelope(t, rr)
	require.True(t, resp.Success)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var entry meal.Entry
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "assigned-1", entry.ID, "response carries the store-assigned id")
	assert.Equal(t, meal.Lunch, entry.Category)
	require.NotNil(t, entry.Macros)
	assert.Equal(t, 40.0, entry.Macros.Protein)
}

func TestMealHandler_Create_ValidationErrors(t *testing.T) {
	handler := NewMealHandler(&fakeMealStore{}, 50, zap.NewNop())

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"category":"lunch","calories":480}`},
		{"bad category", `{"name":"x","category":"brunch","calories":480}`},
		{"negative calories", `{"name":"x","category":"lunch","calories":-1}`},
		{"not json", `nope`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.Create(rr, authedRequest(http.MethodPost, "/api/v1/meals", tc.body))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestMealHandler_Create_StoreFailure(t *testing.T) {
	handler := NewMealHandler(&fakeMealStore{fail: true}, 50, zap.NewNop())
	body := `{"name":"沙拉","category":"lunch","calories":480}`

	rr := httptest.NewRecorder()
	handler.Create(rr, authedRequest(http.MethodPost, "/api/v1/meals", body))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestMealHandler_Delete(t *testing.T) {
	store := &fakeMealStore{}
	handler := NewMealHandler(store, 50, zap.NewNop())

	req := authedRequest(http.MethodDelete, "/api/v1/meals/meal-9", "")
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("mealID", "meal-9")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rr := httptest.NewRecorder()
	handler.Delete(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"meal-9"}, store.deleted)
}
