package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/freezeraudit/internal/common"
	"github.com/dmitrijs2005/freezeraudit/internal/logging"
	"github.com/dmitrijs2005/freezeraudit/internal/server/auth"
	"github.com/dmitrijs2005/freezeraudit/internal/server/models"
	"github.com/dmitrijs2005/freezeraudit/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testEnv struct {
	router    *gin.Engine
	handlers  *Handlers
	guard     *auth.Guard
	users     *mockUsers
	items     *mockItems
	locations *mockLocations
	exports   *mockExports
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		users:     &mockUsers{},
		items:     &mockItems{},
		locations: &mockLocations{},
		exports:   &mockExports{},
	}
	env.guard = auth.NewGuard(auth.NewStore("test-secret", false), env.users, 14*24*time.Hour)
	env.handlers = NewHandlers(env.guard, Services{
		Users:     env.users,
		Items:     env.items,
		Locations: env.locations,
		Exports:   env.exports,
	}, auth.DefaultUsernamePolicy, logging.Discard(), time.Second)
	env.router = NewRouter(env.handlers, logging.Discard())

	t.Cleanup(func() {
		env.users.AssertExpectations(t)
		env.items.AssertExpectations(t)
		env.locations.AssertExpectations(t)
		env.exports.AssertExpectations(t)
	})
	return env
}

func (e *testEnv) sessionCookie(t *testing.T, userID string) *http.Cookie {
	t.Helper()
	s := auth.NewSession()
	s.Set(common.UserSessionKey, userID)
	c, err := e.guard.Store().Commit(s, 0)
	require.NoError(t, err)
	return c
}

func (e *testEnv) do(method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(c)
		}
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func responseCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == common.SessionCookieName {
			return c
		}
	}
	return nil
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAnonymousIsRedirectedToLogin(t *testing.T) {
	env := newTestEnv(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/items"},
		{http.MethodGet, "/items/abc"},
		{http.MethodPost, "/items/abc/delete"},
		{http.MethodGet, "/locations"},
		{http.MethodGet, "/items/export"},
	} {
		w := env.do(tc.method, tc.path, nil)
		assert.Equal(t, http.StatusFound, w.Code, tc.path)
		assert.Equal(t, "/login?redirectTo="+url.QueryEscape(tc.path), w.Header().Get("Location"))
	}
}

func TestJoin_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		form    url.Values
		field   string
		message string
	}{
		{"bad username", url.Values{"username": {"someone"}, "password": {"longenough"}}, "username", "Username is invalid"},
		{"missing password", url.Values{"username": {"testuser"}}, "password", "Password is required"},
		{"short password", url.Values{"username": {"testuser"}, "password": {"short"}}, "password", "Password is too short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/join", tt.form)
			require.Equal(t, http.StatusBadRequest, w.Code)

			errs := decodeJSON(t, w)["errors"].(map[string]any)
			assert.Equal(t, tt.message, errs[tt.field])
			assert.Len(t, errs, 2)
		})
	}
}

func TestJoin_ExistingUser(t *testing.T) {
	env := newTestEnv(t)
	env.users.On("CreateUser", mock.Anything, "testuser", "longenough").Return(nil, common.ErrorAlreadyExists)

	w := env.do(http.MethodPost, "/join", url.Values{"username": {"testuser"}, "password": {"longenough"}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := decodeJSON(t, w)["errors"].(map[string]any)
	assert.Equal(t, "A user already exists with this username", errs["username"])
	assert.Nil(t, errs["password"])
}

func TestJoin_SuccessStartsSessionAndSanitizesRedirect(t *testing.T) {
	env := newTestEnv(t)
	env.users.On("CreateUser", mock.Anything, "testuser", "longenough").
		Return(&models.User{ID: "u-1", UserName: "testuser"}, nil)

	w := env.do(http.MethodPost, "/join", url.Values{
		"username": {"testuser"}, "password": {"longenough"}, "redirectTo": {"//evil.com"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	c := responseCookie(w)
	require.NotNil(t, c)
	assert.True(t, c.HttpOnly)
	assert.Zero(t, c.MaxAge)
	assert.Equal(t, "u-1", env.guard.Store().Decode(c.Value).Get(common.UserSessionKey))
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.users.On("VerifyLogin", mock.Anything, "dontworry", "wrongpassword").Return(nil, nil)
	env.users.On("VerifyLogin", mock.Anything, "dontworry", "myreallystrongpassword").
		Return(&models.User{ID: "u-1", UserName: "dontworry"}, nil)

	w := env.do(http.MethodPost, "/login", url.Values{"username": {"dontworry"}, "password": {"wrongpassword"}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid username or password", decodeJSON(t, w)["errors"].(map[string]any)["username"])

	w = env.do(http.MethodPost, "/login", url.Values{
		"username": {"dontworry"}, "password": {"myreallystrongpassword"},
		"remember": {"on"}, "redirectTo": {"/items"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/items", w.Header().Get("Location"))
	c := responseCookie(w)
	require.NotNil(t, c)
	assert.Equal(t, 14*24*60*60, c.MaxAge)
}

func TestLoginPage_RedirectsWhenLoggedIn(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/login", nil, env.sessionCookie(t, "u-1"))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = env.do(http.MethodGet, "/join?redirectTo=/items", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/items", decodeJSON(t, w)["redirectTo"])
}

func TestLogout_DestroysSession(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/logout", nil, env.sessionCookie(t, "u-1"))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	c := responseCookie(w)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)

	w = env.do(http.MethodGet, "/items", nil, c)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?redirectTo=%2Fitems", w.Header().Get("Location"))
}

func TestIndex(t *testing.T) {
	env := newTestEnv(t)
	env.users.On("GetUserByID", mock.Anything, "u-1").Return(&models.User{ID: "u-1", UserName: "dontworry"}, nil)
	env.users.On("GetUserByID", mock.Anything, "gone").Return(nil, common.ErrorNotFound)

	w := env.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decodeJSON(t, w)["user"])

	w = env.do(http.MethodGet, "/", nil, env.sessionCookie(t, "u-1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dontworry", decodeJSON(t, w)["user"].(map[string]any)["username"])

	w = env.do(http.MethodGet, "/", nil, env.sessionCookie(t, "gone"))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Empty(t, responseCookie(w).Value)

	w = env.do(http.MethodHead, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateItem_ValidationError(t *testing.T) {
	env := newTestEnv(t)
	verr := services.ValidateItem(models.ItemFields{})
	env.items.On("Create", mock.Anything, "u-1", mock.Anything).Return(nil, verr)

	w := env.do(http.MethodPost, "/items/new", url.Values{"title": {""}}, env.sessionCookie(t, "u-1"))
	require.Equal(t, http.StatusBadRequest, w.Code)

	errs := decodeJSON(t, w)["errors"].(map[string]any)
	assert.Equal(t, "Title is required", errs["title"])
	for _, k := range []string{"amount", "notes", "location", "category"} {
		v, ok := errs[k]
		assert.True(t, ok, k)
		assert.Nil(t, v, k)
	}
}

func TestCreateItem_FlashShownOnce(t *testing.T) {
	env := newTestEnv(t)
	login := env.sessionCookie(t, "u-1")

	fields := models.ItemFields{Title: "Beef burgers", Amount: "4", Location: "Kitchen", Category: "Meat and Fish"}
	env.items.On("Create", mock.Anything, "u-1", fields).
		Return(&models.Item{ID: "i-1", UserID: "u-1", Title: "Beef burgers", Category: "Meat and Fish"}, nil)
	env.items.On("List", mock.Anything, "u-1").Return([]*models.Item{
		{ID: "i-1", Title: "Beef burgers", Category: "Meat and Fish"},
	}, nil)

	w := env.do(http.MethodPost, "/items/new", url.Values{
		"title": {"Beef burgers"}, "amount": {"4"}, "location": {"Kitchen"}, "category": {"Meat and Fish"},
	}, login)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/items#meat-and-fish", w.Header().Get("Location"))
	withFlash := responseCookie(w)
	require.NotNil(t, withFlash)

	w = env.do(http.MethodGet, "/items", nil, withFlash)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON(t, w)
	msg := body["globalMessage"].(map[string]any)
	assert.Equal(t, "SUCCESS", msg["type"])
	assert.Equal(t, "Beef burgers added!", msg["message"])
	groups := body["groups"].([]any)
	require.Len(t, groups, 1)
	assert.Equal(t, "meat-and-fish", groups[0].(map[string]any)["slug"])

	cleared := responseCookie(w)
	require.NotNil(t, cleared)
	w = env.do(http.MethodGet, "/items", nil, cleared)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decodeJSON(t, w)["globalMessage"])
	assert.Equal(t, "u-1", env.guard.Store().Decode(cleared.Value).Get(common.UserSessionKey))
}

func TestGetItem(t *testing.T) {
	env := newTestEnv(t)
	login := env.sessionCookie(t, "u-1")

	env.items.On("Get", mock.Anything, "i-1", "u-1").Return(&models.Item{ID: "i-1", Title: "Peas"}, nil)
	env.items.On("Get", mock.Anything, "i-2", "u-1").Return(nil, common.ErrorNotFound)
	env.locations.On("List", mock.Anything, "u-1").Return([]*models.Location{{ID: "l-1", Title: "Garage"}}, nil)

	w := env.do(http.MethodGet, "/items/i-1", nil, login)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON(t, w)
	assert.Equal(t, "Peas", body["item"].(map[string]any)["title"])
	assert.Len(t, body["locations"], 1)
	assert.Len(t, body["categories"], len(models.Categories))

	w = env.do(http.MethodGet, "/items/i-2", nil, login)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateItem(t *testing.T) {
	env := newTestEnv(t)
	login := env.sessionCookie(t, "u-1")

	notes := "bought Tuesday"
	fields := models.ItemFields{Title: "Peas", Amount: "2", Location: "Garage", Category: "Fruit and Veg", Notes: &notes}
	env.items.On("Update", mock.Anything, "i-1", "u-1", fields).Return(nil)
	env.items.On("Update", mock.Anything, "i-9", "u-1", mock.Anything).Return(common.ErrorNotFound)

	form := url.Values{"title": {"Peas"}, "amount": {"2"}, "location": {"Garage"}, "category": {"Fruit and Veg"}, "notes": {notes}}
	w := env.do(http.MethodPost, "/items/i-1", form, login)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/items", w.Header().Get("Location"))

	sess := env.guard.Store().Decode(responseCookie(w).Value)
	assert.Equal(t, "Peas updated", sess.TakeFlash(common.GlobalMessageKey).Message)

	w = env.do(http.MethodPost, "/items/i-9", form, login)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteCloneAndNeedsMore(t *testing.T) {
	env := newTestEnv(t)
	login := env.sessionCookie(t, "u-1")

	env.items.On("Delete", mock.Anything, "i-1", "u-1").Return(nil)
	env.items.On("Clone", mock.Anything, "i-1", "u-1").Return(&models.Item{ID: "i-2", Title: "Peas"}, nil)
	env.items.On("Clone", mock.Anything, "missing", "u-1").Return(nil, nil)
	env.items.On("SetNeedsMore", mock.Anything, "i-1", "u-1", true).Return(nil)
	env.items.On("SetNeedsMore", mock.Anything, "i-1", "u-1", false).Return(nil)
	env.items.On("SetNeedsMore", mock.Anything, "other", "u-1", true).Return(common.ErrorNotFound)

	w := env.do(http.MethodPost, "/items/i-1/delete", nil, login)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/items", w.Header().Get("Location"))
	assert.Equal(t, "Item deleted", env.guard.Store().Decode(responseCookie(w).Value).TakeFlash(common.GlobalMessageKey).Message)

	w = env.do(http.MethodPost, "/items/i-1/clone", nil, login)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "Peas cloned", env.guard.Store().Decode(responseCookie(w).Value).TakeFlash(common.GlobalMessageKey).Message)

	w = env.do(http.MethodPost, "/items/missing/clone", nil, login)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/items", w.Header().Get("Location"))
	assert.Nil(t, responseCookie(w))

	w = env.do(http.MethodPost, "/items/i-1/needsmore", url.Values{"needsMore": {"true"}}, login)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/items/i-1", w.Header().Get("Location"))

	w = env.do(http.MethodPost, "/items/i-1/needsmore", url.Values{"needsMore": {"false"}}, login)
	require.Equal(t, http.StatusFound, w.Code)

	w = env.do(http.MethodPost, "/items/other/needsmore", url.Values{"needsMore": {"true"}}, login)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInternalErrorsAreGeneric(t *testing.T) {
	env := newTestEnv(t)
	env.items.On("List", mock.Anything, "u-1").Return(nil, errors.New("db error: connection refused"))

	w := env.do(http.MethodGet, "/items", nil, env.sessionCookie(t, "u-1"))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal error", decodeJSON(t, w)["error"])
}

func TestLocations(t *testing.T) {
	env := newTestEnv(t)
	login := env.sessionCookie(t, "u-1")

	env.locations.On("Create", mock.Anything, "u-1", "Garage").Return(&models.Location{ID: "l-1", Title: "Garage"}, nil)
	env.locations.On("Create", mock.Anything, "u-1", "").Return(nil, services.ValidateLocation(""))
	env.locations.On("Delete", mock.Anything, "l-1", "u-1").Return(nil)
	env.locations.On("List", mock.Anything, "u-1").Return([]*models.Location{{ID: "l-1", Title: "Garage"}}, nil)

	w := env.do(http.MethodPost, "/locations/new", url.Values{"title": {"Garage"}}, login)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/locations", w.Header().Get("Location"))
	withFlash := responseCookie(w)

	w = env.do(http.MethodGet, "/locations", nil, withFlash)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON(t, w)
	assert.Equal(t, "Garage added!", body["globalMessage"].(map[string]any)["message"])
	assert.Len(t, body["locations"], 1)

	w = env.do(http.MethodPost, "/locations/new", url.Values{"title": {""}}, login)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Title is required", decodeJSON(t, w)["errors"].(map[string]any)["title"])

	w = env.do(http.MethodPost, "/locations/l-1/delete", nil, login)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "Location deleted", env.guard.Store().Decode(responseCookie(w).Value).TakeFlash(common.GlobalMessageKey).Message)
}

func TestExport(t *testing.T) {
	env := newTestEnv(t)
	login := env.sessionCookie(t, "u-1")

	env.exports.On("WriteCSV", mock.Anything, "u-1", mock.Anything).Return(nil, "title,amount\nPeas,1\n")
	env.exports.On("FileName").Return("freezer-audit-2024-05-17.csv")

	w := env.do(http.MethodGet, "/items/export", nil, login)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="freezer-audit-2024-05-17.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "title,amount\nPeas,1\n", w.Body.String())
}

func TestArchive(t *testing.T) {
	env := newTestEnv(t)

	env.exports.On("Archive", mock.Anything, "u-1").Return("https://s3.local/exports/u-1/x.csv?sig", nil)
	env.exports.On("Archive", mock.Anything, "u-2").Return("", common.ErrorStorageDisabled)

	w := env.do(http.MethodPost, "/items/export", nil, env.sessionCookie(t, "u-1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://s3.local/exports/u-1/x.csv?sig", decodeJSON(t, w)["url"])

	w = env.do(http.MethodPost, "/items/export", nil, env.sessionCookie(t, "u-2"))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
