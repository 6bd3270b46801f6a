package routes

import (
	"context"
	"encoding/json"
	"mediease/controllers"
	"mediease/models"
	"mediease/utils"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

type fakeUsers map[string]string

func (f fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	role, ok := f[email]
	if !ok {
		return nil, nil
	}
	return &models.User{Email: email, Role: role}, nil
}

var tokens = utils.NewTokenService("s3cret", time.Hour)

func bearer(t *testing.T, email string) string {
	t.Helper()
	token, err := tokens.Issue(map[string]interface{}{"email": email})
	require.NoError(t, err)
	return "Bearer " + token
}

func newRouter(t *testing.T, c Controllers, users fakeUsers, overrides map[string]string) *mux.Router {
	t.Helper()
	router := mux.NewRouter()
	require.NoError(t, RegisterRoutes(router, c, NewGates(tokens, users), overrides))
	return router
}

func do(router http.Handler, method, target, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestParsePolicy(t *testing.T) {
	for _, s := range []string{"public", "token", "seller", "admin"} {
		p, err := ParsePolicy(s)
		require.NoError(t, err)
		assert.Equal(t, Policy(s), p)
	}
	_, err := ParsePolicy("root")
	assert.Error(t, err)
}

func TestTableNamesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, route := range Table(Controllers{}) {
		assert.False(t, seen[route.Name], "duplicate route %s", route.Name)
		seen[route.Name] = true
		if route.MatchEmail != "" {
			assert.Contains(t, route.Path, "{"+route.MatchEmail+"}")
		}
	}
}

func TestGates(t *testing.T) {
	users := fakeUsers{
		"root@example.com": models.RoleAdmin,
		"shop@example.com": models.RoleSeller,
		"ann@example.com":  models.RoleUser,
	}
	router := newRouter(t, Controllers{Categories: &controllers.CategoryController{}}, users, nil)

	tests := []struct {
		name   string
		method string
		target string
		auth   string
		want   int
	}{
		{name: "no token", method: http.MethodGet, target: "/users", want: http.StatusUnauthorized},
		{name: "garbage token", method: http.MethodGet, target: "/users", auth: "Bearer nope", want: http.StatusUnauthorized},
		{name: "user on admin route", method: http.MethodGet, target: "/users", auth: bearer(t, "ann@example.com"), want: http.StatusForbidden},
		{name: "unknown user on seller route", method: http.MethodGet, target: "/seller-stats", auth: bearer(t, "ghost@example.com"), want: http.StatusForbidden},
		{name: "admin on seller route", method: http.MethodPost, target: "/medicines", auth: bearer(t, "root@example.com"), want: http.StatusForbidden},
		{name: "admin asking about someone else", method: http.MethodGet, target: "/users/admin/ann@example.com", auth: bearer(t, "root@example.com"), want: http.StatusForbidden},
		{name: "seller reading another seller's ads", method: http.MethodGet, target: "/advertisements/other@example.com", auth: bearer(t, "shop@example.com"), want: http.StatusForbidden},
		{name: "admin passes the gate", method: http.MethodDelete, target: "/categories/bad-id", auth: bearer(t, "root@example.com"), want: http.StatusBadRequest},
		{name: "public route", method: http.MethodGet, target: "/", want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(router, tt.method, tt.target, tt.auth)
			assert.Equal(t, tt.want, rr.Code, rr.Body.String())
		})
	}

	rr := do(router, http.MethodGet, "/users", "")
	assert.JSONEq(t, `{"message":"unauthorized access"}`, rr.Body.String())
	rr = do(router, http.MethodGet, "/users", bearer(t, "ann@example.com"))
	assert.JSONEq(t, `{"message":"forbidden access"}`, rr.Body.String())
}

func TestPolicyOverrides(t *testing.T) {
	users := fakeUsers{"ann@example.com": models.RoleUser}
	c := Controllers{Categories: &controllers.CategoryController{}}

	router := newRouter(t, c, users, nil)
	assert.Equal(t, http.StatusForbidden, do(router, http.MethodDelete, "/categories/bad-id", bearer(t, "ann@example.com")).Code)

	router = newRouter(t, c, users, map[string]string{"deleteCategory": "token"})
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodDelete, "/categories/bad-id", bearer(t, "ann@example.com")).Code)
	assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodDelete, "/categories/bad-id", "").Code)

	err := RegisterRoutes(mux.NewRouter(), c, NewGates(tokens, users), map[string]string{"nope": "admin"})
	assert.ErrorContains(t, err, "unknown route")

	err = RegisterRoutes(mux.NewRouter(), c, NewGates(tokens, users), map[string]string{"listUsers": "root"})
	assert.ErrorContains(t, err, "unknown route policy")
}

func TestOverlappingPaths(t *testing.T) {
	router := newRouter(t, Controllers{}, fakeUsers{}, nil)
	id := primitive.NewObjectID().Hex()

	tests := []struct {
		method string
		target string
		want   string
	}{
		{http.MethodDelete, "/carts/" + id, "deleteCart"},
		{http.MethodDelete, "/carts/ann@example.com", "clearCart"},
		{http.MethodPatch, "/carts/" + id, "updateCart"},
		{http.MethodGet, "/users/admin/ann@example.com", "isAdmin"},
		{http.MethodPatch, "/users/admin/" + id, "makeAdmin"},
		{http.MethodDelete, "/users/" + id, "deleteUser"},
		{http.MethodGet, "/payments/ann@example.com", "userPayments"},
		{http.MethodPatch, "/payments/" + id, "settlePayment"},
	}
	for _, tt := range tests {
		var match mux.RouteMatch
		req := httptest.NewRequest(tt.method, tt.target, nil)
		require.True(t, router.Match(req, &match), "%s %s", tt.method, tt.target)
		require.NoError(t, match.MatchErr)
		assert.Equal(t, tt.want, match.Route.GetName(), "%s %s", tt.method, tt.target)
	}
}

func TestTokenThenRoleCheck(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("own role", func(mt *mtest.T) {
		users := &controllers.UserController{Collection: mt.Coll}
		router := mux.NewRouter()
		require.NoError(t, RegisterRoutes(router, Controllers{
			Tokens: controllers.NewTokenController(tokens),
			Users:  users,
		}, NewGates(tokens, users), nil))

		req := httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(`{"email":"root@example.com"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
		var issued struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &issued))

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "MediEaseDB.users", mtest.FirstBatch, bson.D{
			{Key: "email", Value: "root@example.com"},
			{Key: "role", Value: "admin"},
		}))
		rr = do(router, http.MethodGet, "/users/admin/root@example.com", "Bearer "+issued.Token)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.JSONEq(t, `{"admin":true}`, rr.Body.String())
	})
}
