package middleware

import (
	"context"
	"errors"
	"mediease/models"
	"mediease/utils"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	users map[string]*models.User
	err   error
	calls int
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.users[email], nil
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func issue(t *testing.T, ts *utils.TokenService, email string) string {
	t.Helper()
	token, err := ts.Issue(map[string]interface{}{"email": email})
	require.NoError(t, err)
	return token
}

func TestAuthenticate(t *testing.T) {
	ts := utils.NewTokenService("s3cret", time.Hour)
	auth := NewAuthenticator(ts)

	var seen *utils.Claims
	handler := auth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc.def.ghi", want: http.StatusUnauthorized},
		{name: "foreign token", header: "Bearer " + issue(t, utils.NewTokenService("other", time.Hour), "x@y.com"), want: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + issue(t, ts, "x@y.com"), want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				require.NotNil(t, seen)
				assert.Equal(t, "x@y.com", seen.Email)
			} else {
				assert.Nil(t, seen)
				assert.JSONEq(t, `{"message":"unauthorized access"}`, rec.Body.String())
			}
		})
	}
}

func withClaims(req *http.Request, email string) *http.Request {
	ctx := context.WithValue(req.Context(), UserContextKey, &utils.Claims{Email: email})
	return req.WithContext(ctx)
}

func TestRoleGate(t *testing.T) {
	users := &fakeUsers{users: map[string]*models.User{
		"admin@mediease.com":  {Email: "admin@mediease.com", Role: models.RoleAdmin},
		"seller@mediease.com": {Email: "seller@mediease.com", Role: models.RoleSeller},
	}}
	admin := NewRoleGate(users, models.RoleAdmin).Require(okHandler)
	seller := NewRoleGate(users, models.RoleSeller).Require(okHandler)

	tests := []struct {
		name    string
		handler http.Handler
		email   string
		want    int
	}{
		{name: "admin passes admin gate", handler: admin, email: "admin@mediease.com", want: http.StatusOK},
		{name: "seller fails admin gate", handler: admin, email: "seller@mediease.com", want: http.StatusForbidden},
		{name: "seller passes seller gate", handler: seller, email: "seller@mediease.com", want: http.StatusOK},
		{name: "admin fails seller gate", handler: seller, email: "admin@mediease.com", want: http.StatusForbidden},
		{name: "unknown user", handler: admin, email: "ghost@mediease.com", want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withClaims(httptest.NewRequest(http.MethodGet, "/admin-stats", nil), tt.email)
			rec := httptest.NewRecorder()

			tt.handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRoleGateLooksUpEveryRequest(t *testing.T) {
	users := &fakeUsers{users: map[string]*models.User{
		"admin@mediease.com": {Email: "admin@mediease.com", Role: models.RoleAdmin},
	}}
	gate := NewRoleGate(users, models.RoleAdmin).Require(okHandler)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, withClaims(httptest.NewRequest(http.MethodGet, "/users", nil), "admin@mediease.com"))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 3, users.calls)
}

func TestRoleGateWithoutClaims(t *testing.T) {
	users := &fakeUsers{}
	gate := NewRoleGate(users, models.RoleAdmin).Require(okHandler)

	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, users.calls)
}

func TestRoleGateStoreFailure(t *testing.T) {
	gate := NewRoleGate(&fakeUsers{err: errors.New("connection reset")}, models.RoleAdmin).Require(okHandler)

	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, withClaims(httptest.NewRequest(http.MethodGet, "/users", nil), "admin@mediease.com"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMatchEmail(t *testing.T) {
	handler := MatchEmail("email")(okHandler)

	tests := []struct {
		name      string
		pathEmail string
		token     string
		want      int
	}{
		{name: "same email", pathEmail: "x@y.com", token: "x@y.com", want: http.StatusOK},
		{name: "different email", pathEmail: "other@y.com", token: "x@y.com", want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users/admin/"+tt.pathEmail, nil)
			req = mux.SetURLVars(req, map[string]string{"email": tt.pathEmail})
			req = withClaims(req, tt.token)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
}
