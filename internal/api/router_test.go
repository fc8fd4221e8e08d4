package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AlibekovAA/tada/internal/access"
	"github.com/AlibekovAA/tada/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/tada/internal/common/crypto"
	"github.com/AlibekovAA/tada/internal/common/dto"
	commonhttp "github.com/AlibekovAA/tada/internal/common/http"
	"github.com/AlibekovAA/tada/internal/common/logger"
	"github.com/AlibekovAA/tada/internal/testsupport/memstore"
	todoservice "github.com/AlibekovAA/tada/internal/todo/service"
	userservice "github.com/AlibekovAA/tada/internal/user/service"
	"github.com/AlibekovAA/tada/internal/weather"
)

type fakeWeather struct{}

func (fakeWeather) Current(ctx context.Context, city string) (weather.Reading, error) {
	return weather.Reading{Humidity: 40, Temperature: 12.5}, nil
}

type testApp struct {
	t       *testing.T
	handler http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	log := logger.Discard()
	store := memstore.New()
	hasher := commoncrypto.NewBcryptHasher(4)
	ids := commoncrypto.NewUUIDGenerator()
	clk := clock.NewMockClock(time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC))

	accounts := userservice.NewAccountService(store.Users(), hasher, ids, clk, log)
	if err := accounts.EnsureAdmin(context.Background(), "root", "rootpw"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}

	limiters := commonhttp.NewRateLimiters()
	t.Cleanup(limiters.Stop)

	handler := NewRouter(Deps{
		Log:            log,
		Accounts:       accounts,
		Todos:          todoservice.NewTodoService(store.Todos(), ids, clk, log),
		Weather:        weather.NewService(fakeWeather{}),
		Gate:           access.NewGate(accounts, hasher, log),
		Limiters:       limiters,
		RequestTimeout: 5 * time.Second,
		AllowedOrigins: []string{"http://localhost:3000"},
	})

	return &testApp{t: t, handler: handler}
}

type creds struct {
	user, password string
}

var (
	anonymous = creds{}
	rootAuth  = creds{"root", "rootpw"}
)

func (a *testApp) do(method, path string, as creds, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "198.51.100.7:4000"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if as.user != "" {
		req.SetBasicAuth(as.user, as.password)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) expect(rec *httptest.ResponseRecorder, want int) {
	a.t.Helper()
	if rec.Code != want {
		a.t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func (a *testApp) register(username, password string) dto.User {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/public/register", anonymous, dto.RegisterRequest{Username: username, Password: password})
	a.expect(rec, http.StatusCreated)
	return decode[dto.User](a.t, rec)
}

func TestRouter_HealthCheck(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/public/health-check", anonymous, nil)
	app.expect(rec, http.StatusOK)
	if rec.Body.String() != "ok" {
		t.Errorf("expected ok, got %q", rec.Body.String())
	}
	if rec.Header().Get(commonhttp.TraceIDHeader) == "" {
		t.Error("expected trace id header")
	}
}

func TestRouter_TodoOwnershipScenario(t *testing.T) {
	app := newTestApp(t)
	alice := creds{"alice", "pw1"}
	bob := creds{"bob", "pw2"}

	created := app.register("alice", "pw1")
	if len(created.Roles) != 1 || created.Roles[0] != "USER" {
		t.Fatalf("expected USER role, got %v", created.Roles)
	}
	app.register("bob", "pw2")

	rec := app.do(http.MethodPost, "/user/todos", alice, dto.CreateTodoRequest{Title: "Buy milk"})
	app.expect(rec, http.StatusCreated)
	todo := decode[dto.Todo](t, rec)
	if todo.Completed || todo.OwnerID != created.ID {
		t.Fatalf("unexpected todo %+v", todo)
	}

	done := true
	rec = app.do(http.MethodPut, "/user/todos/"+todo.ID, bob, dto.UpdateTodoRequest{Completed: &done})
	app.expect(rec, http.StatusForbidden)

	rec = app.do(http.MethodDelete, "/user/todos/"+todo.ID, bob, nil)
	app.expect(rec, http.StatusForbidden)

	rec = app.do(http.MethodGet, "/user/todos", bob, nil)
	app.expect(rec, http.StatusOK)
	if page := decode[dto.TodoPage](t, rec); page.TotalElements != 0 {
		t.Errorf("bob must not list alice's todos, got %+v", page)
	}

	rec = app.do(http.MethodPut, "/user/todos/"+todo.ID, alice, dto.UpdateTodoRequest{Completed: &done})
	app.expect(rec, http.StatusOK)

	rec = app.do(http.MethodGet, "/user/todos/"+todo.ID, alice, nil)
	app.expect(rec, http.StatusOK)
	if stored := decode[dto.Todo](t, rec); !stored.Completed || stored.Title != "Buy milk" {
		t.Errorf("expected completion persisted, got %+v", stored)
	}

	rec = app.do(http.MethodGet, "/user/todos?page=0&size=5", alice, nil)
	app.expect(rec, http.StatusOK)
	page := decode[dto.TodoPage](t, rec)
	if page.TotalElements != 1 || page.TotalPages != 1 || page.Size != 5 || len(page.Content) != 1 {
		t.Errorf("unexpected page %+v", page)
	}
}

func TestRouter_TodoPagingBounds(t *testing.T) {
	app := newTestApp(t)
	app.register("alice", "pw1")
	alice := creds{"alice", "pw1"}

	app.expect(app.do(http.MethodPost, "/user/todos", alice, dto.CreateTodoRequest{Title: "Buy milk"}), http.StatusCreated)

	for _, query := range []string{"page=9223372036854775807&size=20", "page=-1", "size=0", "page=abc"} {
		rec := app.do(http.MethodGet, "/user/todos?"+query, alice, nil)
		app.expect(rec, http.StatusBadRequest)
		if env := decode[commonhttp.ErrorEnvelope](t, rec); env.Code != "VALIDATION_FAILED" {
			t.Errorf("%s: expected VALIDATION_FAILED, got %s", query, env.Code)
		}
	}

	rec := app.do(http.MethodGet, "/user/todos?page=1000000&size=20", alice, nil)
	app.expect(rec, http.StatusOK)
	if page := decode[dto.TodoPage](t, rec); len(page.Content) != 0 || page.TotalElements != 1 {
		t.Errorf("expected an empty far page, got %+v", page)
	}
}

func TestRouter_RegisterConflictAndValidation(t *testing.T) {
	app := newTestApp(t)
	app.register("alice", "pw1")

	rec := app.do(http.MethodPost, "/public/register", anonymous, dto.RegisterRequest{Username: "alice", Password: "other"})
	app.expect(rec, http.StatusConflict)
	env := decode[commonhttp.ErrorEnvelope](t, rec)
	if env.Code != "USERNAME_TAKEN" || env.TraceID == "" {
		t.Errorf("unexpected envelope %+v", env)
	}

	rec = app.do(http.MethodPost, "/public/register", anonymous, dto.RegisterRequest{Username: "x", Password: "pw"})
	app.expect(rec, http.StatusBadRequest)

	rec = app.do(http.MethodGet, "/admin/users", rootAuth, nil)
	app.expect(rec, http.StatusOK)
	if users := decode[[]dto.User](t, rec); len(users) != 2 {
		t.Errorf("expected root and alice only, got %d users", len(users))
	}
}

func TestRouter_ResponsesNeverContainPasswordHash(t *testing.T) {
	app := newTestApp(t)
	app.register("alice", "pw1")

	for _, path := range []string{"/user/me", "/admin/users"} {
		as := creds{"alice", "pw1"}
		if strings.HasPrefix(path, "/admin") {
			as = rootAuth
		}
		rec := app.do(http.MethodGet, path, as, nil)
		app.expect(rec, http.StatusOK)
		if strings.Contains(rec.Body.String(), "$2a$") || strings.Contains(strings.ToLower(rec.Body.String()), "password") {
			t.Errorf("%s leaks password data: %s", path, rec.Body.String())
		}
	}
}

func TestRouter_ChangePassword(t *testing.T) {
	app := newTestApp(t)
	app.register("alice", "pw1")
	alice := creds{"alice", "pw1"}

	rec := app.do(http.MethodPut, "/user/change-password", alice, dto.ChangePasswordRequest{OldPassword: "wrong", NewPassword: "pw9"})
	app.expect(rec, http.StatusBadRequest)
	if env := decode[commonhttp.ErrorEnvelope](t, rec); env.Code != "INVALID_CREDENTIAL" {
		t.Errorf("expected INVALID_CREDENTIAL, got %s", env.Code)
	}
	app.expect(app.do(http.MethodGet, "/user/me", alice, nil), http.StatusOK)

	rec = app.do(http.MethodPut, "/user/change-password", alice, dto.ChangePasswordRequest{OldPassword: "pw1", NewPassword: "pw9"})
	app.expect(rec, http.StatusNoContent)

	app.expect(app.do(http.MethodGet, "/user/me", alice, nil), http.StatusUnauthorized)
	app.expect(app.do(http.MethodGet, "/user/me", creds{"alice", "pw9"}, nil), http.StatusOK)
}

func TestRouter_AdminSurface(t *testing.T) {
	app := newTestApp(t)
	alice := app.register("alice", "pw1")
	aliceAuth := creds{"alice", "pw1"}

	app.expect(app.do(http.MethodGet, "/admin/users", anonymous, nil), http.StatusUnauthorized)
	app.expect(app.do(http.MethodGet, "/admin/users", aliceAuth, nil), http.StatusForbidden)

	rec := app.do(http.MethodPost, "/admin/users", rootAuth, dto.CreateUserRequest{Username: "carol", Password: "cpw", Roles: []string{"admin"}})
	app.expect(rec, http.StatusCreated)
	carol := decode[dto.User](t, rec)
	app.expect(app.do(http.MethodGet, "/admin/users", creds{"carol", "cpw"}, nil), http.StatusOK)

	rec = app.do(http.MethodGet, "/admin/users/"+alice.ID, rootAuth, nil)
	app.expect(rec, http.StatusOK)
	if got := decode[dto.User](t, rec); got.Username != "alice" {
		t.Errorf("expected alice, got %+v", got)
	}

	app.expect(app.do(http.MethodGet, "/admin/users/not-a-uuid", rootAuth, nil), http.StatusBadRequest)
	app.expect(app.do(http.MethodGet, "/admin/users/6f1c2a40-8f7e-4b8e-9d2a-1c3b5e7f9a0b", rootAuth, nil), http.StatusNotFound)

	rec = app.do(http.MethodPut, "/admin/users/"+alice.ID+"/password", rootAuth, dto.ResetPasswordRequest{NewPassword: "reset1"})
	app.expect(rec, http.StatusNoContent)
	app.expect(app.do(http.MethodGet, "/user/me", creds{"alice", "reset1"}, nil), http.StatusOK)

	rec = app.do(http.MethodPut, "/admin/users/"+carol.ID+"/roles", rootAuth, map[string]any{"roles": []string{"bad role"}})
	app.expect(rec, http.StatusBadRequest)

	rec = app.do(http.MethodPut, "/admin/users/6f1c2a40-8f7e-4b8e-9d2a-1c3b5e7f9a0b/roles", rootAuth, map[string]any{"roles": []string{"USER"}})
	app.expect(rec, http.StatusNotFound)

	rec = app.do(http.MethodPut, "/admin/users/"+carol.ID+"/roles", rootAuth, map[string]any{})
	app.expect(rec, http.StatusBadRequest)
}

func TestRouter_EmptyRoleSet(t *testing.T) {
	app := newTestApp(t)
	carolAuth := creds{"carol", "cpw"}

	rec := app.do(http.MethodPost, "/admin/users", rootAuth, dto.CreateUserRequest{Username: "carol", Password: "cpw", Roles: []string{"ADMIN", "USER"}})
	app.expect(rec, http.StatusCreated)
	carol := decode[dto.User](t, rec)

	rec = app.do(http.MethodPut, "/admin/users/"+carol.ID+"/roles", rootAuth, map[string]any{"roles": []string{}})
	app.expect(rec, http.StatusOK)
	if got := decode[dto.User](t, rec); len(got.Roles) != 0 {
		t.Fatalf("expected empty roles, got %v", got.Roles)
	}

	app.expect(app.do(http.MethodGet, "/admin/users", carolAuth, nil), http.StatusForbidden)
	app.expect(app.do(http.MethodGet, "/user/me", carolAuth, nil), http.StatusOK)
}

func TestRouter_DeleteCascades(t *testing.T) {
	app := newTestApp(t)
	alice := app.register("alice", "pw1")
	aliceAuth := creds{"alice", "pw1"}

	rec := app.do(http.MethodPost, "/user/todos", aliceAuth, dto.CreateTodoRequest{Title: "Buy milk"})
	app.expect(rec, http.StatusCreated)

	app.expect(app.do(http.MethodDelete, "/admin/users/"+alice.ID, rootAuth, nil), http.StatusNoContent)
	app.expect(app.do(http.MethodDelete, "/admin/users/"+alice.ID, rootAuth, nil), http.StatusNotFound)

	app.register("alice", "pw1")
	rec = app.do(http.MethodGet, "/user/todos", aliceAuth, nil)
	app.expect(rec, http.StatusOK)
	if page := decode[dto.TodoPage](t, rec); page.TotalElements != 0 {
		t.Errorf("expected no todos for the new alice, got %d", page.TotalElements)
	}
}

func TestRouter_SelfServiceProfile(t *testing.T) {
	app := newTestApp(t)
	app.register("alice", "pw1")
	app.register("bob", "pw2")
	aliceAuth := creds{"alice", "pw1"}

	app.expect(app.do(http.MethodPut, "/user/me", aliceAuth, dto.UpdateProfileRequest{Username: "bob"}), http.StatusConflict)

	rec := app.do(http.MethodPut, "/user/me", aliceAuth, dto.UpdateProfileRequest{Username: "alicia"})
	app.expect(rec, http.StatusOK)
	app.expect(app.do(http.MethodGet, "/user/me", creds{"alicia", "pw1"}, nil), http.StatusOK)

	app.expect(app.do(http.MethodDelete, "/user/me", creds{"alicia", "pw1"}, nil), http.StatusNoContent)
	app.expect(app.do(http.MethodGet, "/user/me", creds{"alicia", "pw1"}, nil), http.StatusUnauthorized)
}

func TestRouter_Weather(t *testing.T) {
	app := newTestApp(t)
	app.register("alice", "pw1")

	app.expect(app.do(http.MethodGet, "/weather/humidity?city=Oslo", anonymous, nil), http.StatusUnauthorized)

	rec := app.do(http.MethodGet, "/weather/humidity?city=Oslo", creds{"alice", "pw1"}, nil)
	app.expect(rec, http.StatusOK)
	if rec.Body.String() != "Humidity in Oslo is 40%" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}

	rec = app.do(http.MethodGet, "/weather/temp?city=Oslo", creds{"alice", "pw1"}, nil)
	app.expect(rec, http.StatusOK)
	if rec.Body.String() != "Temperature in Oslo is 12.5°C" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestRouter_UnknownRouteAndMetrics(t *testing.T) {
	app := newTestApp(t)

	app.expect(app.do(http.MethodGet, "/nope", anonymous, nil), http.StatusNotFound)
	app.expect(app.do(http.MethodDelete, "/public/health-check", anonymous, nil), http.StatusMethodNotAllowed)

	rec := app.do(http.MethodGet, "/metrics", anonymous, nil)
	app.expect(rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Error("expected http metrics to be exported")
	}
}
