package access

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	commoncrypto "github.com/AlibekovAA/tada/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/tada/internal/common/errors"
	"github.com/AlibekovAA/tada/internal/common/logger"
	userdomain "github.com/AlibekovAA/tada/internal/user/domain"
	userservice "github.com/AlibekovAA/tada/internal/user/service"
)

type mockLookup struct {
	users map[string]userdomain.User
	err   error
}

func (m *mockLookup) GetByUsername(ctx context.Context, username string) (userdomain.User, error) {
	if m.err != nil {
		return userdomain.User{}, m.err
	}
	u, ok := m.users[username]
	if !ok {
		return userdomain.User{}, userservice.ErrUserNotFound
	}
	return u, nil
}

type mockHasher struct{}

func (mockHasher) Hash(password string) (string, error) { return "hashed_" + password, nil }

func (mockHasher) Compare(hash, password string) error {
	if strings.TrimPrefix(hash, "hashed_") == password {
		return nil
	}
	return commoncrypto.ErrPasswordMismatch
}

func newLookup() *mockLookup {
	return &mockLookup{users: map[string]userdomain.User{
		"alice": {ID: "alice-id", Username: "alice", PasswordHash: "hashed_pw1", Roles: userdomain.DefaultRoles()},
		"root":  {ID: "root-id", Username: "root", PasswordHash: "hashed_rootpw", Roles: userdomain.NewRoleSet(userdomain.RoleAdmin, userdomain.RoleUser)},
		"ghost": {ID: "ghost-id", Username: "ghost", PasswordHash: "hashed_boo"},
	}}
}

func TestGate_Authenticate(t *testing.T) {
	gate := NewGate(newLookup(), mockHasher{}, logger.Discard())
	ctx := context.Background()

	p, err := gate.Authenticate(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if p.ID != "alice-id" || !p.HasRole(userdomain.RoleUser) {
		t.Errorf("unexpected principal %+v", p)
	}

	if _, err := gate.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, commonerrors.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated for bad password, got %v", err)
	}
	if _, err := gate.Authenticate(ctx, "nobody", "pw1"); !errors.Is(err, commonerrors.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated for unknown user, got %v", err)
	}
}

func TestGate_Resolve(t *testing.T) {
	gate := NewGate(newLookup(), mockHasher{}, logger.Discard())

	p, err := gate.Resolve(context.Background(), "root")
	if err != nil || !p.HasRole(userdomain.RoleAdmin) {
		t.Fatalf("expected admin principal, got %+v %v", p, err)
	}
	if _, err := gate.Resolve(context.Background(), "nobody"); !errors.Is(err, commonerrors.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}

	failing := NewGate(&mockLookup{err: errors.New("db down")}, mockHasher{}, logger.Discard())
	if _, err := failing.Resolve(context.Background(), "root"); !errors.Is(err, commonerrors.ErrDatabaseError) {
		t.Errorf("expected ErrDatabaseError, got %v", err)
	}
}

func newProtected(t *testing.T, adminOnly bool) http.Handler {
	t.Helper()
	mw := NewMiddleware(NewGate(newLookup(), mockHasher{}, logger.Discard()), logger.Discard())

	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := MustPrincipal(r)
		w.Header().Set("X-Principal", p.Username)
		w.WriteHeader(http.StatusNoContent)
	})
	if adminOnly {
		h = mw.RequireRole(userdomain.RoleAdmin)(h)
	}
	return mw.Authenticate(h)
}

func TestMiddleware_Tiers(t *testing.T) {
	testCases := []struct {
		name      string
		adminOnly bool
		user      string
		password  string
		noAuth    bool
		want      int
	}{
		{"user tier without credentials", false, "", "", true, http.StatusUnauthorized},
		{"user tier bad password", false, "alice", "nope", false, http.StatusUnauthorized},
		{"user tier ok", false, "alice", "pw1", false, http.StatusNoContent},
		{"user tier roleless user", false, "ghost", "boo", false, http.StatusNoContent},
		{"admin tier plain user", true, "alice", "pw1", false, http.StatusForbidden},
		{"admin tier roleless user", true, "ghost", "boo", false, http.StatusForbidden},
		{"admin tier admin", true, "root", "rootpw", false, http.StatusNoContent},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/any", nil)
			if !tc.noAuth {
				req.SetBasicAuth(tc.user, tc.password)
			}
			rec := httptest.NewRecorder()
			newProtected(t, tc.adminOnly).ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
			if tc.want == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("expected WWW-Authenticate challenge")
			}
			if tc.want == http.StatusNoContent && rec.Header().Get("X-Principal") != tc.user {
				t.Errorf("expected principal %s, got %s", tc.user, rec.Header().Get("X-Principal"))
			}
		})
	}
}
