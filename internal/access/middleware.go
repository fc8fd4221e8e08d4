package access

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/tada/internal/common/errors"
	commonhttp "github.com/AlibekovAA/tada/internal/common/http"
	"github.com/AlibekovAA/tada/internal/common/logger"
	userdomain "github.com/AlibekovAA/tada/internal/user/domain"
)

const realm = `Basic realm="tada", charset="UTF-8"`

type Middleware struct {
	gate       *Gate
	errHandler *commonhttp.ErrorHandler
	log        *logger.Logger
}

func NewMiddleware(gate *Gate, log *logger.Logger) *Middleware {
	return &Middleware{gate: gate, errHandler: commonhttp.NewErrorHandler(log), log: log}
}

// Authenticate is the user tier: any account with valid credentials passes,
// whatever its roles.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			m.unauthenticated(w, r)
			return
		}

		principal, err := m.gate.Authenticate(r.Context(), username, password)
		if err != nil {
			if commonerrors.HasCategory(err, commonerrors.CategoryUnauthenticated) {
				m.unauthenticated(w, r)
				return
			}
			m.errHandler.HandleError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// RequireRole is the admin tier. It must run after Authenticate.
func (m *Middleware) RequireRole(role userdomain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				m.unauthenticated(w, r)
				return
			}
			if !principal.HasRole(role) {
				m.log.WithFields(r.Context(), logger.Fields{
					"user_id": string(principal.ID),
					"role":    string(role),
					"path":    r.URL.Path,
					"action":  "role_denied",
				}).Warn("access denied: missing role")
				m.errHandler.HandleError(w, r, commonerrors.ErrPermissionDenied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *Middleware) unauthenticated(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", realm)
	m.errHandler.HandleError(w, r, commonerrors.ErrUnauthenticated)
}

// MustPrincipal returns the principal placed by Authenticate. Handlers behind
// the access middleware can rely on it being present.
func MustPrincipal(r *http.Request) Principal {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		panic("access: no principal in request context")
	}
	return p
}
