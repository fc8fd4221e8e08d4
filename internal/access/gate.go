package access

import (
	"context"
	"errors"
	"sync"

	commoncrypto "github.com/AlibekovAA/tada/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/tada/internal/common/errors"
	"github.com/AlibekovAA/tada/internal/common/logger"
	"github.com/AlibekovAA/tada/internal/observability/metrics"
	userdomain "github.com/AlibekovAA/tada/internal/user/domain"
	userservice "github.com/AlibekovAA/tada/internal/user/service"
)

// UserLookup is the part of the account service the gate needs.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (userdomain.User, error)
}

type Gate struct {
	users  UserLookup
	hasher commoncrypto.PasswordHasher
	log    *logger.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewGate(users UserLookup, hasher commoncrypto.PasswordHasher, log *logger.Logger) *Gate {
	return &Gate{users: users, hasher: hasher, log: log}
}

// Authenticate verifies basic-auth credentials against the stored hash.
// Unknown users still pay for one hash comparison.
func (g *Gate) Authenticate(ctx context.Context, username, password string) (Principal, error) {
	user, err := g.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, userservice.ErrUserNotFound) {
			_ = g.hasher.Compare(g.dummy(), password)
			metrics.AuthAttemptsTotal.WithLabelValues("unknown_user").Inc()
			return Principal{}, commonerrors.ErrUnauthenticated
		}
		metrics.AuthAttemptsTotal.WithLabelValues("error").Inc()
		return Principal{}, lookupError(err)
	}

	if err := g.hasher.Compare(user.PasswordHash, password); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("bad_password").Inc()
		g.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "auth_bad_password",
		}).Debug("authentication failed")
		return Principal{}, commonerrors.ErrUnauthenticated
	}

	metrics.AuthAttemptsTotal.WithLabelValues("success").Inc()
	return principalFromUser(user), nil
}

// Resolve maps a principal name to its current user record.
func (g *Gate) Resolve(ctx context.Context, username string) (Principal, error) {
	user, err := g.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, userservice.ErrUserNotFound) {
			return Principal{}, commonerrors.ErrUnauthenticated
		}
		return Principal{}, lookupError(err)
	}
	return principalFromUser(user), nil
}

func lookupError(err error) error {
	if commonerrors.IsDomainError(err) {
		return err
	}
	return commonerrors.ErrDatabaseError.WithCause(err)
}

func (g *Gate) dummy() string {
	g.dummyOnce.Do(func() {
		h, err := g.hasher.Hash("tada-dummy-password")
		if err == nil {
			g.dummyHash = h
		}
	})
	return g.dummyHash
}
