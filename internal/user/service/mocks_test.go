package service

import (
	"context"
	"errors"
	"strings"

	commoncrypto "github.com/AlibekovAA/tada/internal/common/crypto"
	"github.com/AlibekovAA/tada/internal/user/domain"
	userrepo "github.com/AlibekovAA/tada/internal/user/repository"
)

type mockUserRepo struct {
	createFunc             func(ctx context.Context, user domain.User) error
	findByIDFunc           func(ctx context.Context, id domain.ID) (domain.User, error)
	findByUsernameFunc     func(ctx context.Context, username string) (domain.User, error)
	listFunc               func(ctx context.Context) ([]domain.User, error)
	updateUsernameFunc     func(ctx context.Context, id domain.ID, username string) error
	updatePasswordHashFunc func(ctx context.Context, id domain.ID, hash string) error
	replaceRolesFunc       func(ctx context.Context, id domain.ID, roles domain.RoleSet) error
	deleteFunc             func(ctx context.Context, id domain.ID) error
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockUserRepo) UpdateUsername(ctx context.Context, id domain.ID, username string) error {
	if m.updateUsernameFunc != nil {
		return m.updateUsernameFunc(ctx, id, username)
	}
	return nil
}

func (m *mockUserRepo) UpdatePasswordHash(ctx context.Context, id domain.ID, hash string) error {
	if m.updatePasswordHashFunc != nil {
		return m.updatePasswordHashFunc(ctx, id, hash)
	}
	return nil
}

func (m *mockUserRepo) ReplaceRoles(ctx context.Context, id domain.ID, roles domain.RoleSet) error {
	if m.replaceRolesFunc != nil {
		return m.replaceRolesFunc(ctx, id, roles)
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id domain.ID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *mockHasher) Compare(hash, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	if strings.TrimPrefix(hash, "hashed_") == password {
		return nil
	}
	return commoncrypto.ErrPasswordMismatch
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	return "6f1c2a40-8f7e-4b8e-9d2a-1c3b5e7f9a0b", nil
}

var errStorage = errors.New("connection reset")
