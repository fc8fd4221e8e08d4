package service

import (
	"context"
	"errors"

	"github.com/AlibekovAA/tada/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/tada/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/tada/internal/common/errors"
	"github.com/AlibekovAA/tada/internal/common/logger"
	"github.com/AlibekovAA/tada/internal/observability/metrics"
	"github.com/AlibekovAA/tada/internal/user/domain"
	userrepo "github.com/AlibekovAA/tada/internal/user/repository"
)

const (
	originRegister  = "register"
	originAdmin     = "admin"
	originBootstrap = "bootstrap"
)

type AccountService struct {
	repo        userrepo.Repository
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger
}

func NewAccountService(
	repo userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	idGenerator commoncrypto.IDGenerator,
	clk clock.Clock,
	log *logger.Logger,
) *AccountService {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &AccountService{
		repo:        repo,
		hasher:      hasher,
		idGenerator: idGenerator,
		clock:       clk,
		log:         log,
	}
}

type RegisterInput struct {
	Username string
	Password string
}

type CreateInput struct {
	Username string
	Password string
	Roles    []string
}

func (s *AccountService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "register_attempt",
	}).Info("register attempt")

	if err := validateCredentials(input.Username, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return domain.User{}, err
	}

	return s.create(ctx, input.Username, input.Password, domain.DefaultRoles(), originRegister)
}

// CreateWithRoles is the admin path. An empty role list falls back to USER.
func (s *AccountService) CreateWithRoles(ctx context.Context, input CreateInput) (domain.User, error) {
	if err := validateCredentials(input.Username, input.Password); err != nil {
		return domain.User{}, err
	}

	roles, err := parseRoles(input.Roles)
	if err != nil {
		return domain.User{}, err
	}
	if roles.IsEmpty() {
		roles = domain.DefaultRoles()
	}

	return s.create(ctx, input.Username, input.Password, roles, originAdmin)
}

// EnsureAdmin creates the configured administrator when it does not exist
// yet. An existing account is left untouched.
func (s *AccountService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" {
		return nil
	}

	existing, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		if !existing.IsAdmin() {
			s.log.WithFields(ctx, logger.Fields{
				"username": username,
				"action":   "ensure_admin_not_admin",
			}).Warn("configured admin account exists without ADMIN role")
		}
		return nil
	}
	if !errors.Is(err, userrepo.ErrUserNotFound) {
		return mapRepoError(err)
	}

	if err := validateCredentials(username, password); err != nil {
		return err
	}

	_, err = s.create(ctx, username, password, domain.NewRoleSet(domain.RoleAdmin, domain.RoleUser), originBootstrap)
	if errors.Is(err, ErrUsernameTaken) {
		return nil
	}
	return err
}

func (s *AccountService) create(ctx context.Context, username, password string, roles domain.RoleSet, origin string) (domain.User, error) {
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "register_username_exists",
		}).Warn("register failed: already exists")
		return domain.User{}, ErrUsernameTaken
	} else if !errors.Is(err, userrepo.ErrUserNotFound) {
		return domain.User{}, s.registrationFailed(ctx, username, "lookup", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.User{}, s.registrationFailed(ctx, username, "hash", err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.User{}, s.registrationFailed(ctx, username, "id_generation", err)
	}

	user := domain.User{
		ID:           domain.ID(id),
		Username:     username,
		PasswordHash: hash,
		Roles:        roles,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userrepo.ErrUsernameAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"username": username,
				"action":   "register_username_exists",
			}).Warn("register failed: already exists")
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, s.registrationFailed(ctx, username, "create", err)
	}

	metrics.UsersRegistered.WithLabelValues(origin).Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id":  string(user.ID),
		"username": username,
		"roles":    user.Roles.Strings(),
		"origin":   origin,
		"action":   "register_success",
	}).Info("user created")

	return user, nil
}

func (s *AccountService) registrationFailed(ctx context.Context, username, stage string, err error) error {
	s.log.WithFields(ctx, logger.Fields{
		"username": username,
		"stage":    stage,
		"action":   "register_failed",
	}).Errorf("register failed: %v", err)
	return ErrRegistrationFailed.WithCause(err)
}

func (s *AccountService) ChangePassword(ctx context.Context, userID domain.ID, oldPassword, newPassword string) error {
	if err := validatePassword("new_password", newPassword); err != nil {
		return err
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		metrics.PasswordChanges.WithLabelValues("change", "not_found").Inc()
		return mapRepoError(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, oldPassword); err != nil {
		if errors.Is(err, commoncrypto.ErrPasswordMismatch) {
			metrics.PasswordChanges.WithLabelValues("change", "invalid_credential").Inc()
			s.log.WithFields(ctx, logger.Fields{
				"user_id": string(userID),
				"action":  "change_password_mismatch",
			}).Warn("change password failed: old password mismatch")
			return ErrInvalidCredential
		}
		return commonerrors.ErrInternalError.WithCause(err)
	}

	if err := s.storePassword(ctx, userID, newPassword); err != nil {
		metrics.PasswordChanges.WithLabelValues("change", "error").Inc()
		return err
	}

	metrics.PasswordChanges.WithLabelValues("change", "success").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(userID),
		"action":  "change_password_success",
	}).Info("password changed")
	return nil
}

// ResetPassword is the admin path; the old password is not checked.
func (s *AccountService) ResetPassword(ctx context.Context, userID domain.ID, newPassword string) error {
	if err := validatePassword("new_password", newPassword); err != nil {
		return err
	}

	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		metrics.PasswordChanges.WithLabelValues("reset", "not_found").Inc()
		return mapRepoError(err)
	}

	if err := s.storePassword(ctx, userID, newPassword); err != nil {
		metrics.PasswordChanges.WithLabelValues("reset", "error").Inc()
		return err
	}

	metrics.PasswordChanges.WithLabelValues("reset", "success").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(userID),
		"action":  "reset_password_success",
	}).Info("password reset")
	return nil
}

func (s *AccountService) storePassword(ctx context.Context, userID domain.ID, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return commonerrors.ErrInternalError.WithCause(err)
	}
	if err := s.repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return mapRepoError(err)
	}
	return nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, userID domain.ID, patch domain.ProfilePatch) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, mapRepoError(err)
	}

	if patch.IsEmpty() || patch.Username == user.Username {
		return user, nil
	}

	if err := validateUsername(patch.Username); err != nil {
		return domain.User{}, err
	}

	if err := s.repo.UpdateUsername(ctx, userID, patch.Username); err != nil {
		return domain.User{}, mapRepoError(err)
	}
	user.Username = patch.Username

	s.log.WithFields(ctx, logger.Fields{
		"user_id":  string(userID),
		"username": patch.Username,
		"action":   "update_profile_success",
	}).Info("profile updated")
	return user, nil
}

// UpdateRoles replaces the role set. An empty set is stored as given; such a
// user keeps user-tier access and loses admin access.
func (s *AccountService) UpdateRoles(ctx context.Context, userID domain.ID, labels []string) (domain.User, error) {
	roles, err := parseRoles(labels)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, mapRepoError(err)
	}

	if err := s.repo.ReplaceRoles(ctx, userID, roles); err != nil {
		return domain.User{}, mapRepoError(err)
	}
	user.Roles = roles

	metrics.RoleUpdatesTotal.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(userID),
		"roles":   roles.Strings(),
		"action":  "update_roles_success",
	}).Info("roles replaced")
	return user, nil
}

// DeleteUser removes the account and, through the store, its todos.
func (s *AccountService) DeleteUser(ctx context.Context, userID domain.ID) error {
	err := s.repo.Delete(ctx, userID)
	switch {
	case err == nil:
		metrics.UsersDeleted.WithLabelValues("deleted").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(userID),
			"action":  "delete_user_success",
		}).Info("user deleted")
		return nil
	case errors.Is(err, userrepo.ErrUserNotFound):
		metrics.UsersDeleted.WithLabelValues("not_found").Inc()
		return ErrUserNotFound
	default:
		metrics.UsersDeleted.WithLabelValues("failed").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(userID),
			"action":  "delete_user_failed",
		}).Errorf("delete user failed: %v", err)
		return ErrDeleteFailed.WithCause(err)
	}
}

func (s *AccountService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (s *AccountService) GetUser(ctx context.Context, userID domain.ID) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, mapRepoError(err)
	}
	return user, nil
}

func (s *AccountService) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return domain.User{}, mapRepoError(err)
	}
	return user, nil
}

func parseRoles(labels []string) (domain.RoleSet, error) {
	roles, err := domain.ParseRoleSet(labels)
	if err != nil {
		return nil, ErrInvalidRole.WithMessage(err.Error()).WithCause(err)
	}
	return roles, nil
}

func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, userrepo.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, userrepo.ErrUsernameAlreadyExists):
		return ErrUsernameTaken
	case commonerrors.IsDomainError(err):
		return err
	default:
		return commonerrors.ErrDatabaseError.WithCause(err)
	}
}
