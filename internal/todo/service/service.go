package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AlibekovAA/tada/internal/common/clock"
	"github.com/AlibekovAA/tada/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/tada/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/tada/internal/common/errors"
	"github.com/AlibekovAA/tada/internal/common/logger"
	"github.com/AlibekovAA/tada/internal/common/validation"
	"github.com/AlibekovAA/tada/internal/observability/metrics"
	"github.com/AlibekovAA/tada/internal/todo/domain"
	todorepo "github.com/AlibekovAA/tada/internal/todo/repository"
	userdomain "github.com/AlibekovAA/tada/internal/user/domain"
)

var titleRule = fmt.Sprintf("required,max=%d", constants.TodoTitleMaxLength)

type TodoService struct {
	repo        todorepo.Repository
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger
}

func NewTodoService(repo todorepo.Repository, idGenerator commoncrypto.IDGenerator, clk clock.Clock, log *logger.Logger) *TodoService {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &TodoService{
		repo:        repo,
		idGenerator: idGenerator,
		clock:       clk,
		log:         log,
	}
}

type CreateInput struct {
	Title     string
	Completed bool
}

func (s *TodoService) ListForOwner(ctx context.Context, owner userdomain.ID, req domain.PageRequest) (domain.Page, error) {
	req = req.Normalize()

	todos, total, err := s.repo.ListByOwner(ctx, owner, req)
	if err != nil {
		metrics.TodoOperationsTotal.WithLabelValues("list", "error").Inc()
		return domain.Page{}, mapRepoError(err)
	}

	metrics.TodoOperationsTotal.WithLabelValues("list", "success").Inc()
	return domain.NewPage(todos, req, total), nil
}

func (s *TodoService) Create(ctx context.Context, input CreateInput, owner userdomain.ID) (domain.Todo, error) {
	title, err := validateTitle(input.Title)
	if err != nil {
		return domain.Todo{}, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Todo{}, commonerrors.ErrInternalError.WithCause(err)
	}

	now := s.clock.Now()
	todo := domain.Todo{
		ID:        domain.ID(id),
		Title:     title,
		Completed: input.Completed,
		OwnerID:   owner,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, todo); err != nil {
		metrics.TodoOperationsTotal.WithLabelValues("create", "error").Inc()
		return domain.Todo{}, mapRepoError(err)
	}

	metrics.TodoOperationsTotal.WithLabelValues("create", "success").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"todo_id":  string(todo.ID),
		"owner_id": string(owner),
		"action":   "todo_create",
	}).Debug("todo created")
	return todo, nil
}

func (s *TodoService) Get(ctx context.Context, id domain.ID, requester userdomain.ID) (domain.Todo, error) {
	return s.loadOwned(ctx, "get", id, requester)
}

func (s *TodoService) Update(ctx context.Context, id domain.ID, patch domain.Patch, requester userdomain.ID) (domain.Todo, error) {
	if patch.Title != nil {
		title, err := validateTitle(*patch.Title)
		if err != nil {
			return domain.Todo{}, err
		}
		patch.Title = &title
	}

	todo, err := s.loadOwned(ctx, "update", id, requester)
	if err != nil {
		return domain.Todo{}, err
	}

	if patch.IsEmpty() {
		return todo, nil
	}

	updated := patch.Apply(todo)
	updated.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, updated); err != nil {
		metrics.TodoOperationsTotal.WithLabelValues("update", "error").Inc()
		return domain.Todo{}, mapRepoError(err)
	}

	metrics.TodoOperationsTotal.WithLabelValues("update", "success").Inc()
	return updated, nil
}

func (s *TodoService) Delete(ctx context.Context, id domain.ID, requester userdomain.ID) error {
	if _, err := s.loadOwned(ctx, "delete", id, requester); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		metrics.TodoOperationsTotal.WithLabelValues("delete", "error").Inc()
		return mapRepoError(err)
	}

	metrics.TodoOperationsTotal.WithLabelValues("delete", "success").Inc()
	return nil
}

// loadOwned fetches the todo and checks it belongs to requester.
func (s *TodoService) loadOwned(ctx context.Context, operation string, id domain.ID, requester userdomain.ID) (domain.Todo, error) {
	todo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		metrics.TodoOperationsTotal.WithLabelValues(operation, "not_found").Inc()
		return domain.Todo{}, mapRepoError(err)
	}

	if !todo.OwnedBy(requester) {
		metrics.TodoOperationsTotal.WithLabelValues(operation, "denied").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"todo_id":   string(id),
			"requester": string(requester),
			"action":    "todo_" + operation + "_denied",
		}).Warn("todo access denied")
		return domain.Todo{}, ErrNotOwner
	}

	return todo, nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if err := validation.Var(title, "title", titleRule); err != nil {
		return "", err
	}
	return title, nil
}

func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, todorepo.ErrTodoNotFound):
		return ErrTodoNotFound
	case errors.Is(err, todorepo.ErrOwnerNotFound):
		return ErrOwnerNotFound
	case commonerrors.IsDomainError(err):
		return err
	default:
		return commonerrors.ErrDatabaseError.WithCause(err)
	}
}
