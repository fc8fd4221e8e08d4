// Package memstore keeps users and todos in memory with the same semantics
// the Postgres schema enforces: unique usernames, owner foreign key and
// cascade on user delete.
package memstore

import (
	"context"
	"sort"
	"sync"

	tododomain "github.com/AlibekovAA/tada/internal/todo/domain"
	todorepo "github.com/AlibekovAA/tada/internal/todo/repository"
	userdomain "github.com/AlibekovAA/tada/internal/user/domain"
	userrepo "github.com/AlibekovAA/tada/internal/user/repository"
)

type Store struct {
	mu    sync.RWMutex
	users map[userdomain.ID]userdomain.User
	todos map[tododomain.ID]tododomain.Todo
}

func New() *Store {
	return &Store{
		users: make(map[userdomain.ID]userdomain.User),
		todos: make(map[tododomain.ID]tododomain.Todo),
	}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{s: s}
}

func (s *Store) Todos() *TodoRepository {
	return &TodoRepository{s: s}
}

type UserRepository struct {
	s *Store
}

var _ userrepo.Repository = (*UserRepository)(nil)

func (r *UserRepository) Create(_ context.Context, user userdomain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.usernameTaken(user.Username, "") {
		return userrepo.ErrUsernameAlreadyExists
	}
	user.Roles = cloneRoles(user.Roles)
	r.s.users[user.ID] = user
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id userdomain.ID) (userdomain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return userdomain.User{}, userrepo.ErrUserNotFound
	}
	u.Roles = cloneRoles(u.Roles)
	return u, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (userdomain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Username == username {
			u.Roles = cloneRoles(u.Roles)
			return u, nil
		}
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (r *UserRepository) List(_ context.Context) ([]userdomain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]userdomain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		u.Roles = cloneRoles(u.Roles)
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *UserRepository) UpdateUsername(_ context.Context, id userdomain.ID, username string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return userrepo.ErrUserNotFound
	}
	if r.s.usernameTaken(username, id) {
		return userrepo.ErrUsernameAlreadyExists
	}
	u.Username = username
	r.s.users[id] = u
	return nil
}

func (r *UserRepository) UpdatePasswordHash(_ context.Context, id userdomain.ID, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return userrepo.ErrUserNotFound
	}
	u.PasswordHash = hash
	r.s.users[id] = u
	return nil
}

func (r *UserRepository) ReplaceRoles(_ context.Context, id userdomain.ID, roles userdomain.RoleSet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return userrepo.ErrUserNotFound
	}
	u.Roles = cloneRoles(roles)
	r.s.users[id] = u
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id userdomain.ID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return userrepo.ErrUserNotFound
	}
	delete(r.s.users, id)
	for tid, t := range r.s.todos {
		if t.OwnerID == id {
			delete(r.s.todos, tid)
		}
	}
	return nil
}

func (s *Store) usernameTaken(username string, except userdomain.ID) bool {
	for id, u := range s.users {
		if id != except && u.Username == username {
			return true
		}
	}
	return false
}

type TodoRepository struct {
	s *Store
}

var _ todorepo.Repository = (*TodoRepository)(nil)

func (r *TodoRepository) Create(_ context.Context, todo tododomain.Todo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[todo.OwnerID]; !ok {
		return todorepo.ErrOwnerNotFound
	}
	r.s.todos[todo.ID] = todo
	return nil
}

func (r *TodoRepository) FindByID(_ context.Context, id tododomain.ID) (tododomain.Todo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.todos[id]
	if !ok {
		return tododomain.Todo{}, todorepo.ErrTodoNotFound
	}
	return t, nil
}

func (r *TodoRepository) ListByOwner(_ context.Context, owner userdomain.ID, page tododomain.PageRequest) ([]tododomain.Todo, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var owned []tododomain.Todo
	for _, t := range r.s.todos {
		if t.OwnerID == owner {
			owned = append(owned, t)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		if owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].ID < owned[j].ID
		}
		return owned[i].CreatedAt.Before(owned[j].CreatedAt)
	})

	total := int64(len(owned))
	start := page.Offset()
	if start >= len(owned) {
		return nil, total, nil
	}
	end := start + page.Size
	if end > len(owned) {
		end = len(owned)
	}
	return owned[start:end], total, nil
}

func (r *TodoRepository) Update(_ context.Context, todo tododomain.Todo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.todos[todo.ID]
	if !ok {
		return todorepo.ErrTodoNotFound
	}
	todo.OwnerID = existing.OwnerID
	todo.CreatedAt = existing.CreatedAt
	r.s.todos[todo.ID] = todo
	return nil
}

func (r *TodoRepository) Delete(_ context.Context, id tododomain.ID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.todos[id]; !ok {
		return todorepo.ErrTodoNotFound
	}
	delete(r.s.todos, id)
	return nil
}

func cloneRoles(roles userdomain.RoleSet) userdomain.RoleSet {
	if roles == nil {
		return nil
	}
	out := make(userdomain.RoleSet, len(roles))
	copy(out, roles)
	return out
}
