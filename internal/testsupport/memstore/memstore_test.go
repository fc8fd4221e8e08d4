package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	tododomain "github.com/AlibekovAA/tada/internal/todo/domain"
	todorepo "github.com/AlibekovAA/tada/internal/todo/repository"
	userdomain "github.com/AlibekovAA/tada/internal/user/domain"
	userrepo "github.com/AlibekovAA/tada/internal/user/repository"
)

func TestStore_UniqueUsername(t *testing.T) {
	users := New().Users()
	ctx := context.Background()

	if err := users.Create(ctx, userdomain.User{ID: "1", Username: "alice"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := users.Create(ctx, userdomain.User{ID: "2", Username: "alice"}); !errors.Is(err, userrepo.ErrUsernameAlreadyExists) {
		t.Errorf("expected ErrUsernameAlreadyExists, got %v", err)
	}
	if err := users.Create(ctx, userdomain.User{ID: "2", Username: "bob"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := users.UpdateUsername(ctx, "2", "alice"); !errors.Is(err, userrepo.ErrUsernameAlreadyExists) {
		t.Errorf("expected rename conflict, got %v", err)
	}
}

func TestStore_CascadeDelete(t *testing.T) {
	store := New()
	ctx := context.Background()
	now := time.Now()

	_ = store.Users().Create(ctx, userdomain.User{ID: "alice", Username: "alice"})
	_ = store.Users().Create(ctx, userdomain.User{ID: "bob", Username: "bob"})
	_ = store.Todos().Create(ctx, tododomain.Todo{ID: "t1", OwnerID: "alice", CreatedAt: now})
	_ = store.Todos().Create(ctx, tododomain.Todo{ID: "t2", OwnerID: "bob", CreatedAt: now})

	if err := store.Users().Delete(ctx, "alice"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Todos().FindByID(ctx, "t1"); !errors.Is(err, todorepo.ErrTodoNotFound) {
		t.Errorf("expected alice's todo to be gone, got %v", err)
	}
	if _, err := store.Todos().FindByID(ctx, "t2"); err != nil {
		t.Errorf("bob's todo must survive, got %v", err)
	}
	if err := store.Todos().Create(ctx, tododomain.Todo{ID: "t3", OwnerID: "alice"}); !errors.Is(err, todorepo.ErrOwnerNotFound) {
		t.Errorf("expected ErrOwnerNotFound, got %v", err)
	}
}

func TestStore_ListByOwnerPaging(t *testing.T) {
	store := New()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_ = store.Users().Create(ctx, userdomain.User{ID: "alice", Username: "alice"})
	for i, id := range []tododomain.ID{"c", "a", "b"} {
		_ = store.Todos().Create(ctx, tododomain.Todo{ID: id, OwnerID: "alice", CreatedAt: base.Add(time.Duration(i) * time.Minute)})
	}

	page, total, err := store.Todos().ListByOwner(ctx, "alice", tododomain.PageRequest{Page: 0, Size: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(page) != 2 || page[0].ID != "c" || page[1].ID != "a" {
		t.Errorf("unexpected first page %+v (total %d)", page, total)
	}

	page, _, _ = store.Todos().ListByOwner(ctx, "alice", tododomain.PageRequest{Page: 5, Size: 2})
	if len(page) != 0 {
		t.Errorf("expected empty page past the end, got %d", len(page))
	}
}
