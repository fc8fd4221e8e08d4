package domain

import (
	"time"

	userdomain "github.com/AlibekovAA/tada/internal/user/domain"
)

type ID string

type Todo struct {
	ID        ID
	Title     string
	Completed bool
	OwnerID   userdomain.ID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t Todo) OwnedBy(owner userdomain.ID) bool {
	return t.OwnerID == owner
}

// Patch carries optional changes; nil fields are left unchanged.
type Patch struct {
	Title     *string
	Completed *bool
}

func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil
}

func (p Patch) Apply(t Todo) Todo {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}
