package domain

import "time"

type ID string

type User struct {
	ID           ID
	Username     string
	PasswordHash string
	Roles        RoleSet
	CreatedAt    time.Time
}

// IsAdmin reports whether the user carries the admin marker.
func (u User) IsAdmin() bool {
	return u.Roles.Has(RoleAdmin)
}

// ProfilePatch holds optional profile changes; empty fields are left alone.
type ProfilePatch struct {
	Username string
}

func (p ProfilePatch) IsEmpty() bool {
	return p.Username == ""
}
