package domain

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/AlibekovAA/tada/internal/common/constants"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

var roleRegex = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

var ErrInvalidRole = errors.New("invalid role")

// ParseRole normalizes a label (trim, upper-case, optional ROLE_ prefix
// stripped) and checks it. Labels other than USER and ADMIN are accepted as
// custom labels.
func ParseRole(raw string) (Role, error) {
	label := strings.ToUpper(strings.TrimSpace(raw))
	label = strings.TrimPrefix(label, "ROLE_")
	if label == "" || len(label) > constants.RoleMaxLength || !roleRegex.MatchString(label) {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, raw)
	}
	return Role(label), nil
}

func (r Role) IsBuiltin() bool {
	return r == RoleUser || r == RoleAdmin
}

// RoleSet is a sorted set of roles without duplicates. A nil or empty set is
// valid; registration and admin creation never produce one, role updates may.
type RoleSet []Role

func DefaultRoles() RoleSet {
	return RoleSet{RoleUser}
}

func NewRoleSet(roles ...Role) RoleSet {
	seen := make(map[Role]struct{}, len(roles))
	out := make(RoleSet, 0, len(roles))
	for _, r := range roles {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseRoleSet parses every label and fails on the first malformed one.
func ParseRoleSet(labels []string) (RoleSet, error) {
	if len(labels) > constants.MaxRolesPerUser {
		return nil, fmt.Errorf("%w: at most %d roles allowed", ErrInvalidRole, constants.MaxRolesPerUser)
	}
	roles := make([]Role, 0, len(labels))
	for _, l := range labels {
		r, err := ParseRole(l)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return NewRoleSet(roles...), nil
}

func (s RoleSet) Has(role Role) bool {
	for _, r := range s {
		if r == role {
			return true
		}
	}
	return false
}

func (s RoleSet) IsEmpty() bool {
	return len(s) == 0
}

func (s RoleSet) Strings() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = string(r)
	}
	return out
}
