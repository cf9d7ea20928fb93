package staff

import (
	"omiam-waitlist/internal/pkg/errs"
)

var ErrInvalidRole = errs.New("invalid staff role")

type Role string

const (
	RoleHost    Role = "host"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	return r.Level() > 0
}

// Level orders roles so that a higher level includes every lower one.
func (r Role) Level() int {
	switch r {
	case RoleHost:
		return 1
	case RoleManager:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

func (r Role) AtLeast(min Role) bool {
	return r.IsValid() && min.IsValid() && r.Level() >= min.Level()
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
