package domain

import (
	"context"
	"fmt"
	"strings"
)

// Principal is the authenticated caller identity supplied by the transport layer.
// It doubles as the ownership key for candidate records; equality is exact.
type Principal string

// Role is the privilege level of a principal.
type Role string

const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var roleRank = map[Role]int{
	RoleGuest: 0,
	RoleUser:  1,
	RoleAdmin: 2,
}

// ParseRole converts a raw string to a Role, returning an error for unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := roleRank[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Rank orders roles by privilege: guest < user < admin. Unknown roles rank below guest.
func (r Role) Rank() int {
	if rank, ok := roleRank[r]; ok {
		return rank
	}
	return -1
}

// AtLeast reports whether r grants at least the privilege of min.
func (r Role) AtLeast(min Role) bool {
	return r.Rank() >= min.Rank()
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

type RoleRepository interface {
	// GetRole returns found=false for principals that were never assigned a role.
	GetRole(ctx context.Context, p Principal) (Role, bool, error)
	SetRole(ctx context.Context, p Principal, role Role) error
}

type AccessUsecase interface {
	GetRole(ctx context.Context, p Principal) (Role, error)
	HasPermission(ctx context.Context, p Principal, min Role) (bool, error)
	IsAdmin(ctx context.Context, p Principal) (bool, error)
	// Require fails with an Unauthorized error when p ranks below min.
	Require(ctx context.Context, p Principal, min Role) error
	AssignRole(ctx context.Context, assigner, target Principal, role Role) error
	EnsureUserAccess(ctx context.Context, p Principal) error
	BootstrapAdmins(ctx context.Context, principals []Principal) error
}
