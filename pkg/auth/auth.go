package auth

import (
	"context"

	"github.com/pkg/errors"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleFrontDesk Role = "frontdesk"
	RoleGuest     Role = "guest"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleFrontDesk, RoleGuest:
		return true
	}
	return false
}

// HasStaffPrivilege reports whether the role may manage reservations of other users.
func (r Role) HasStaffPrivilege() bool {
	return r == RoleAdmin || r == RoleFrontDesk
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Principal is the authenticated caller of a request.
type Principal struct {
	ID   int64
	Role Role
}

type authKey int

const principalKey authKey = iota + 1

var ErrNoPrincipal = errors.New("no authenticated user in context")

func SetAuthContext(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func GetPrincipal(ctx context.Context) (Principal, error) {
	p, ok := ctx.Value(principalKey).(Principal)
	if !ok {
		return Principal{}, ErrNoPrincipal
	}
	return p, nil
}

func IsStaff(ctx context.Context) bool {
	p, err := GetPrincipal(ctx)
	return err == nil && p.Role.HasStaffPrivilege()
}

func IsAdmin(ctx context.Context) bool {
	p, err := GetPrincipal(ctx)
	return err == nil && p.Role.IsAdmin()
}
