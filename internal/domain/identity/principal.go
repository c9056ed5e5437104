// Package identity describes the authenticated caller handed to every
// lifecycle operation.
package identity

import "github.com/BruksfildServices01/booking-api/internal/httperr"

type Role string

const (
	RoleClient   Role = "client"
	RoleEmployer Role = "employer"
)

func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleClient, RoleEmployer:
		return Role(raw), true
	}
	return "", false
}

type Principal struct {
	UserID uint
	Role   Role
}

func (p Principal) IsClient() bool   { return p.Role == RoleClient }
func (p Principal) IsEmployer() bool { return p.Role == RoleEmployer }

func (p Principal) RequireClient() error {
	if !p.IsClient() {
		return httperr.ErrForbidden("client_only")
	}
	return nil
}

func (p Principal) RequireEmployer() error {
	if !p.IsEmployer() {
		return httperr.ErrForbidden("employer_only")
	}
	return nil
}
