package access

import (
	"errors"
	"fmt"
	"strings"
)

// ErrForbidden is returned whenever the caller may not perform an operation.
var ErrForbidden = errors.New("forbidden")

// Role identifies the kind of account calling the API.
type Role string

// Supported roles.
const (
	RoleStudent Role = "student"
	RoleMentor  Role = "mentor"
	RoleAdmin   Role = "admin"
)

// ParseRole normalises a raw role claim. Unknown values yield an empty role.
func ParseRole(raw string) Role {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	switch role {
	case RoleStudent, RoleMentor, RoleAdmin:
		return role
	default:
		return ""
	}
}

// Privileged reports whether the role may see records it does not own.
func (r Role) Privileged() bool {
	return r == RoleMentor || r == RoleAdmin
}

// Operation names an action guarded by the policy table.
type Operation string

// Guarded operations.
const (
	OpSubmitProgress   Operation = "progress.submit"
	OpListPending      Operation = "progress.list_pending"
	OpListMine         Operation = "progress.list_mine"
	OpReviewProgress   Operation = "progress.review"
	OpListAll          Operation = "progress.list_all"
	OpListForIdea      Operation = "progress.list_for_idea"
	OpGetProgress      Operation = "progress.get_one"
	OpNotifications    Operation = "notifications.own"
	OpDashboardSummary Operation = "dashboard.summary"
	OpListActivities   Operation = "activities.list"
)

// Actor is the authenticated caller passed explicitly into every operation.
type Actor struct {
	ID   uint
	Role Role
}

// rule lists the roles allowed for an operation. anyRole admits every known role.
type rule struct {
	anyRole bool
	roles   []Role
}

var policy = map[Operation]rule{
	OpSubmitProgress:   {roles: []Role{RoleStudent}},
	OpListPending:      {roles: []Role{RoleMentor, RoleAdmin}},
	OpListMine:         {roles: []Role{RoleStudent}},
	OpReviewProgress:   {roles: []Role{RoleMentor, RoleAdmin}},
	OpListAll:          {roles: []Role{RoleAdmin}},
	OpListForIdea:      {roles: []Role{RoleAdmin}},
	OpGetProgress:      {anyRole: true},
	OpNotifications:    {anyRole: true},
	OpDashboardSummary: {roles: []Role{RoleMentor, RoleAdmin}},
	OpListActivities:   {roles: []Role{RoleAdmin}},
}

// Allowed reports whether role may perform op.
func Allowed(op Operation, role Role) bool {
	r, ok := policy[op]
	if !ok || ParseRole(string(role)) == "" {
		return false
	}
	if r.anyRole {
		return true
	}
	for _, candidate := range r.roles {
		if candidate == role {
			return true
		}
	}
	return false
}

// Authorize is the single gate every workflow operation runs before touching storage.
func Authorize(op Operation, actor Actor) error {
	if actor.ID == 0 || !Allowed(op, actor.Role) {
		return fmt.Errorf("%s as %q: %w", op, actor.Role, ErrForbidden)
	}
	return nil
}

// Roles returns the roles allowed for op, or nil when every role is accepted or op is unknown.
func Roles(op Operation) []Role {
	r, ok := policy[op]
	if !ok || r.anyRole {
		return nil
	}
	out := make([]Role, len(r.roles))
	copy(out, r.roles)
	return out
}
