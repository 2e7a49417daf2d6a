// Package policy evaluates role capabilities with a casbin RBAC model.
//
// A capability is written "object:action" (for example "units:act_descendants").
// Roles inherit upwards: admin ⊇ supervisor ⊇ member.
package policy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Roles
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleMember     = "member"
)

// IsRole reports whether role is one of the built-in roles.
func IsRole(role string) bool {
	switch role {
	case RoleAdmin, RoleSupervisor, RoleMember:
		return true
	}
	return false
}

// Capabilities
const (
	CapActOnDescendants = "units:act_descendants"
	CapManageUnits      = "units:manage"
	CapManageUsers      = "users:manage"
	CapDeleteAnyRoster  = "rosters:delete_any"
	CapGlobalDashboard  = "dashboard:global"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// Evaluator answers capability questions for a role.
type Evaluator interface {
	Can(role, capability string) bool
	Capabilities(role string) []string
}

// DefaultGrants built-in capability grants per role (inheritance is added separately)
func DefaultGrants() map[string][]string {
	return map[string][]string{
		RoleMember:     {},
		RoleSupervisor: {CapActOnDescendants},
		RoleAdmin:      {CapManageUnits, CapManageUsers, CapDeleteAnyRoster, CapGlobalDashboard},
	}
}

// Enforcer casbin-backed Evaluator, safe for concurrent use
type Enforcer struct {
	enf *casbin.SyncedEnforcer
}

// New builds an Enforcer from the default grants merged with extra.
func New(extra map[string][]string) (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("policy: parse model: %w", err)
	}
	enf, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("policy: init enforcer: %w", err)
	}

	if _, err := enf.AddGroupingPolicy(RoleSupervisor, RoleMember); err != nil {
		return nil, fmt.Errorf("policy: add role link: %w", err)
	}
	if _, err := enf.AddGroupingPolicy(RoleAdmin, RoleSupervisor); err != nil {
		return nil, fmt.Errorf("policy: add role link: %w", err)
	}

	e := &Enforcer{enf: enf}
	for _, grants := range []map[string][]string{DefaultGrants(), extra} {
		for role, caps := range grants {
			for _, c := range caps {
				if err := e.grant(role, c); err != nil {
					return nil, err
				}
			}
		}
	}
	return e, nil
}

func (e *Enforcer) grant(role, capability string) error {
	obj, act, ok := split(capability)
	if !ok {
		return fmt.Errorf("policy: malformed capability %q", capability)
	}
	if _, err := e.enf.AddPolicy(role, obj, act); err != nil {
		return fmt.Errorf("policy: grant %s to %s: %w", capability, role, err)
	}
	return nil
}

// Can reports whether role holds capability. Enforcement errors deny.
func (e *Enforcer) Can(role, capability string) bool {
	obj, act, ok := split(capability)
	if !ok || role == "" {
		return false
	}
	allowed, err := e.enf.Enforce(role, obj, act)
	if err != nil {
		return false
	}
	return allowed
}

// Capabilities lists every capability role holds, directly or inherited, sorted.
func (e *Enforcer) Capabilities(role string) []string {
	perms, err := e.enf.GetImplicitPermissionsForUser(role)
	if err != nil {
		return nil
	}
	seen := make(map[string]struct{}, len(perms))
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		if len(p) < 3 {
			continue
		}
		c := p[1] + ":" + p[2]
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func split(capability string) (string, string, bool) {
	obj, act, ok := strings.Cut(capability, ":")
	if !ok || obj == "" || act == "" {
		return "", "", false
	}
	return obj, act, true
}
