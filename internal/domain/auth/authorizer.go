package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const rbacModel = `[request_definition]
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

// Authorizer answers role/permission questions from an in-memory casbin policy.
type Authorizer struct {
	enforcer *casbin.Enforcer
}

func NewAuthorizer() (*Authorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("auth: load rbac model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("auth: create enforcer: %w", err)
	}

	for role, perms := range RolePermissions {
		for _, perm := range perms {
			obj, act := splitPermission(perm)
			if _, err := enforcer.AddPolicy(role, obj, act); err != nil {
				return nil, fmt.Errorf("auth: add policy %s %s: %w", role, perm, err)
			}
		}
	}
	for child, parent := range RoleParents {
		if _, err := enforcer.AddGroupingPolicy(child, parent); err != nil {
			return nil, fmt.Errorf("auth: add role %s -> %s: %w", child, parent, err)
		}
	}
	return &Authorizer{enforcer: enforcer}, nil
}

func (a *Authorizer) HasPermission(_ context.Context, role, permission string) (bool, error) {
	if role == "" {
		return false, nil
	}
	obj, act := splitPermission(permission)
	return a.enforcer.Enforce(role, obj, act)
}

func splitPermission(perm string) (string, string) {
	idx := strings.LastIndex(perm, ".")
	if idx < 0 {
		return perm, ""
	}
	return perm[:idx], perm[idx+1:]
}
