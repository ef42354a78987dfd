// Package policy maps login roles to permissions and guards routes with them.
package policy

import (
	"context"
	"errors"
	"net/http"

	"github.com/diewo77/go-inventory/auth"
	"github.com/diewo77/go-inventory/httpx"
)

// Sentinel errors returned by Gate.Authorize.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Profile is a named set of permissions.
type Profile struct {
	name        string
	permissions map[Permission]bool
}

// NewProfile creates a profile with the given permissions.
func NewProfile(name string, permissions ...Permission) *Profile {
	p := &Profile{name: name, permissions: make(map[Permission]bool, len(permissions))}
	for _, perm := range permissions {
		p.permissions[perm] = true
	}
	return p
}

func (p *Profile) Name() string { return p.name }

// HasPermission checks the requested permission, honouring wildcards.
func (p *Profile) HasPermission(requested Permission) bool {
	for perm := range p.permissions {
		if perm.Matches(requested) {
			return true
		}
	}
	return false
}

// Gate resolves a role to its profile and answers permission checks.
type Gate struct {
	profiles map[auth.Role]*Profile
}

// NewGate builds a gate with the default role profiles:
// cashiers browse and record stock leaving, warehouse admins manage stock
// and reports but cannot delete products, super admins can do everything.
func NewGate() *Gate {
	g := &Gate{profiles: make(map[auth.Role]*Profile)}
	g.Register(auth.RoleCashier, NewProfile(string(auth.RoleCashier),
		NewPermission(ResourceProduct, ActionList),
		NewPermission(ResourceProduct, ActionView),
		NewPermission(ResourceItem, ActionReduce),
	))
	g.Register(auth.RoleAdminGudang, NewProfile(string(auth.RoleAdminGudang),
		NewPermission(ResourceProduct, ActionList),
		NewPermission(ResourceProduct, ActionView),
		NewPermission(ResourceProduct, ActionCreate),
		NewPermission(ResourceProduct, ActionUpdate),
		NewPermission(ResourceItem, WildcardAll),
		NewPermission(ResourceReport, ActionView),
	))
	g.Register(auth.RoleSuperAdmin, NewProfile(string(auth.RoleSuperAdmin), PermissionSuperAdmin))
	return g
}

// Register sets the profile for a role, replacing any existing one.
func (g *Gate) Register(role auth.Role, p *Profile) {
	g.profiles[role] = p
}

// Can reports whether role may perform action on resourceType.
func (g *Gate) Can(role auth.Role, resourceType string, action Action) bool {
	p, ok := g.profiles[role]
	if !ok {
		return false
	}
	return p.HasPermission(NewPermission(resourceType, action))
}

// Authorize checks the role held in ctx.
func (g *Gate) Authorize(ctx context.Context, resourceType string, action Action) error {
	role, ok := auth.RoleFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	if !g.Can(role, resourceType, action) {
		return ErrForbidden
	}
	return nil
}

// CanContext is a convenience wrapper for templates and handlers.
func (g *Gate) CanContext(ctx context.Context, resourceType string, action Action) bool {
	return g.Authorize(ctx, resourceType, action) == nil
}

// RequirePermission returns middleware that blocks requests whose role lacks the permission.
// A request without any role is sent to the login page.
func (g *Gate) RequirePermission(resourceType string, action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := g.Authorize(r.Context(), resourceType, action); err != nil {
				if auth.WantsJSON(r) {
					httpx.JSONError(w, http.StatusForbidden, "forbidden", string(NewPermission(resourceType, action)))
					return
				}
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
