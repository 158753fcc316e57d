package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gymkit/gym-api/internal/model"
)

// Permissions maps (resource, action) to the set of roles allowed to
// perform it. The table is built once at startup and handed to route
// registration; there are no scattered role conditionals. Every guarded
// route must have an entry — a missing one is a configuration bug and
// fails the request with 500 rather than silently allowing or denying.
type Permissions map[string]map[string][]string

// Actions used as permission-table keys.
const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// DefaultPermissions returns the production permission table. Member
// records are the only resource hidden from staff; equipment and
// programming are readable by everyone and writable by staff and admin.
func DefaultPermissions() Permissions {
	readAll := []string{model.RoleAdmin, model.RoleStaff, model.RoleMember}
	writeStaff := []string{model.RoleAdmin, model.RoleStaff}
	adminOnly := []string{model.RoleAdmin}

	return Permissions{
		"members": {
			ActionRead:   {model.RoleAdmin, model.RoleMember},
			ActionCreate: adminOnly,
			ActionUpdate: adminOnly,
			ActionDelete: adminOnly,
		},
		"machines": {
			ActionRead:   readAll,
			ActionCreate: writeStaff,
			ActionUpdate: writeStaff,
			ActionDelete: writeStaff,
		},
		"exercises": {
			ActionRead:   readAll,
			ActionCreate: writeStaff,
			ActionUpdate: writeStaff,
			ActionDelete: writeStaff,
		},
		"routines": {
			ActionRead:   readAll,
			ActionCreate: writeStaff,
			ActionUpdate: writeStaff,
			ActionDelete: writeStaff,
		},
		"routine_exercises": {
			ActionRead:   readAll,
			ActionCreate: writeStaff,
			ActionUpdate: writeStaff,
			ActionDelete: writeStaff,
		},
		"credentials": {
			ActionRead:   adminOnly,
			ActionUpdate: adminOnly,
		},
	}
}

// Allowed looks up the role set for (resource, action). ok is false
// when the table has no entry for the pair.
func (p Permissions) Allowed(resource, action string) ([]string, bool) {
	actions, ok := p[resource]
	if !ok {
		return nil, false
	}
	roles, ok := actions[action]
	return roles, ok
}

// Check returns an Echo middleware enforcing the table entry for
// (resource, action) against the authenticated member's role. It must
// run after APIKeyAuth. Denials spell out the required roles and the
// caller's role; the policy is not secret and operators debug against
// these payloads.
func (p Permissions) Check(resource, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles, ok := p.Allowed(resource, action)
			if !ok {
				// Fail closed and loud: a route was guarded with a pair the
				// table doesn't know about.
				return c.JSON(http.StatusInternalServerError, echo.Map{
					"error":    "permission configuration missing",
					"resource": resource,
					"action":   action,
				})
			}
			m, ok := Principal(c)
			if !ok {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
			}
			for _, r := range roles {
				if m.Role == r {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, echo.Map{
				"error":          "access denied",
				"message":        fmt.Sprintf("no permission for %s on %s", action, resource),
				"required_roles": roles,
				"your_role":      m.Role,
			})
		}
	}
}
