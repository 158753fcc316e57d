package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymkit/gym-api/internal/model"
)

func runPermCheck(t *testing.T, perms Permissions, role, resource, action string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set(principalKey, model.Member{ID: 1, Role: role})
	}

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	require.NoError(t, perms.Check(resource, action)(next)(c))
	return rec
}

func TestCheckMissingEntryFailsClosed(t *testing.T) {
	perms := DefaultPermissions()

	// Unknown resource and unknown action both fail with a server
	// error, never a silent allow — even for an admin.
	for _, tc := range []struct{ resource, action string }{
		{"workouts", ActionRead},
		{"machines", "export"},
		{"credentials", ActionDelete},
	} {
		rec := runPermCheck(t, perms, model.RoleAdmin, tc.resource, tc.action)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, "%s/%s", tc.resource, tc.action)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, tc.resource, body["resource"])
		assert.Equal(t, tc.action, body["action"])
	}
}

func TestCheckRoleMatrix(t *testing.T) {
	perms := DefaultPermissions()

	cases := []struct {
		role     string
		resource string
		action   string
		want     int
	}{
		{model.RoleMember, "machines", ActionRead, http.StatusOK},
		{model.RoleMember, "machines", ActionCreate, http.StatusForbidden},
		{model.RoleStaff, "machines", ActionCreate, http.StatusOK},
		{model.RoleStaff, "members", ActionRead, http.StatusForbidden},
		{model.RoleStaff, "members", ActionDelete, http.StatusForbidden},
		{model.RoleAdmin, "members", ActionDelete, http.StatusOK},
		{model.RoleMember, "members", ActionRead, http.StatusOK},
		{model.RoleMember, "routines", ActionDelete, http.StatusForbidden},
		{model.RoleAdmin, "credentials", ActionRead, http.StatusOK},
		{model.RoleStaff, "credentials", ActionRead, http.StatusForbidden},
	}
	for _, tc := range cases {
		rec := runPermCheck(t, perms, tc.role, tc.resource, tc.action)
		assert.Equal(t, tc.want, rec.Code, "%s doing %s on %s", tc.role, tc.action, tc.resource)
	}
}

func TestCheckDenialPayload(t *testing.T) {
	perms := DefaultPermissions()
	rec := runPermCheck(t, perms, model.RoleMember, "machines", ActionDelete)
	require.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "member", body["your_role"])
	assert.ElementsMatch(t, []any{"admin", "staff"}, body["required_roles"])
}

func TestCheckWithoutPrincipal(t *testing.T) {
	perms := DefaultPermissions()
	rec := runPermCheck(t, perms, "", "machines", ActionRead)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
