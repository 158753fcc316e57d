package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymkit/gym-api/internal/config"
	"github.com/gymkit/gym-api/internal/model"
)

func TestGetMemberOwnRecord(t *testing.T) {
	me := model.Member{ID: 1, FirstName: "Ada", Role: model.RoleMember, Active: true}
	h := NewMemberHandler(config.Config{}, newStubMembers(me))

	c, rec := doJSON(http.MethodGet, "/v1/members/1", "", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	c.Set("principal", me)
	require.NoError(t, h.Get(c))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"first_name":"Ada"`)
}

func TestGetMemberOwnershipDenied(t *testing.T) {
	me := model.Member{ID: 1, Role: model.RoleMember, Active: true}
	other := model.Member{ID: 2, FirstName: "Bob", Role: model.RoleMember, Active: true}
	h := NewMemberHandler(config.Config{}, newStubMembers(me, other))

	c, rec := doJSON(http.MethodGet, "/v1/members/2", "", "")
	c.SetParamNames("id")
	c.SetParamValues("2")
	c.Set("principal", me)
	require.NoError(t, h.Get(c))

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"access denied","message":"you may only view your own record"}`, rec.Body.String())
}

func TestGetMemberElevatedRoleSeesAnyRecord(t *testing.T) {
	staff := model.Member{ID: 1, Role: model.RoleStaff, Active: true}
	other := model.Member{ID: 2, FirstName: "Bob", Role: model.RoleMember, Active: true}
	h := NewMemberHandler(config.Config{}, newStubMembers(staff, other))

	c, rec := doJSON(http.MethodGet, "/v1/members/2", "", "")
	c.SetParamNames("id")
	c.SetParamValues("2")
	c.Set("principal", staff)
	require.NoError(t, h.Get(c))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetMemberNotFound(t *testing.T) {
	h := NewMemberHandler(config.Config{}, newStubMembers())

	c, rec := doJSON(http.MethodGet, "/v1/members/42", "", "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, h.Get(c))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())
}

func TestListMembersByStatusValidation(t *testing.T) {
	h := NewMemberHandler(config.Config{}, newStubMembers())

	c, rec := doJSON(http.MethodGet, "/v1/members/status/suspended", "", "")
	c.SetParamNames("status")
	c.SetParamValues("suspended")
	require.NoError(t, h.ListByStatus(c))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateMemberPatchMerge(t *testing.T) {
	m := model.Member{ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Role: model.RoleMember, Active: true}
	store := newStubMembers(m)
	h := NewMemberHandler(config.Config{}, store)

	c, rec := doJSON(http.MethodPut, "/v1/members/1", `{"email":"ada@gym.example"}`, "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.Update(c))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.updated, 1)
	got := store.updated[0]
	assert.Equal(t, "ada@gym.example", got.Email)
	assert.Equal(t, "Ada", got.FirstName, "absent fields keep their stored values")
	assert.Equal(t, "Lovelace", got.LastName)
}

func TestUpdateMemberRejectsUnknownRole(t *testing.T) {
	m := model.Member{ID: 1, Role: model.RoleMember, Active: true}
	h := NewMemberHandler(config.Config{}, newStubMembers(m))

	c, rec := doJSON(http.MethodPut, "/v1/members/1", `{"role":"owner"}`, "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.Update(c))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "role must be member, staff or admin")
}

func TestDeleteMemberUsesConfiguredPolicy(t *testing.T) {
	for _, policy := range []config.DeletePolicy{config.DeleteSoft, config.DeleteHard} {
		m := model.Member{ID: 1, Role: model.RoleMember, Active: true}
		store := newStubMembers(m)
		h := NewMemberHandler(config.Config{DeletePolicy: policy}, store)

		c, rec := doJSON(http.MethodDelete, "/v1/members/1", "", "")
		c.SetParamNames("id")
		c.SetParamValues("1")
		require.NoError(t, h.Delete(c))

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Len(t, store.policies, 1)
		assert.Equal(t, policy, store.policies[0])
	}
}

func TestCreateMemberIssuesKey(t *testing.T) {
	store := newStubMembers()
	h := NewMemberHandler(config.Config{}, store)

	c, rec := doJSON(http.MethodPost, "/v1/members",
		`{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","role":"staff"}`, "")
	require.NoError(t, h.Create(c))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.created, 1)
	assert.Equal(t, model.RoleStaff, store.created[0].Role, "the direct admin path takes the role as given")
	assert.NotEmpty(t, store.created[0].APIKey)
}
