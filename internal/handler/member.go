package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gymkit/gym-api/internal/config"
	"github.com/gymkit/gym-api/internal/middleware"
	"github.com/gymkit/gym-api/internal/model"
	"github.com/gymkit/gym-api/internal/utils"
)

// MemberHandler implements member CRUD. Role gating happens in the
// permission middleware; the per-record ownership gate for base members
// lives here because it needs the fetched record.
type MemberHandler struct {
	Cfg     config.Config
	Members MemberStore
}

// NewMemberHandler constructs a MemberHandler.
func NewMemberHandler(cfg config.Config, members MemberStore) *MemberHandler {
	return &MemberHandler{Cfg: cfg, Members: members}
}

// List returns every member.
func (h *MemberHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	ms, err := h.Members.FindAll(ctx)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	return c.JSON(http.StatusOK, echo.Map{"members": ms})
}

// ListByStatus returns members filtered by "active" or "inactive".
func (h *MemberHandler) ListByStatus(c echo.Context) error {
	status := c.Param("status")
	if status != "active" && status != "inactive" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be active or inactive"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ms, err := h.Members.FindByStatus(ctx, status)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	return c.JSON(http.StatusOK, echo.Map{"members": ms})
}

// Get returns one member by id. A base-role caller may only fetch their
// own record; the check runs after the fetch and is a distinct denial
// from the role-based one.
func (h *MemberHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Members.FindByID(ctx, id)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}

	if p, ok := middleware.Principal(c); ok && p.Role == model.RoleMember && p.ID != m.ID {
		return c.JSON(http.StatusForbidden, echo.Map{
			"error":   "access denied",
			"message": "you may only view your own record",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"member": m})
}

type createMemberReq struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
}

// Create inserts a member directly (admin path; self-service signup
// goes through /register). The new member gets a fresh API key.
func (h *MemberHandler) Create(c echo.Context) error {
	var req createMemberReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validationMessage(err)})
	}
	role := req.Role
	if !model.ValidRole(role) {
		role = model.RoleMember
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m := model.Member{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		APIKey:    utils.GenerateAPIKey(),
		Role:      role,
		Active:    true,
	}
	if err := h.Members.Create(ctx, &m); err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}

	emitChange(c, "member", m.ID, "created")
	return c.JSON(http.StatusCreated, echo.Map{"member": m, "api_key": m.APIKey})
}

type updateMemberReq struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone"`
	Role      *string `json:"role"`
	Active    *bool   `json:"active"`
}

// Update patches a member's profile. Absent fields keep their stored
// values.
func (h *MemberHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateMemberReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validationMessage(err)})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Members.FindByID(ctx, id)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	if req.FirstName != nil {
		m.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		m.LastName = *req.LastName
	}
	if req.Email != nil {
		m.Email = *req.Email
	}
	if req.Phone != nil {
		m.Phone = *req.Phone
	}
	if req.Role != nil {
		if !model.ValidRole(*req.Role) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be member, staff or admin"})
		}
		m.Role = *req.Role
	}
	if req.Active != nil {
		m.Active = *req.Active
	}

	if err := h.Members.Update(ctx, m); err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}

	emitChange(c, "member", m.ID, "updated")
	return c.JSON(http.StatusOK, echo.Map{"member": m})
}

// Delete removes a member under the configured policy: soft deletion
// deactivates, hard deletion drops the row.
func (h *MemberHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Members.FindByID(ctx, id)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	if err := h.Members.Delete(ctx, m, h.Cfg.DeletePolicy); err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}

	emitChange(c, "member", m.ID, "deleted")
	return c.NoContent(http.StatusNoContent)
}
