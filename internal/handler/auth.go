package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gymkit/gym-api/internal/config"
	"github.com/gymkit/gym-api/internal/middleware"
	"github.com/gymkit/gym-api/internal/model"
	"github.com/gymkit/gym-api/internal/repository"
	"github.com/gymkit/gym-api/internal/utils"
)

// MemberStore is the member data access surface the auth and member
// handlers depend on. Implemented by repository.MemberRepo; stubbed in
// tests.
type MemberStore interface {
	FindActiveByKey(ctx context.Context, key string) (model.Member, error)
	FindByKey(ctx context.Context, key string) (model.Member, error)
	FindByID(ctx context.Context, id uint64) (model.Member, error)
	FindAll(ctx context.Context) ([]model.Member, error)
	FindByStatus(ctx context.Context, status string) ([]model.Member, error)
	Create(ctx context.Context, m *model.Member) error
	Update(ctx context.Context, m model.Member) error
	Delete(ctx context.Context, m model.Member, policy config.DeletePolicy) error
	SetActiveByKey(ctx context.Context, key string, active bool) (model.Member, error)
}

// AuthHandler implements registration and credential management.
type AuthHandler struct {
	Cfg     config.Config
	Members MemberStore
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(cfg config.Config, members MemberStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Members: members}
}

type registerReq struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"` // optional; elevated values require an elevated caller
}

type registerResp struct {
	Member model.Member `json:"member"`
	APIKey string       `json:"api_key"`
}

// Register creates a member and issues a fresh API key. The endpoint is
// public: anyone may register as a base member. A requested elevated
// role is honored only when the caller presents a valid credential
// whose own role is elevated; otherwise the requested role is silently
// coerced to the base tier rather than rejected.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validationMessage(err)})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	role := h.resolveRole(ctx, c, req.Role)

	m := model.Member{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		APIKey:    utils.GenerateAPIKey(),
		Role:      role,
		Active:    true,
		JoinedAt:  time.Now().UTC(),
	}
	if err := h.Members.Create(ctx, &m); err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}

	emitChange(c, "member", m.ID, "created")
	return c.JSON(http.StatusCreated, registerResp{Member: m, APIKey: m.APIKey})
}

// resolveRole decides the role a registration is granted. The caller's
// own credential, if any, is validated against the store; only an
// active elevated caller may hand out elevated roles.
func (h *AuthHandler) resolveRole(ctx context.Context, c echo.Context, requested string) string {
	if requested == "" || requested == model.RoleMember || !model.ValidRole(requested) {
		return model.RoleMember
	}
	key := c.Request().Header.Get(middleware.HeaderAPIKey)
	if key == "" {
		return model.RoleMember
	}
	caller, err := h.Members.FindActiveByKey(ctx, key)
	if err != nil || !model.ElevatedRole(caller.Role) {
		return model.RoleMember
	}
	return requested
}

// Me returns the authenticated member's own record, key included, so a
// client can verify which identity its credential resolves to.
func (h *AuthHandler) Me(c echo.Context) error {
	m, ok := middleware.Principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing API key"})
	}
	return c.JSON(http.StatusOK, echo.Map{"member": m, "api_key": m.APIKey})
}

type keyInfo struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
	APIKey   string `json:"api_key"`
	JoinedAt string `json:"joined_at"`
}

// ListKeys lists every issued credential with its owner. Admin only.
func (h *AuthHandler) ListKeys(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	ms, err := h.Members.FindAll(ctx)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	keys := make([]keyInfo, 0, len(ms))
	for _, m := range ms {
		keys = append(keys, keyInfo{
			ID:       m.ID,
			Name:     m.FullName(),
			Email:    m.Email,
			Role:     m.Role,
			Active:   m.Active,
			APIKey:   m.APIKey,
			JoinedAt: m.JoinedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"keys": keys})
}

// ActivateKey re-enables the credential given in the route. Admin only.
func (h *AuthHandler) ActivateKey(c echo.Context) error {
	return h.setKeyActive(c, true)
}

// DeactivateKey disables the credential given in the route, which also
// stops its owner from authenticating. Admin only.
func (h *AuthHandler) DeactivateKey(c echo.Context) error {
	return h.setKeyActive(c, false)
}

func (h *AuthHandler) setKeyActive(c echo.Context, active bool) error {
	key := c.Param("key")
	if key == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "key required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Members.SetActiveByKey(ctx, key, active)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown API key"})
		}
		return respondRepoError(c, h.Cfg.Dev(), err)
	}

	emitChange(c, "member", m.ID, "updated")
	return c.JSON(http.StatusOK, echo.Map{"member": m})
}
