package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gymkit/gym-api/internal/config"
	"github.com/gymkit/gym-api/internal/model"
)

// MachineStore is the machine data access surface the handler depends
// on. Implemented by repository.MachineRepo; stubbed in tests.
type MachineStore interface {
	FindByID(ctx context.Context, id uint64) (model.Machine, error)
	FindAll(ctx context.Context) ([]model.Machine, error)
	FindByStatus(ctx context.Context, status string) ([]model.Machine, error)
	FindByType(ctx context.Context, typ string) ([]model.Machine, error)
	Create(ctx context.Context, m *model.Machine) error
	Update(ctx context.Context, m model.Machine) error
	Delete(ctx context.Context, m model.Machine) error
}

// MachineHandler implements machine CRUD and filtered listings.
type MachineHandler struct {
	Cfg      config.Config
	Machines MachineStore
}

// NewMachineHandler constructs a MachineHandler.
func NewMachineHandler(cfg config.Config, machines MachineStore) *MachineHandler {
	return &MachineHandler{Cfg: cfg, Machines: machines}
}

// List returns every machine.
func (h *MachineHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	ms, err := h.Machines.FindAll(ctx)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	return c.JSON(http.StatusOK, echo.Map{"machines": ms})
}

// ListByStatus returns machines filtered by status.
func (h *MachineHandler) ListByStatus(c echo.Context) error {
	status := c.Param("status")
	if !model.ValidMachineStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be operational, maintenance or retired"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ms, err := h.Machines.FindByStatus(ctx, status)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	return c.JSON(http.StatusOK, echo.Map{"machines": ms})
}

// ListByType returns machines filtered by equipment type.
func (h *MachineHandler) ListByType(c echo.Context) error {
	typ := c.Param("type")
	if typ == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ms, err := h.Machines.FindByType(ctx, typ)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	return c.JSON(http.StatusOK, echo.Map{"machines": ms})
}

// Get returns one machine by id.
func (h *MachineHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Machines.FindByID(ctx, id)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	return c.JSON(http.StatusOK, echo.Map{"machine": m})
}

type machineReq struct {
	Name   string `json:"name" validate:"required"`
	Type   string `json:"type" validate:"required"`
	Status string `json:"status"`
}

// Create inserts a machine. Status defaults to operational.
func (h *MachineHandler) Create(c echo.Context) error {
	var req machineReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validationMessage(err)})
	}
	if req.Status == "" {
		req.Status = model.MachineOperational
	}
	if !model.ValidMachineStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be operational, maintenance or retired"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m := model.Machine{Name: req.Name, Type: req.Type, Status: req.Status}
	if err := h.Machines.Create(ctx, &m); err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}

	emitChange(c, "machine", m.ID, "created")
	return c.JSON(http.StatusCreated, echo.Map{"machine": m})
}

type machinePatchReq struct {
	Name   *string `json:"name"`
	Type   *string `json:"type"`
	Status *string `json:"status"`
}

// Update patches a machine. Absent fields keep their stored values.
func (h *MachineHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req machinePatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Machines.FindByID(ctx, id)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.Type != nil {
		m.Type = *req.Type
	}
	if req.Status != nil {
		if !model.ValidMachineStatus(*req.Status) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be operational, maintenance or retired"})
		}
		m.Status = *req.Status
	}

	if err := h.Machines.Update(ctx, m); err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}

	emitChange(c, "machine", m.ID, "updated")
	return c.JSON(http.StatusOK, echo.Map{"machine": m})
}

// Delete removes a machine.
func (h *MachineHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Machines.FindByID(ctx, id)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	if err := h.Machines.Delete(ctx, m); err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}

	emitChange(c, "machine", m.ID, "deleted")
	return c.NoContent(http.StatusNoContent)
}
