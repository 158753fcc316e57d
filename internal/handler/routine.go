package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gymkit/gym-api/internal/config"
	"github.com/gymkit/gym-api/internal/model"
)

// RoutineStore is the routine data access surface the handler depends
// on. Implemented by repository.RoutineRepo; stubbed in tests.
type RoutineStore interface {
	FindByID(ctx context.Context, id uint64) (model.Routine, error)
	FindAll(ctx context.Context) ([]model.Routine, error)
	FindByDifficulty(ctx context.Context, level string) ([]model.Routine, error)
	Create(ctx context.Context, rt *model.Routine) error
	Update(ctx context.Context, rt model.Routine) error
	Delete(ctx context.Context, rt model.Routine) error
}

// RoutineHandler implements routine CRUD and the difficulty listing.
type RoutineHandler struct {
	Cfg      config.Config
	Routines RoutineStore
}

// NewRoutineHandler constructs a RoutineHandler.
func NewRoutineHandler(cfg config.Config, routines RoutineStore) *RoutineHandler {
	return &RoutineHandler{Cfg: cfg, Routines: routines}
}

// List returns every routine.
func (h *RoutineHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	rts, err := h.Routines.FindAll(ctx)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	return c.JSON(http.StatusOK, echo.Map{"routines": rts})
}

// ListByDifficulty returns routines of one difficulty level.
func (h *RoutineHandler) ListByDifficulty(c echo.Context) error {
	level := c.Param("level")
	if !model.ValidDifficulty(level) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "difficulty must be beginner, intermediate or advanced"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rts, err := h.Routines.FindByDifficulty(ctx, level)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	return c.JSON(http.StatusOK, echo.Map{"routines": rts})
}

// Get returns one routine by id.
func (h *RoutineHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rt, err := h.Routines.FindByID(ctx, id)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	return c.JSON(http.StatusOK, echo.Map{"routine": rt})
}

type routineReq struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
}

// Create inserts a routine. Difficulty defaults to beginner.
func (h *RoutineHandler) Create(c echo.Context) error {
	var req routineReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validationMessage(err)})
	}
	if req.Difficulty == "" {
		req.Difficulty = model.DifficultyBeginner
	}
	if !model.ValidDifficulty(req.Difficulty) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "difficulty must be beginner, intermediate or advanced"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rt := model.Routine{Name: req.Name, Description: req.Description, Difficulty: req.Difficulty}
	if err := h.Routines.Create(ctx, &rt); err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}

	emitChange(c, "routine", rt.ID, "created")
	return c.JSON(http.StatusCreated, echo.Map{"routine": rt})
}

type routinePatchReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Difficulty  *string `json:"difficulty"`
}

// Update patches a routine. Absent fields keep their stored values.
func (h *RoutineHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req routinePatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rt, err := h.Routines.FindByID(ctx, id)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	if req.Name != nil {
		rt.Name = *req.Name
	}
	if req.Description != nil {
		rt.Description = *req.Description
	}
	if req.Difficulty != nil {
		if !model.ValidDifficulty(*req.Difficulty) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "difficulty must be beginner, intermediate or advanced"})
		}
		rt.Difficulty = *req.Difficulty
	}

	if err := h.Routines.Update(ctx, rt); err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}

	emitChange(c, "routine", rt.ID, "updated")
	return c.JSON(http.StatusOK, echo.Map{"routine": rt})
}

// Delete removes a routine and, through the schema's cascade, its link
// rows.
func (h *RoutineHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rt, err := h.Routines.FindByID(ctx, id)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	if err := h.Routines.Delete(ctx, rt); err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}

	emitChange(c, "routine", rt.ID, "deleted")
	return c.NoContent(http.StatusNoContent)
}
