package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gymkit/gym-api/internal/config"
	"github.com/gymkit/gym-api/internal/model"
)

// RoutineExerciseStore is the link-table data access surface the
// handler depends on. Implemented by repository.RoutineExerciseRepo;
// stubbed in tests.
type RoutineExerciseStore interface {
	FindByID(ctx context.Context, id uint64) (model.RoutineExercise, error)
	FindAll(ctx context.Context) ([]model.RoutineExercise, error)
	FindByRoutine(ctx context.Context, routineID uint64) ([]model.RoutineExercise, error)
	FindByExercise(ctx context.Context, exerciseID uint64) ([]model.RoutineExercise, error)
	Create(ctx context.Context, re *model.RoutineExercise) error
	Update(ctx context.Context, re model.RoutineExercise) error
	Delete(ctx context.Context, re model.RoutineExercise) error
}

// RoutineExerciseHandler manages the routine↔exercise links. Creating a
// link verifies both ends exist so a typo surfaces as 404 instead of a
// foreign-key error.
type RoutineExerciseHandler struct {
	Cfg       config.Config
	Links     RoutineExerciseStore
	Routines  RoutineStore
	Exercises ExerciseStore
}

// NewRoutineExerciseHandler constructs a RoutineExerciseHandler.
func NewRoutineExerciseHandler(cfg config.Config, links RoutineExerciseStore, routines RoutineStore, exercises ExerciseStore) *RoutineExerciseHandler {
	return &RoutineExerciseHandler{Cfg: cfg, Links: links, Routines: routines, Exercises: exercises}
}

// List returns every link row.
func (h *RoutineExerciseHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Links.FindAll(ctx)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	return c.JSON(http.StatusOK, echo.Map{"routine_exercises": res})
}

// ListByRoutine returns the exercises attached to one routine.
func (h *RoutineExerciseHandler) ListByRoutine(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid routine id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Links.FindByRoutine(ctx, id)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	return c.JSON(http.StatusOK, echo.Map{"routine_exercises": res})
}

// ListByExercise returns the routines one exercise appears in.
func (h *RoutineExerciseHandler) ListByExercise(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid exercise id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Links.FindByExercise(ctx, id)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	return c.JSON(http.StatusOK, echo.Map{"routine_exercises": res})
}

// Get returns one link row by id.
func (h *RoutineExerciseHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	re, err := h.Links.FindByID(ctx, id)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	return c.JSON(http.StatusOK, echo.Map{"routine_exercise": re})
}

type routineExerciseReq struct {
	RoutineID  uint64 `json:"routine_id" validate:"required"`
	ExerciseID uint64 `json:"exercise_id" validate:"required"`
	Sets       uint32 `json:"sets" validate:"required,min=1"`
	Reps       uint32 `json:"reps" validate:"required,min=1"`
}

// Create attaches an exercise to a routine with its prescription. A
// duplicate pair responds 409.
func (h *RoutineExerciseHandler) Create(c echo.Context) error {
	var req routineExerciseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validationMessage(err)})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Routines.FindByID(ctx, req.RoutineID); err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	if _, err := h.Exercises.FindByID(ctx, req.ExerciseID); err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}

	re := model.RoutineExercise{
		RoutineID:  req.RoutineID,
		ExerciseID: req.ExerciseID,
		Sets:       req.Sets,
		Reps:       req.Reps,
	}
	if err := h.Links.Create(ctx, &re); err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}

	emitChange(c, "routine_exercise", re.ID, "created")
	return c.JSON(http.StatusCreated, echo.Map{"routine_exercise": re})
}

type routineExercisePatchReq struct {
	Sets *uint32 `json:"sets" validate:"omitempty,min=1"`
	Reps *uint32 `json:"reps" validate:"omitempty,min=1"`
}

// Update changes the prescription of an existing link.
func (h *RoutineExerciseHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req routineExercisePatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validationMessage(err)})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	re, err := h.Links.FindByID(ctx, id)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	if req.Sets != nil {
		re.Sets = *req.Sets
	}
	if req.Reps != nil {
		re.Reps = *req.Reps
	}

	if err := h.Links.Update(ctx, re); err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}

	emitChange(c, "routine_exercise", re.ID, "updated")
	return c.JSON(http.StatusOK, echo.Map{"routine_exercise": re})
}

// Delete detaches an exercise from a routine.
func (h *RoutineExerciseHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	re, err := h.Links.FindByID(ctx, id)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	if err := h.Links.Delete(ctx, re); err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}

	emitChange(c, "routine_exercise", re.ID, "deleted")
	return c.NoContent(http.StatusNoContent)
}
