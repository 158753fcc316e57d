package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gymkit/gym-api/internal/config"
	"github.com/gymkit/gym-api/internal/model"
)

// ExerciseStore is the exercise data access surface the handler depends
// on. Implemented by repository.ExerciseRepo; stubbed in tests.
type ExerciseStore interface {
	FindByID(ctx context.Context, id uint64) (model.Exercise, error)
	FindAll(ctx context.Context) ([]model.Exercise, error)
	FindByMuscleGroup(ctx context.Context, group string) ([]model.Exercise, error)
	Create(ctx context.Context, e *model.Exercise) error
	Update(ctx context.Context, e model.Exercise) error
	Delete(ctx context.Context, e model.Exercise) error
}

// ExerciseHandler implements exercise CRUD and the muscle-group listing.
type ExerciseHandler struct {
	Cfg       config.Config
	Exercises ExerciseStore
}

// NewExerciseHandler constructs an ExerciseHandler.
func NewExerciseHandler(cfg config.Config, exercises ExerciseStore) *ExerciseHandler {
	return &ExerciseHandler{Cfg: cfg, Exercises: exercises}
}

// List returns every exercise.
func (h *ExerciseHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	es, err := h.Exercises.FindAll(ctx)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	return c.JSON(http.StatusOK, echo.Map{"exercises": es})
}

// ListByMuscleGroup returns exercises for one muscle group.
func (h *ExerciseHandler) ListByMuscleGroup(c echo.Context) error {
	group := c.Param("group")
	if group == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "muscle group required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	es, err := h.Exercises.FindByMuscleGroup(ctx, group)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	return c.JSON(http.StatusOK, echo.Map{"exercises": es})
}

// Get returns one exercise by id.
func (h *ExerciseHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Exercises.FindByID(ctx, id)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	return c.JSON(http.StatusOK, echo.Map{"exercise": e})
}

type exerciseReq struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	MuscleGroup string `json:"muscle_group" validate:"required"`
}

// Create inserts an exercise.
func (h *ExerciseHandler) Create(c echo.Context) error {
	var req exerciseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validationMessage(err)})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	e := model.Exercise{Name: req.Name, Description: req.Description, MuscleGroup: req.MuscleGroup}
	if err := h.Exercises.Create(ctx, &e); err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}

	emitChange(c, "exercise", e.ID, "created")
	return c.JSON(http.StatusCreated, echo.Map{"exercise": e})
}

type exercisePatchReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	MuscleGroup *string `json:"muscle_group"`
}

// Update patches an exercise. Absent fields keep their stored values.
func (h *ExerciseHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req exercisePatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Exercises.FindByID(ctx, id)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	if req.Name != nil {
		e.Name = *req.Name
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.MuscleGroup != nil {
		if *req.MuscleGroup == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "muscle group must not be empty"})
		}
		e.MuscleGroup = *req.MuscleGroup
	}

	if err := h.Exercises.Update(ctx, e); err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}

	emitChange(c, "exercise", e.ID, "updated")
	return c.JSON(http.StatusOK, echo.Map{"exercise": e})
}

// Delete removes an exercise.
func (h *ExerciseHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Exercises.FindByID(ctx, id)
	if err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}
	if err := h.Exercises.Delete(ctx, e); err != nil {
		return respondRepoError(c, h.Cfg.Dev(), err)
	}

	emitChange(c, "exercise", e.ID, "deleted")
	return c.NoContent(http.StatusNoContent)
}
