package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymkit/gym-api/internal/config"
	"github.com/gymkit/gym-api/internal/model"
	"github.com/gymkit/gym-api/internal/repository"
)

type stubRoutines struct {
	byID map[uint64]model.Routine
}

func (s *stubRoutines) FindByID(_ context.Context, id uint64) (model.Routine, error) {
	rt, ok := s.byID[id]
	if !ok {
		return model.Routine{}, repository.ErrNotFound
	}
	return rt, nil
}
func (s *stubRoutines) FindAll(context.Context) ([]model.Routine, error) { return nil, nil }
func (s *stubRoutines) FindByDifficulty(context.Context, string) ([]model.Routine, error) {
	return nil, nil
}
func (s *stubRoutines) Create(context.Context, *model.Routine) error { return nil }
func (s *stubRoutines) Update(context.Context, model.Routine) error  { return nil }
func (s *stubRoutines) Delete(context.Context, model.Routine) error  { return nil }

type stubExercises struct {
	byID map[uint64]model.Exercise
}

func (s *stubExercises) FindByID(_ context.Context, id uint64) (model.Exercise, error) {
	e, ok := s.byID[id]
	if !ok {
		return model.Exercise{}, repository.ErrNotFound
	}
	return e, nil
}
func (s *stubExercises) FindAll(context.Context) ([]model.Exercise, error) { return nil, nil }
func (s *stubExercises) FindByMuscleGroup(context.Context, string) ([]model.Exercise, error) {
	return nil, nil
}
func (s *stubExercises) Create(context.Context, *model.Exercise) error { return nil }
func (s *stubExercises) Update(context.Context, model.Exercise) error  { return nil }
func (s *stubExercises) Delete(context.Context, model.Exercise) error  { return nil }

type stubLinks struct {
	byID      map[uint64]model.RoutineExercise
	created   []model.RoutineExercise
	createErr error
}

func (s *stubLinks) FindByID(_ context.Context, id uint64) (model.RoutineExercise, error) {
	re, ok := s.byID[id]
	if !ok {
		return model.RoutineExercise{}, repository.ErrNotFound
	}
	return re, nil
}
func (s *stubLinks) FindAll(context.Context) ([]model.RoutineExercise, error) { return nil, nil }
func (s *stubLinks) FindByRoutine(context.Context, uint64) ([]model.RoutineExercise, error) {
	return nil, nil
}
func (s *stubLinks) FindByExercise(context.Context, uint64) ([]model.RoutineExercise, error) {
	return nil, nil
}
func (s *stubLinks) Create(_ context.Context, re *model.RoutineExercise) error {
	if s.createErr != nil {
		return s.createErr
	}
	re.ID = uint64(len(s.created) + 1)
	s.created = append(s.created, *re)
	return nil
}
func (s *stubLinks) Update(context.Context, model.RoutineExercise) error { return nil }
func (s *stubLinks) Delete(context.Context, model.RoutineExercise) error { return nil }

func newLinkHandler(routines map[uint64]model.Routine, exercises map[uint64]model.Exercise) (*RoutineExerciseHandler, *stubLinks) {
	links := &stubLinks{byID: map[uint64]model.RoutineExercise{}}
	h := NewRoutineExerciseHandler(config.Config{}, links,
		&stubRoutines{byID: routines}, &stubExercises{byID: exercises})
	return h, links
}

func TestCreateLink(t *testing.T) {
	h, links := newLinkHandler(
		map[uint64]model.Routine{4: {ID: 4}},
		map[uint64]model.Exercise{12: {ID: 12}},
	)

	c, rec := doJSON(http.MethodPost, "/v1/routine-exercises",
		`{"routine_id":4,"exercise_id":12,"sets":3,"reps":10}`, "")
	require.NoError(t, h.Create(c))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, links.created, 1)
	assert.Equal(t, uint32(3), links.created[0].Sets)
	assert.Equal(t, uint32(10), links.created[0].Reps)
}

func TestCreateLinkUnknownRoutine(t *testing.T) {
	h, links := newLinkHandler(nil, map[uint64]model.Exercise{12: {ID: 12}})

	c, rec := doJSON(http.MethodPost, "/v1/routine-exercises",
		`{"routine_id":99,"exercise_id":12,"sets":3,"reps":10}`, "")
	require.NoError(t, h.Create(c))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, links.created, "a missing end must 404 before the insert")
}

func TestCreateLinkUnknownExercise(t *testing.T) {
	h, links := newLinkHandler(map[uint64]model.Routine{4: {ID: 4}}, nil)

	c, rec := doJSON(http.MethodPost, "/v1/routine-exercises",
		`{"routine_id":4,"exercise_id":99,"sets":3,"reps":10}`, "")
	require.NoError(t, h.Create(c))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, links.created)
}

func TestCreateLinkDuplicatePair(t *testing.T) {
	h, links := newLinkHandler(
		map[uint64]model.Routine{4: {ID: 4}},
		map[uint64]model.Exercise{12: {ID: 12}},
	)
	links.createErr = repository.ErrConflict

	c, rec := doJSON(http.MethodPost, "/v1/routine-exercises",
		`{"routine_id":4,"exercise_id":12,"sets":3,"reps":10}`, "")
	require.NoError(t, h.Create(c))

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateLinkValidation(t *testing.T) {
	h, _ := newLinkHandler(
		map[uint64]model.Routine{4: {ID: 4}},
		map[uint64]model.Exercise{12: {ID: 12}},
	)

	c, rec := doJSON(http.MethodPost, "/v1/routine-exercises",
		`{"routine_id":4,"exercise_id":12,"sets":0,"reps":10}`, "")
	require.NoError(t, h.Create(c))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "sets is required")
}

func TestUpdateLinkPatchesPrescriptionOnly(t *testing.T) {
	h, links := newLinkHandler(nil, nil)
	links.byID[9] = model.RoutineExercise{ID: 9, RoutineID: 4, ExerciseID: 12, Sets: 3, Reps: 10}

	c, rec := doJSON(http.MethodPut, "/v1/routine-exercises/9", `{"reps":12}`, "")
	c.SetParamNames("id")
	c.SetParamValues("9")
	require.NoError(t, h.Update(c))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reps":12`)
	assert.Contains(t, rec.Body.String(), `"sets":3`)
	assert.Contains(t, rec.Body.String(), `"routine_id":4`, "the link's ends never change on update")
}
