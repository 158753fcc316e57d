package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gymkit/gym-api/internal/cache"
	"github.com/gymkit/gym-api/internal/config"
	"github.com/gymkit/gym-api/internal/model"
)

const routineExerciseCols = "id, routine_id, exercise_id, sets, reps, created_at, updated_at"

// RoutineExerciseRepo provides data access for the routine↔exercise
// link table. Both foreign keys are filter dimensions, so a write
// invalidates the per-routine and per-exercise lists.
type RoutineExerciseRepo struct {
	db    *sql.DB
	cache *cache.Store
	ttl   config.CacheConfig
}

// NewRoutineExerciseRepo constructs a RoutineExerciseRepo.
func NewRoutineExerciseRepo(db *sql.DB, store *cache.Store, ttl config.CacheConfig) *RoutineExerciseRepo {
	return &RoutineExerciseRepo{db: db, cache: store, ttl: ttl}
}

func scanRoutineExercise(row interface{ Scan(...any) error }) (model.RoutineExercise, error) {
	var re model.RoutineExercise
	err := row.Scan(&re.ID, &re.RoutineID, &re.ExerciseID, &re.Sets, &re.Reps, &re.CreatedAt, &re.UpdatedAt)
	return re, err
}

// FindByID fetches a link row by id, cached at routine_exercise:{id}.
func (r *RoutineExerciseRepo) FindByID(ctx context.Context, id uint64) (model.RoutineExercise, error) {
	key := fmt.Sprintf("routine_exercise:%d", id)
	var re model.RoutineExercise
	if cacheGet(ctx, r.cache, key, &re) {
		return re, nil
	}
	row := r.db.QueryRowContext(ctx,
		"SELECT "+routineExerciseCols+" FROM routine_exercises WHERE id=? LIMIT 1", id)
	re, err := scanRoutineExercise(row)
	if err == sql.ErrNoRows {
		return model.RoutineExercise{}, ErrNotFound
	}
	if err != nil {
		return model.RoutineExercise{}, err
	}
	cachePut(ctx, r.cache, key, re, r.ttl.EntityTTL)
	return re, nil
}

// FindAll lists every link row, cached at routine_exercises:all.
func (r *RoutineExerciseRepo) FindAll(ctx context.Context) ([]model.RoutineExercise, error) {
	return r.cachedList(ctx, "routine_exercises:all",
		"SELECT "+routineExerciseCols+" FROM routine_exercises ORDER BY id")
}

// FindByRoutine lists the exercises attached to one routine, cached at
// routine_exercises:routine:{id}.
func (r *RoutineExerciseRepo) FindByRoutine(ctx context.Context, routineID uint64) ([]model.RoutineExercise, error) {
	return r.cachedList(ctx, fmt.Sprintf("routine_exercises:routine:%d", routineID),
		"SELECT "+routineExerciseCols+" FROM routine_exercises WHERE routine_id=? ORDER BY id", routineID)
}

// FindByExercise lists the routines an exercise appears in, cached at
// routine_exercises:exercise:{id}.
func (r *RoutineExerciseRepo) FindByExercise(ctx context.Context, exerciseID uint64) ([]model.RoutineExercise, error) {
	return r.cachedList(ctx, fmt.Sprintf("routine_exercises:exercise:%d", exerciseID),
		"SELECT "+routineExerciseCols+" FROM routine_exercises WHERE exercise_id=? ORDER BY id", exerciseID)
}

func (r *RoutineExerciseRepo) cachedList(ctx context.Context, key, q string, args ...any) ([]model.RoutineExercise, error) {
	var res []model.RoutineExercise
	if cacheGet(ctx, r.cache, key, &res) {
		return res, nil
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res = make([]model.RoutineExercise, 0)
	for rows.Next() {
		re, err := scanRoutineExercise(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, re)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	cachePut(ctx, r.cache, key, res, r.ttl.ListTTL)
	return res, nil
}

// Create inserts a link row and populates its ID. A duplicate
// (routine, exercise) pair surfaces as ErrConflict.
func (r *RoutineExerciseRepo) Create(ctx context.Context, re *model.RoutineExercise) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO routine_exercises (routine_id, exercise_id, sets, reps) VALUES (?,?,?,?)",
		re.RoutineID, re.ExerciseID, re.Sets, re.Reps)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	re.ID = uint64(id)
	r.invalidate(ctx, *re)
	return nil
}

// Update rewrites the prescription (sets/reps) of an existing link row.
// The foreign keys are immutable; unlink and relink to move an exercise
// between routines.
func (r *RoutineExerciseRepo) Update(ctx context.Context, re model.RoutineExercise) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE routine_exercises SET sets=?, reps=? WHERE id=?",
		re.Sets, re.Reps, re.ID)
	if err != nil {
		return err
	}
	r.invalidate(ctx, re)
	return nil
}

// Delete removes a link row.
func (r *RoutineExerciseRepo) Delete(ctx context.Context, re model.RoutineExercise) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM routine_exercises WHERE id=?", re.ID); err != nil {
		return err
	}
	r.invalidate(ctx, re)
	return nil
}

func (r *RoutineExerciseRepo) invalidate(ctx context.Context, re model.RoutineExercise) {
	cacheInvalidate(ctx, r.cache, re.InvalidationKeys()...)
}
