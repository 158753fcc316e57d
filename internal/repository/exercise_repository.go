package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gymkit/gym-api/internal/cache"
	"github.com/gymkit/gym-api/internal/config"
	"github.com/gymkit/gym-api/internal/model"
)

const exerciseCols = "id, name, description, muscle_group, created_at, updated_at"

// ExerciseRepo provides data access for exercises. Same cache
// discipline as the other repositories: read-through finders,
// invalidate-on-write mutations.
type ExerciseRepo struct {
	db    *sql.DB
	cache *cache.Store
	ttl   config.CacheConfig
}

// NewExerciseRepo constructs an ExerciseRepo.
func NewExerciseRepo(db *sql.DB, store *cache.Store, ttl config.CacheConfig) *ExerciseRepo {
	return &ExerciseRepo{db: db, cache: store, ttl: ttl}
}

func scanExercise(row interface{ Scan(...any) error }) (model.Exercise, error) {
	var e model.Exercise
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.MuscleGroup, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// FindByID fetches an exercise by id, cached at exercise:{id}.
func (r *ExerciseRepo) FindByID(ctx context.Context, id uint64) (model.Exercise, error) {
	key := fmt.Sprintf("exercise:%d", id)
	var e model.Exercise
	if cacheGet(ctx, r.cache, key, &e) {
		return e, nil
	}
	row := r.db.QueryRowContext(ctx,
		"SELECT "+exerciseCols+" FROM exercises WHERE id=? LIMIT 1", id)
	e, err := scanExercise(row)
	if err == sql.ErrNoRows {
		return model.Exercise{}, ErrNotFound
	}
	if err != nil {
		return model.Exercise{}, err
	}
	cachePut(ctx, r.cache, key, e, r.ttl.EntityTTL)
	return e, nil
}

// FindAll lists every exercise, cached at exercises:all.
func (r *ExerciseRepo) FindAll(ctx context.Context) ([]model.Exercise, error) {
	return r.cachedList(ctx, "exercises:all",
		"SELECT "+exerciseCols+" FROM exercises ORDER BY id")
}

// FindByMuscleGroup lists exercises for one muscle group, cached at
// exercises:group:{group}.
func (r *ExerciseRepo) FindByMuscleGroup(ctx context.Context, group string) ([]model.Exercise, error) {
	return r.cachedList(ctx, "exercises:group:"+group,
		"SELECT "+exerciseCols+" FROM exercises WHERE muscle_group=? ORDER BY id", group)
}

func (r *ExerciseRepo) cachedList(ctx context.Context, key, q string, args ...any) ([]model.Exercise, error) {
	var es []model.Exercise
	if cacheGet(ctx, r.cache, key, &es) {
		return es, nil
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	es = make([]model.Exercise, 0)
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		es = append(es, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	cachePut(ctx, r.cache, key, es, r.ttl.ListTTL)
	return es, nil
}

// Create inserts an exercise and populates its ID.
func (r *ExerciseRepo) Create(ctx context.Context, e *model.Exercise) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO exercises (name, description, muscle_group) VALUES (?,?,?)",
		e.Name, e.Description, e.MuscleGroup)
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
	e.ID = uint64(id)
	r.invalidate(ctx, *e)
	return nil
}

// Update rewrites the mutable columns of an existing exercise.
func (r *ExerciseRepo) Update(ctx context.Context, e model.Exercise) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE exercises SET name=?, description=?, muscle_group=? WHERE id=?",
		e.Name, e.Description, e.MuscleGroup, e.ID)
	if err != nil {
		return err
	}
	r.invalidate(ctx, e)
	return nil
}

// Delete removes an exercise row.
func (r *ExerciseRepo) Delete(ctx context.Context, e model.Exercise) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM exercises WHERE id=?", e.ID); err != nil {
		return err
	}
	r.invalidate(ctx, e)
	return nil
}

func (r *ExerciseRepo) invalidate(ctx context.Context, e model.Exercise) {
	cacheInvalidate(ctx, r.cache, e.InvalidationKeys()...)
}
