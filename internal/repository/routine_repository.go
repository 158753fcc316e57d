package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gymkit/gym-api/internal/cache"
	"github.com/gymkit/gym-api/internal/config"
	"github.com/gymkit/gym-api/internal/model"
)

const routineCols = "id, name, description, difficulty, created_at, updated_at"

// RoutineRepo provides data access for workout routines.
type RoutineRepo struct {
	db    *sql.DB
	cache *cache.Store
	ttl   config.CacheConfig
}

// NewRoutineRepo constructs a RoutineRepo.
func NewRoutineRepo(db *sql.DB, store *cache.Store, ttl config.CacheConfig) *RoutineRepo {
	return &RoutineRepo{db: db, cache: store, ttl: ttl}
}

func scanRoutine(row interface{ Scan(...any) error }) (model.Routine, error) {
	var rt model.Routine
	err := row.Scan(&rt.ID, &rt.Name, &rt.Description, &rt.Difficulty, &rt.CreatedAt, &rt.UpdatedAt)
	return rt, err
}

// FindByID fetches a routine by id, cached at routine:{id}.
func (r *RoutineRepo) FindByID(ctx context.Context, id uint64) (model.Routine, error) {
	key := fmt.Sprintf("routine:%d", id)
	var rt model.Routine
	if cacheGet(ctx, r.cache, key, &rt) {
		return rt, nil
	}
	row := r.db.QueryRowContext(ctx,
		"SELECT "+routineCols+" FROM routines WHERE id=? LIMIT 1", id)
	rt, err := scanRoutine(row)
	if err == sql.ErrNoRows {
		return model.Routine{}, ErrNotFound
	}
	if err != nil {
		return model.Routine{}, err
	}
	cachePut(ctx, r.cache, key, rt, r.ttl.EntityTTL)
	return rt, nil
}

// FindAll lists every routine, cached at routines:all.
func (r *RoutineRepo) FindAll(ctx context.Context) ([]model.Routine, error) {
	return r.cachedList(ctx, "routines:all",
		"SELECT "+routineCols+" FROM routines ORDER BY id")
}

// FindByDifficulty lists routines of one difficulty level, cached at
// routines:difficulty:{level}.
func (r *RoutineRepo) FindByDifficulty(ctx context.Context, level string) ([]model.Routine, error) {
	return r.cachedList(ctx, "routines:difficulty:"+level,
		"SELECT "+routineCols+" FROM routines WHERE difficulty=? ORDER BY id", level)
}

func (r *RoutineRepo) cachedList(ctx context.Context, key, q string, args ...any) ([]model.Routine, error) {
	var rts []model.Routine
	if cacheGet(ctx, r.cache, key, &rts) {
		return rts, nil
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rts = make([]model.Routine, 0)
	for rows.Next() {
		rt, err := scanRoutine(rows)
		if err != nil {
			return nil, err
		}
		rts = append(rts, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	cachePut(ctx, r.cache, key, rts, r.ttl.ListTTL)
	return rts, nil
}

// Create inserts a routine and populates its ID.
func (r *RoutineRepo) Create(ctx context.Context, rt *model.Routine) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO routines (name, description, difficulty) VALUES (?,?,?)",
		rt.Name, rt.Description, rt.Difficulty)
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
	rt.ID = uint64(id)
	r.invalidate(ctx, *rt)
	return nil
}

// Update rewrites the mutable columns of an existing routine.
func (r *RoutineRepo) Update(ctx context.Context, rt model.Routine) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE routines SET name=?, description=?, difficulty=? WHERE id=?",
		rt.Name, rt.Description, rt.Difficulty, rt.ID)
	if err != nil {
		return err
	}
	r.invalidate(ctx, rt)
	return nil
}

// Delete removes a routine row. Link rows in routine_exercises are
// removed by the ON DELETE CASCADE constraint; their list caches for
// this routine are invalidated here.
func (r *RoutineRepo) Delete(ctx context.Context, rt model.Routine) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM routines WHERE id=?", rt.ID); err != nil {
		return err
	}
	r.invalidateWithLinks(ctx, rt)
	return nil
}

func (r *RoutineRepo) invalidate(ctx context.Context, rt model.Routine) {
	cacheInvalidate(ctx, r.cache, rt.InvalidationKeys()...)
}

// invalidateWithLinks also drops the link-row list caches scoped to
// this routine, used when the routine row itself goes away.
func (r *RoutineRepo) invalidateWithLinks(ctx context.Context, rt model.Routine) {
	r.invalidate(ctx, rt)
	cacheInvalidate(ctx, r.cache,
		"routine_exercises:all",
		fmt.Sprintf("routine_exercises:routine:%d", rt.ID))
}
