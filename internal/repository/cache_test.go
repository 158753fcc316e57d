package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymkit/gym-api/internal/cache"
	"github.com/gymkit/gym-api/internal/config"
	"github.com/gymkit/gym-api/internal/model"
)

func newTestCache(t *testing.T) (*cache.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return cache.New(redis.NewClient(&redis.Options{Addr: mr.Addr()})), mr
}

func seed(t *testing.T, mr *miniredis.Miniredis, key string, v any) {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, mr.Set(key, string(raw)))
}

// The repo is built with a nil *sql.DB here on purpose: a cache hit
// must return before any database access, so touching the handle would
// panic and fail the test.
func TestMachineFindByIDServedFromCache(t *testing.T) {
	store, mr := newTestCache(t)
	want := model.Machine{ID: 5, Name: "Leg Press", Type: "strength", Status: model.MachineOperational}
	seed(t, mr, "machine:5", want)

	r := NewMachineRepo(nil, store, config.CacheConfig{EntityTTL: 10 * time.Minute, ListTTL: 5 * time.Minute})
	got, err := r.FindByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMachineListServedFromCache(t *testing.T) {
	store, mr := newTestCache(t)
	want := []model.Machine{
		{ID: 1, Status: model.MachineOperational},
		{ID: 2, Status: model.MachineOperational},
	}
	seed(t, mr, "machines:status:operational", want)

	r := NewMachineRepo(nil, store, config.CacheConfig{})
	got, err := r.FindByStatus(context.Background(), "operational")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMachineInvalidateRemovesCurrentValueKeys(t *testing.T) {
	store, mr := newTestCache(t)
	for _, k := range []string{
		"machine:5",
		"machines:all",
		"machines:type:strength",
		"machines:status:maintenance",
		"machines:status:operational",
	} {
		seed(t, mr, k, struct{}{})
	}

	r := NewMachineRepo(nil, store, config.CacheConfig{})
	// The machine was just moved to maintenance; only the new status
	// list key participates in invalidation.
	r.invalidate(context.Background(), model.Machine{
		ID: 5, Type: "strength", Status: model.MachineMaintenance,
	})

	assert.False(t, mr.Exists("machine:5"))
	assert.False(t, mr.Exists("machines:all"))
	assert.False(t, mr.Exists("machines:type:strength"))
	assert.False(t, mr.Exists("machines:status:maintenance"))
	assert.True(t, mr.Exists("machines:status:operational"),
		"the previous status list stays cached until its TTL runs out")
}

func TestRoutineDeleteCascadeKeys(t *testing.T) {
	store, mr := newTestCache(t)
	for _, k := range []string{
		"routine:4",
		"routines:all",
		"routines:difficulty:beginner",
		"routine_exercises:all",
		"routine_exercises:routine:4",
	} {
		seed(t, mr, k, struct{}{})
	}

	r := NewRoutineRepo(nil, store, config.CacheConfig{})
	r.invalidateWithLinks(context.Background(), model.Routine{ID: 4, Difficulty: model.DifficultyBeginner})

	assert.False(t, mr.Exists("routine:4"))
	assert.False(t, mr.Exists("routine_exercises:all"))
	assert.False(t, mr.Exists("routine_exercises:routine:4"))
}

func TestCacheHelpers(t *testing.T) {
	store, _ := newTestCache(t)
	ctx := context.Background()

	var got model.Exercise
	assert.False(t, cacheGet(ctx, store, "exercise:1", &got))

	cachePut(ctx, store, "exercise:1", model.Exercise{ID: 1, Name: "Squat"}, time.Minute)
	require.True(t, cacheGet(ctx, store, "exercise:1", &got))
	assert.Equal(t, "Squat", got.Name)

	cacheInvalidate(ctx, store, "exercise:1")
	assert.False(t, cacheGet(ctx, store, "exercise:1", &got))
	// Invalidating absent keys is a no-op, not an error path.
	cacheInvalidate(ctx, store, "exercise:1")
}

func TestCacheHelpersNilStore(t *testing.T) {
	ctx := context.Background()
	var got model.Exercise
	assert.False(t, cacheGet(ctx, nil, "exercise:1", &got))
	cachePut(ctx, nil, "exercise:1", got, time.Minute)
	cacheInvalidate(ctx, nil, "exercise:1")
}
