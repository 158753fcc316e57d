package model

import (
	"fmt"
	"time"
)

// RoutineExercise links a routine to an exercise with its prescription
// (sets and reps). One row per (routine, exercise) pair; the pair is
// unique in the `routine_exercises` table.
//
// Fields:
//
//	ID         – primary key identifier.
//	RoutineID  – routine the exercise belongs to.
//	ExerciseID – exercise being prescribed.
//	Sets       – number of sets.
//	Reps       – repetitions per set.
//	CreatedAt  – timestamp of creation.
//	UpdatedAt  – timestamp of last update.
type RoutineExercise struct {
	ID         uint64    `json:"id"`          // routine_exercises.id
	RoutineID  uint64    `json:"routine_id"`  // routine_exercises.routine_id
	ExerciseID uint64    `json:"exercise_id"` // routine_exercises.exercise_id
	Sets       uint32    `json:"sets"`        // routine_exercises.sets
	Reps       uint32    `json:"reps"`        // routine_exercises.reps
	CreatedAt  time.Time `json:"created_at"`  // routine_exercises.created_at
	UpdatedAt  time.Time `json:"updated_at"`  // routine_exercises.updated_at
}

// CacheKey is the single-record cache key for this link row.
func (re RoutineExercise) CacheKey() string {
	return fmt.Sprintf("routine_exercise:%d", re.ID)
}

// InvalidationKeys returns every cache key a write to this link row can
// affect: both foreign-key filter dimensions participate.
func (re RoutineExercise) InvalidationKeys() []string {
	return []string{
		re.CacheKey(),
		"routine_exercises:all",
		fmt.Sprintf("routine_exercises:routine:%d", re.RoutineID),
		fmt.Sprintf("routine_exercises:exercise:%d", re.ExerciseID),
	}
}
