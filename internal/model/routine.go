package model

import (
	"fmt"
	"time"
)

// Routine difficulty levels, lowest to highest.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// ValidDifficulty reports whether d is a known difficulty level.
func ValidDifficulty(d string) bool {
	return d == DifficultyBeginner || d == DifficultyIntermediate || d == DifficultyAdvanced
}

// Routine represents a workout program as stored in the `routines`
// table. Exercises are attached through the routine_exercises link
// table.
//
// Fields:
//
//	ID          – primary key identifier.
//	Name        – display name (e.g. "Push Pull Legs").
//	Description – free-form program notes.
//	Difficulty  – beginner | intermediate | advanced.
//	CreatedAt   – timestamp of creation.
//	UpdatedAt   – timestamp of last update.
type Routine struct {
	ID          uint64    `json:"id"`          // routines.id
	Name        string    `json:"name"`        // routines.name
	Description string    `json:"description"` // routines.description
	Difficulty  string    `json:"difficulty"`  // routines.difficulty
	CreatedAt   time.Time `json:"created_at"`  // routines.created_at
	UpdatedAt   time.Time `json:"updated_at"`  // routines.updated_at
}

// CacheKey is the single-record cache key for this routine.
func (r Routine) CacheKey() string {
	return fmt.Sprintf("routine:%d", r.ID)
}

// InvalidationKeys returns every cache key a write to this routine can
// affect, with the difficulty filter key computed from the current
// value.
func (r Routine) InvalidationKeys() []string {
	return []string{
		r.CacheKey(),
		"routines:all",
		"routines:difficulty:" + r.Difficulty,
	}
}
