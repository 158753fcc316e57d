package model

import (
	"fmt"
	"time"
)

// Exercise represents a single trainable movement as stored in the
// `exercises` table. MuscleGroup doubles as the filter dimension for
// the by-group listing and its cache key.
//
// Fields:
//
//	ID          – primary key identifier.
//	Name        – display name (e.g. "Barbell Squat").
//	Description – free-form instructions.
//	MuscleGroup – primary muscle group (e.g. "legs", "back").
//	CreatedAt   – timestamp of creation.
//	UpdatedAt   – timestamp of last update.
type Exercise struct {
	ID          uint64    `json:"id"`           // exercises.id
	Name        string    `json:"name"`         // exercises.name
	Description string    `json:"description"`  // exercises.description
	MuscleGroup string    `json:"muscle_group"` // exercises.muscle_group
	CreatedAt   time.Time `json:"created_at"`   // exercises.created_at
	UpdatedAt   time.Time `json:"updated_at"`   // exercises.updated_at
}

// CacheKey is the single-record cache key for this exercise.
func (e Exercise) CacheKey() string {
	return fmt.Sprintf("exercise:%d", e.ID)
}

// InvalidationKeys returns every cache key a write to this exercise can
// affect, with the muscle-group filter key computed from the current
// value.
func (e Exercise) InvalidationKeys() []string {
	return []string{
		e.CacheKey(),
		"exercises:all",
		"exercises:group:" + e.MuscleGroup,
	}
}
