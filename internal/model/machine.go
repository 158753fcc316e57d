package model

import (
	"fmt"
	"time"
)

// Machine status values. A machine leaves the floor either temporarily
// (maintenance) or for good (retired).
const (
	MachineOperational = "operational"
	MachineMaintenance = "maintenance"
	MachineRetired     = "retired"
)

// ValidMachineStatus reports whether s is a known machine status.
func ValidMachineStatus(s string) bool {
	return s == MachineOperational || s == MachineMaintenance || s == MachineRetired
}

// Machine represents a piece of gym equipment as stored in the
// `machines` table.
//
// Fields:
//
//	ID        – primary key identifier.
//	Name      – display name (e.g. "Leg Press 2").
//	Type      – equipment category (e.g. "cardio", "strength").
//	Status    – operational | maintenance | retired.
//	CreatedAt – timestamp of creation.
//	UpdatedAt – timestamp of last update.
type Machine struct {
	ID        uint64    `json:"id"`         // machines.id
	Name      string    `json:"name"`       // machines.name
	Type      string    `json:"type"`       // machines.type
	Status    string    `json:"status"`     // machines.status
	CreatedAt time.Time `json:"created_at"` // machines.created_at
	UpdatedAt time.Time `json:"updated_at"` // machines.updated_at
}

// CacheKey is the single-record cache key for this machine.
func (m Machine) CacheKey() string {
	return fmt.Sprintf("machine:%d", m.ID)
}

// InvalidationKeys returns every cache key a write to this machine can
// affect. Filter keys are computed from the machine's current status
// and type; a write that changed either field leaves the old value's
// list stale until TTL expiry.
func (m Machine) InvalidationKeys() []string {
	return []string{
		m.CacheKey(),
		"machines:all",
		"machines:status:" + m.Status,
		"machines:type:" + m.Type,
	}
}
