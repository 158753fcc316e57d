// Package queue defines message payloads exchanged over the message broker.
package queue

// EntityChangedEvent is published after every successful write to a
// managed entity. It carries enough information for downstream
// consumers to audit, notify, or trigger analytics without querying the
// primary database.
type EntityChangedEvent struct {
	Entity    string `json:"entity"`     // e.g. "machine", "member"
	EntityID  uint64 `json:"entity_id"`  // primary key of the affected row
	Action    string `json:"action"`     // created | updated | deleted
	ActorID   uint64 `json:"actor_id"`   // member who performed the write (0 for self-registration)
	ActorRole string `json:"actor_role"` // role of the actor at write time
	At        string `json:"at"`         // RFC3339 timestamp of the write
}
